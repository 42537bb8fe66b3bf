// Package provider normalizes heterogeneous text-generation services behind
// one interface. Each client accepts a system instruction and user message
// and returns plain text; auth and response-shape differences stay inside
// the client.
package provider

import (
	"context"
	"errors"
)

// ErrNoCredential is returned before any network call when a provider has no
// API key configured. The fallback chain records it like any other failure.
var ErrNoCredential = errors.New("api key not configured")

// GenerateRequest is the normalized generation call.
type GenerateRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Provider is one ranked external text-generation service.
type Provider interface {
	// ID identifies the provider in attempt logs and responses.
	ID() string

	// Generate produces a completion for the request, honoring ctx for
	// timeout and cancellation.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
