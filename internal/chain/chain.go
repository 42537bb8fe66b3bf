// Package chain walks ranked generation providers in order until one answers.
// Exhaustion is a signal for the caller to fall back offline, never an error.
package chain

import (
	"context"
	"log/slog"
	"time"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/cache"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/provider"
)

const (
	defaultMaxTokens   = 500
	defaultTemperature = 0.7

	// Urgent turns get shorter, more directive output.
	urgentMaxTokens   = 300
	urgentTemperature = 0.3

	defaultCallTimeout = 30 * time.Second
)

// Attempt is the record of one provider call within a single turn.
type Attempt struct {
	ProviderID string
	Err        error // nil on success
	Latency    time.Duration
}

// Result is the outcome of one chain invocation. Exactly one of three shapes:
// a cache hit, a provider success, or Exhausted set with empty text.
type Result struct {
	Text       string
	ProviderID string
	Cached     bool
	Exhausted  bool
	Attempts   []Attempt
}

// Chain tries providers in fixed priority order, consulting the response
// cache first.
type Chain struct {
	providers   []provider.Provider
	cache       *cache.Cache
	callTimeout time.Duration
	logger      *slog.Logger
}

// New creates a chain over the given providers, ranked by position.
func New(providers []provider.Provider, respCache *cache.Cache, logger *slog.Logger) *Chain {
	return &Chain{
		providers:   providers,
		cache:       respCache,
		callTimeout: defaultCallTimeout,
		logger:      logger,
	}
}

// Input is one turn's generation request.
type Input struct {
	Prompt   string // composed system instruction
	Message  string // raw user message
	CacheKey string
	Urgent   bool
}

// Generate resolves the turn. A cache hit skips every provider. Otherwise
// providers are tried in order with a bounded per-call timeout; any failure
// advances to the next with no same-provider retry. The first success is
// written back to the cache. When all providers fail the result carries
// Exhausted and the caller answers offline.
func (c *Chain) Generate(ctx context.Context, in Input) Result {
	if cached, ok := c.cache.Get(in.CacheKey); ok {
		return Result{Text: cached, ProviderID: "cache", Cached: true}
	}

	req := provider.GenerateRequest{
		System:      in.Prompt,
		User:        in.Message,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
	if in.Urgent {
		req.MaxTokens = urgentMaxTokens
		req.Temperature = urgentTemperature
	}

	var attempts []Attempt
	for _, p := range c.providers {
		if ctx.Err() != nil {
			break
		}

		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		start := time.Now()
		text, err := p.Generate(callCtx, req)
		latency := time.Since(start)
		cancel()

		attempts = append(attempts, Attempt{ProviderID: p.ID(), Err: err, Latency: latency})
		if err != nil {
			c.logger.Warn("provider failed, advancing",
				"provider", p.ID(),
				"latency", latency,
				"error", err)
			continue
		}

		c.cache.Put(in.CacheKey, text)
		return Result{Text: text, ProviderID: p.ID(), Attempts: attempts}
	}

	return Result{Exhausted: true, Attempts: attempts}
}
