package provider

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterModel   = "meta-llama/llama-3.3-70b-instruct:free"
	defaultTimeout    = 30 * time.Second
)

// OpenRouter calls the OpenRouter chat-completions API.
type OpenRouter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	referer    string
	title      string
}

// NewOpenRouter creates an OpenRouter client with the given API key. An empty
// key is allowed; Generate then fails with ErrNoCredential.
func NewOpenRouter(apiKey string) *OpenRouter {
	return &OpenRouter{
		apiKey:     apiKey,
		baseURL:    openRouterBaseURL,
		model:      openRouterModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
		referer:    "https://skynetra.vercel.app",
		title:      "SKYNETRA Disaster Assistant",
	}
}

// NewOpenRouterWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewOpenRouterWithBaseURL(apiKey, baseURL string) *OpenRouter {
	c := NewOpenRouter(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *OpenRouter) ID() string { return "openrouter" }

func (c *OpenRouter) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoCredential
	}
	return postChatCompletion(ctx, c.httpClient, c.baseURL+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"HTTP-Referer":  c.referer,
		"X-Title":       c.title,
	}, chatCompletionRequest{
		Model:       c.model,
		Messages:    messagesFor(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}
