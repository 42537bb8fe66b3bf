package provider

import (
	"context"
	"net/http"
	"strings"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.3-70b-versatile"
)

// Groq calls the Groq OpenAI-compatible chat-completions API.
type Groq struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGroq creates a Groq client with the given API key. An empty key is
// allowed; Generate then fails with ErrNoCredential.
func NewGroq(apiKey string) *Groq {
	return &Groq{
		apiKey:     apiKey,
		baseURL:    groqBaseURL,
		model:      groqModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewGroqWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewGroqWithBaseURL(apiKey, baseURL string) *Groq {
	c := NewGroq(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Groq) ID() string { return "groq" }

func (c *Groq) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoCredential
	}
	return postChatCompletion(ctx, c.httpClient, c.baseURL+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, chatCompletionRequest{
		Model:       c.model,
		Messages:    messagesFor(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}
