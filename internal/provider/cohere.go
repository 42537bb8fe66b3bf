package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	cohereBaseURL = "https://api.cohere.com"
	cohereModel   = "command-r"
)

// Cohere calls the Cohere v2 chat API. The wire format differs from the
// OpenAI-compatible providers so it carries its own codec.
type Cohere struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewCohere creates a Cohere client with the given API key. An empty key is
// allowed; Generate then fails with ErrNoCredential.
func NewCohere(apiKey string) *Cohere {
	return &Cohere{
		apiKey:     apiKey,
		baseURL:    cohereBaseURL,
		model:      cohereModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewCohereWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewCohereWithBaseURL(apiKey, baseURL string) *Cohere {
	c := NewCohere(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Cohere) ID() string { return "cohere" }

type cohereChatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type cohereChatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

func (c *Cohere) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoCredential
	}

	body, err := json.Marshal(cohereChatRequest{
		Model:       c.model,
		Messages:    messagesFor(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed cohereChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var sb strings.Builder
	for _, part := range parsed.Message.Content {
		if part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty completion")
	}
	return text, nil
}
