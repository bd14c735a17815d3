// Package perplexity implements the completion client against the
// Perplexity chat-completions API.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/Kaushik-07/BrandRanker/internal/domain"
)

const samplingTemperature = 0.0

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client sends chat-completion requests with temperature 0 for determinism.
// It performs exactly one call per invocation; retry policy belongs to the
// orchestrator so rate-limit accounting stays accurate.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
	logger    *slog.Logger
}

func NewClient(baseURL, apiKey, model string, maxTokens int, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client:    httpClient,
		logger:    logger,
	}
}

// Complete sends the system and user messages and returns the assistant
// message content. Failures are classified into the domain error taxonomy.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: samplingTemperature,
		MaxTokens:   c.maxTokens,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("completion call: %w", domain.ErrTimeout)
		}
		return "", fmt.Errorf("completion call failed: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("completion endpoint returned error status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return "", fmt.Errorf("completion endpoint returned %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w: %w", domain.ErrMalformedResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices: %w", domain.ErrMalformedResponse)
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("completion response message is empty: %w", domain.ErrMalformedResponse)
	}
	return content, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ domain.CompletionClient = (*Client)(nil)
