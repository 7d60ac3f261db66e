package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/gabohq/backend/internal/domain"
)

const completionsPath = "/openai/v1/chat/completions"

// Config holds the Groq connection settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// Client talks to the Groq chat completions API. It satisfies
// domain.CompletionClient; an empty API key leaves it unavailable and the
// assistant runs in catalog-only mode.
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a Groq client with the given configuration.
func NewClient(config Config, logger zerolog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.groq.com"
	}
	if config.Model == "" {
		config.Model = "llama-3.1-8b-instant"
	}
	if config.Temperature <= 0 {
		config.Temperature = 0.7
	}
	if config.TopP <= 0 {
		config.TopP = 0.9
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	// Groq free tier allows 30 requests per minute
	limiter := rate.NewLimiter(rate.Limit(0.5), 5)

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		config:      config,
		rateLimiter: limiter,
		logger:      logger.With().Str("component", "llm").Logger(),
	}
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c.config.APIKey != ""
}

type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	TopP        float64              `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one turn to the completions endpoint and returns the
// model's reply. Transient failures are retried up to 3 times with
// increasing backoff.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if !c.Available() {
		return "", domain.ErrCompletionUnavailable
	}

	messages := make([]domain.ChatMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: req.SystemPrompt})
	}
	messages = append(messages, req.History...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: req.UserMessage})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 100
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   maxTokens,
		TopP:        c.config.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		answer, retryable, err := c.send(ctx, payload)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("completion attempt failed")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt*500) * time.Millisecond):
		}
	}
	return "", lastErr
}

// send executes one completion request. The second return value reports
// whether the failure is worth retrying.
func (c *Client) send(ctx context.Context, payload []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, fmt.Errorf("%w: status %d", domain.ErrCompletionFailed, resp.StatusCode)
	default:
		return "", false, fmt.Errorf("%w: status %d: %s", domain.ErrCompletionFailed, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", false, fmt.Errorf("decode completion response: %w", err)
	}
	if chatResp.Error != nil {
		return "", false, fmt.Errorf("%w: %s", domain.ErrCompletionFailed, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", false, fmt.Errorf("%w: empty choices", domain.ErrCompletionFailed)
	}

	answer := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if answer == "" {
		return "", false, fmt.Errorf("%w: empty answer", domain.ErrCompletionFailed)
	}
	return answer, false, nil
}
