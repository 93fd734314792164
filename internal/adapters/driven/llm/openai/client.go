// Package openai provides chat and batch adapters for the OpenAI API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = domain.DefaultModel
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration shared by the OpenAI adapters.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// Retry controls retries of throttled and failed requests.
	// Nil uses DefaultRetryConfig.
	Retry *RetryConfig
}

// client performs authenticated requests against the API.
type client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	retry   *RetryConfig
}

func newClient(cfg Config) (*client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry == nil {
		cfg.Retry = DefaultRetryConfig()
	}

	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		retry:   cfg.Retry,
	}, nil
}

// requestFunc builds a fresh request for each attempt so bodies can be replayed.
type requestFunc func(ctx context.Context) (*http.Request, error)

// do sends the request with retries and returns the body of a 200 response.
func (c *client) do(ctx context.Context, build requestFunc) ([]byte, error) {
	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		return c.http.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w: %w", err, domain.ErrService)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

// doJSON sends the request and decodes a JSON response into out.
func (c *client) doJSON(ctx context.Context, build requestFunc, out any) error {
	body, err := c.do(ctx, build)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("openai: decode response: %w: %w", err, domain.ErrService)
	}
	return nil
}

// apiErrorBody is the error envelope returned by the API.
type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// statusError maps a non-200 response onto the domain errors.
func statusError(status int, body []byte) error {
	msg := string(body)
	var envelope apiErrorBody
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}

	sentinel := domain.ErrService
	if status == http.StatusTooManyRequests {
		sentinel = domain.ErrRateLimited
	}
	return fmt.Errorf("openai: API returned status %d: %s: %w", status, msg, sentinel)
}
