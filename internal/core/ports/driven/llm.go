package driven

import (
	"context"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// LLMService provides synchronous chat completions.
//
// Implementations return errors wrapping domain.ErrService on transport or
// API failure, so callers can fall back per question.
type LLMService interface {
	// Chat conducts a single request/response exchange.
	Chat(ctx context.Context, messages []domain.Message, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
