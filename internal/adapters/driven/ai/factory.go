// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	openaillm "github.com/xxiswajung/LitSummarizer/internal/adapters/driven/llm/openai"
	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// fixHint tells the user how to supply a key.
const fixHint = "Set OPENAI_API_KEY or run 'litsum settings set llm.api_key -' to fix"

// Services holds the OpenAI adapters built from one configuration.
type Services struct {
	LLM   driven.LLMService
	Batch driven.BatchService
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.LLM != nil {
		_ = s.LLM.Close()
	}
}

// CreateServices builds the chat and batch services.
// Returns ErrLLMUnavailable when no API key is configured.
func CreateServices(settings *domain.LLMSettings) (*Services, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: no API key. %s", domain.ErrLLMUnavailable, fixHint)
	}

	llm, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}
	batch, err := CreateBatchService(settings)
	if err != nil {
		return nil, err
	}
	return &Services{LLM: llm, Batch: batch}, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns nil when no key is configured.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, fixHint)
	}
	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// An unconfigured LLM is not an error.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the OpenAI chat service.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := openaillm.NewLLMService(openAIConfig(settings))
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, fixHint)
	}
	return svc, nil
}

// CreateBatchService creates the OpenAI batch service.
func CreateBatchService(settings *domain.LLMSettings) (driven.BatchService, error) {
	svc, err := openaillm.NewBatchService(openAIConfig(settings))
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, fixHint)
	}
	return svc, nil
}

func openAIConfig(settings *domain.LLMSettings) openaillm.Config {
	return openaillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	}
}
