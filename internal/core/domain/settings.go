package domain

import (
	"fmt"
	"time"
)

// Default budget and model values.
const (
	DefaultModel             = "gpt-4o-mini"
	DefaultContextWindow     = 4096
	DefaultMaxResponseTokens = 1000
	DefaultEncoding          = "o200k_base"
	DefaultPollInterval      = 10 * time.Minute
	DefaultMaxWait           = 26 * time.Hour
	DefaultCompletionWindow  = "24h"
	DefaultRequestsPerMinute = 60
	DefaultHistoryFile       = "chat_history.json"
)

// LLMSettings configures the chat-completion service.
type LLMSettings struct {
	Model   string
	BaseURL string
	APIKey  string
}

// IsConfigured returns true if an API key is present.
func (s LLMSettings) IsConfigured() bool {
	return s.APIKey != ""
}

// BudgetSettings bounds what a single request may contain.
type BudgetSettings struct {
	// ContextWindow is the model's total token window.
	ContextWindow int

	// MaxResponseTokens is reserved for the answer and sent as max_tokens.
	MaxResponseTokens int

	// Encoding names the tokenizer encoding.
	Encoding string
}

// MaxInputTokens is the chunk budget: the context window minus the response reserve.
func (b BudgetSettings) MaxInputTokens() int {
	return b.ContextWindow - b.MaxResponseTokens
}

// BatchSettings configures job submission and polling.
type BatchSettings struct {
	PollInterval     time.Duration
	MaxWait          time.Duration
	CompletionWindow string

	// CancelOnTimeout cancels the remote job when MaxWait elapses.
	CancelOnTimeout bool
}

// InteractiveSettings configures the interactive summariser.
type InteractiveSettings struct {
	RequestsPerMinute int
}

// OutputSettings configures where artefacts are written.
type OutputSettings struct {
	Dir         string
	HistoryFile string
}

// AppSettings is the single configuration object passed to every component.
type AppSettings struct {
	LLM         LLMSettings
	Budget      BudgetSettings
	Batch       BatchSettings
	Interactive InteractiveSettings
	Output      OutputSettings
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Model: DefaultModel,
		},
		Budget: BudgetSettings{
			ContextWindow:     DefaultContextWindow,
			MaxResponseTokens: DefaultMaxResponseTokens,
			Encoding:          DefaultEncoding,
		},
		Batch: BatchSettings{
			PollInterval:     DefaultPollInterval,
			MaxWait:          DefaultMaxWait,
			CompletionWindow: DefaultCompletionWindow,
			CancelOnTimeout:  true,
		},
		Interactive: InteractiveSettings{
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
		Output: OutputSettings{
			Dir:         ".",
			HistoryFile: DefaultHistoryFile,
		},
	}
}

// Validate checks the settings are internally consistent.
func (s AppSettings) Validate() error {
	if s.LLM.Model == "" {
		return fmt.Errorf("%w: llm.model is empty", ErrInvalidInput)
	}
	if s.Budget.MaxResponseTokens <= 0 {
		return fmt.Errorf("%w: budget.max_response_tokens must be positive", ErrInvalidInput)
	}
	if s.Budget.MaxInputTokens() <= 0 {
		return fmt.Errorf("%w: budget.context_window (%d) must exceed budget.max_response_tokens (%d)",
			ErrInvalidInput, s.Budget.ContextWindow, s.Budget.MaxResponseTokens)
	}
	if s.Batch.PollInterval <= 0 {
		return fmt.Errorf("%w: batch.poll_interval_seconds must be positive", ErrInvalidInput)
	}
	if s.Interactive.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: interactive.requests_per_minute must not be negative", ErrInvalidInput)
	}
	return nil
}
