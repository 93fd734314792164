package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyContextWindow     = "budget.context_window"
	keyMaxResponseTokens = "budget.max_response_tokens"
	keyEncoding          = "budget.encoding"
	keyPollInterval      = "batch.poll_interval_seconds"
	keyMaxWait           = "batch.max_wait_seconds"
	keyCompletionWindow  = "batch.completion_window"
	keyCancelOnTimeout   = "batch.cancel_on_timeout"
	keyRequestsPerMinute = "interactive.requests_per_minute"
	keyOutputDir         = "output.dir"
	keyHistoryFile       = "output.history_file"
)

// settingKind is how a key's value is parsed and stored.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
)

// settingKeys lists every settable key in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyContextWindow, kindInt},
	{keyMaxResponseTokens, kindInt},
	{keyEncoding, kindString},
	{keyPollInterval, kindInt},
	{keyMaxWait, kindInt},
	{keyCompletionWindow, kindString},
	{keyCancelOnTimeout, kindBool},
	{keyRequestsPerMinute, kindInt},
	{keyOutputDir, kindString},
	{keyHistoryFile, kindString},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore    driven.ConfigStore
	aiValidator    driven.AIConfigValidator
	apiKeyOverride string
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithAPIKeyOverride sets a key, usually from the environment, that takes
// precedence over the stored one when validating. It is never persisted.
func WithAPIKeyOverride(key string) SettingsOption {
	return func(s *SettingsService) {
		s.apiKeyOverride = key
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	opts ...SettingsOption,
) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings, with defaults for unset keys.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Model:   s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL: s.configStore.GetString(keyLLMBaseURL), // No default - empty means the public API
			APIKey:  s.configStore.GetString(keyLLMAPIKey),
		},
		Budget: domain.BudgetSettings{
			ContextWindow:     s.getInt(keyContextWindow, defaults.Budget.ContextWindow),
			MaxResponseTokens: s.getInt(keyMaxResponseTokens, defaults.Budget.MaxResponseTokens),
			Encoding:          s.getString(keyEncoding, defaults.Budget.Encoding),
		},
		Batch: domain.BatchSettings{
			PollInterval:     s.getSeconds(keyPollInterval, defaults.Batch.PollInterval),
			MaxWait:          s.getSeconds(keyMaxWait, defaults.Batch.MaxWait),
			CompletionWindow: s.getString(keyCompletionWindow, defaults.Batch.CompletionWindow),
			CancelOnTimeout:  s.getBool(keyCancelOnTimeout, defaults.Batch.CancelOnTimeout),
		},
		Interactive: domain.InteractiveSettings{
			RequestsPerMinute: s.getInt(keyRequestsPerMinute, defaults.Interactive.RequestsPerMinute),
		},
		Output: domain.OutputSettings{
			Dir:         s.getString(keyOutputDir, defaults.Output.Dir),
			HistoryFile: s.getString(keyHistoryFile, defaults.Output.HistoryFile),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyContextWindow, settings.Budget.ContextWindow},
		{keyMaxResponseTokens, settings.Budget.MaxResponseTokens},
		{keyEncoding, settings.Budget.Encoding},
		{keyPollInterval, int(settings.Batch.PollInterval / time.Second)},
		{keyMaxWait, int(settings.Batch.MaxWait / time.Second)},
		{keyCompletionWindow, settings.Batch.CompletionWindow},
		{keyCancelOnTimeout, settings.Batch.CancelOnTimeout},
		{keyRequestsPerMinute, settings.Interactive.RequestsPerMinute},
		{keyOutputDir, settings.Output.Dir},
		{keyHistoryFile, settings.Output.HistoryFile},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Only persist the API key when one is provided
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// Set parses value according to the key's type and stores it.
// The resulting settings must still validate.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (valid: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = b
	default:
		parsed = value
	}

	previous, existed := s.configStore.Get(key)
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		// Roll back to keep the stored configuration usable.
		if existed {
			_ = s.configStore.Set(key, previous)
		} else {
			_ = s.configStore.Set(key, defaultValue(key))
		}
		return err
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if s.apiKeyOverride != "" {
		settings.LLM.APIKey = s.apiKeyOverride
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func kindOf(key string) (settingKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return kindString, false
}

// defaultValue returns the stored form of a key's default.
func defaultValue(key string) any {
	d := domain.DefaultAppSettings()
	switch key {
	case keyLLMModel:
		return d.LLM.Model
	case keyContextWindow:
		return d.Budget.ContextWindow
	case keyMaxResponseTokens:
		return d.Budget.MaxResponseTokens
	case keyEncoding:
		return d.Budget.Encoding
	case keyPollInterval:
		return int(d.Batch.PollInterval / time.Second)
	case keyMaxWait:
		return int(d.Batch.MaxWait / time.Second)
	case keyCompletionWindow:
		return d.Batch.CompletionWindow
	case keyCancelOnTimeout:
		return d.Batch.CancelOnTimeout
	case keyRequestsPerMinute:
		return d.Interactive.RequestsPerMinute
	case keyOutputDir:
		return d.Output.Dir
	case keyHistoryFile:
		return d.Output.HistoryFile
	default:
		return ""
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}
