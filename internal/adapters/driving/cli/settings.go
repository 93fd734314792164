package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// apiKeyEnv is read in preference to the stored key.
//
//nolint:gosec // G101: environment variable name, not a credential.
const apiKeyEnv = "OPENAI_API_KEY"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the model, token budget, batch polling and output settings.

Settings are stored in config.toml under the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Use "-" as the value to type it without echo,
which is recommended for llm.api_key.

Run 'litsum settings show' to list the keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	values := settingValues(settings)
	for _, key := range settingsService.Keys() {
		cmd.Printf("  %-34s %s\n", key, values[key])
	}
	cmd.Println()

	if env := os.Getenv(apiKeyEnv); env != "" {
		cmd.Printf("%s is set (%s) and takes precedence over llm.api_key.\n", apiKeyEnv, maskAPIKey(env))
	} else if !settings.LLM.IsConfigured() {
		cmd.Printf("No API key: set %s or run 'litsum settings set llm.api_key -'.\n", apiKeyEnv)
	}

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if value == "-" {
		cmd.Printf("Enter %s: ", key)
		value = readSecret(cmd.InOrStdin())
		cmd.Println()
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	display := value
	if key == "llm.api_key" {
		display = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, display)

	if strings.HasPrefix(key, "llm.") {
		if err := settingsService.ValidateLLMConfig(); err != nil {
			cmd.Printf("Warning: LLM check failed: %v\n", err)
		}
	}
	return nil
}

// settingValues renders every setting for display. The API key is masked.
func settingValues(s *domain.AppSettings) map[string]string {
	apiKey := "(not set)"
	if s.LLM.APIKey != "" {
		apiKey = maskAPIKey(s.LLM.APIKey)
	}
	baseURL := s.LLM.BaseURL
	if baseURL == "" {
		baseURL = "(default)"
	}

	return map[string]string{
		"llm.model":                       s.LLM.Model,
		"llm.base_url":                    baseURL,
		"llm.api_key":                     apiKey,
		"budget.context_window":           strconv.Itoa(s.Budget.ContextWindow),
		"budget.max_response_tokens":      strconv.Itoa(s.Budget.MaxResponseTokens),
		"budget.encoding":                 s.Budget.Encoding,
		"batch.poll_interval_seconds":     strconv.Itoa(int(s.Batch.PollInterval / time.Second)),
		"batch.max_wait_seconds":          strconv.Itoa(int(s.Batch.MaxWait / time.Second)),
		"batch.completion_window":         s.Batch.CompletionWindow,
		"batch.cancel_on_timeout":         strconv.FormatBool(s.Batch.CancelOnTimeout),
		"interactive.requests_per_minute": strconv.Itoa(s.Interactive.RequestsPerMinute),
		"output.dir":                      s.Output.Dir,
		"output.history_file":             s.Output.HistoryFile,
	}
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	return readLine(bufio.NewReader(in))
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
