// Package cli provides the cobra commands for litsum.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services are the driving ports the commands call.
type Services struct {
	Settings driving.SettingsService
	Batch    driving.BatchPipeline
	Summary  driving.SummaryService
	Review   driving.ReviewService

	// Close releases resources held by the services. May be nil.
	Close func()
}

// BootstrapOptions are the command-line choices that affect wiring.
type BootstrapOptions struct {
	// ConfigDir overrides the default configuration directory.
	ConfigDir string

	// NoHistory keeps Q&A history in memory only.
	NoHistory bool
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(opts BootstrapOptions) (*Services, error)

var (
	bootstrap       Bootstrap
	closeServices   func()
	settingsService driving.SettingsService
	batchPipeline   driving.BatchPipeline
	summaryService  driving.SummaryService
	reviewService   driving.ReviewService
)

var rootCmd = &cobra.Command{
	Use:   "litsum",
	Short: "Summarise folders of research papers with an LLM",
	Long: `litsum extracts text from PDF papers, asks a fixed set of questions about
every token-budgeted chunk, and writes one spreadsheet row per paper.

Batch mode submits every question as one asynchronous job. Interactive mode
summarises papers call by call and lets you ask questions about the results.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if closeServices != nil {
			closeServices()
			closeServices = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.litsum)")
}

// Execute runs the root command. Cancelling ctx interrupts long-running commands.
// Command output goes to stdout; logs and errors stay on stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices sets the services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	batchPipeline = s.Batch
	summaryService = s.Summary
	reviewService = s.Review
	closeServices = s.Close
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd == versionCmd {
		return nil
	}

	services, err := bootstrap(BootstrapOptions{
		ConfigDir: configDir,
		NoHistory: askNoHistory,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(services)
	return nil
}

// llmHint adds setup guidance to errors caused by a missing API key.
func llmHint(err error) error {
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return fmt.Errorf("%w\nSet OPENAI_API_KEY or run 'litsum settings set llm.api_key -'", err)
	}
	return err
}
