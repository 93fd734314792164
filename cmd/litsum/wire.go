package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xxiswajung/LitSummarizer/internal/adapters/driven/ai"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driven/config/file"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driven/extractor/fitz"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driven/report/excel"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driven/storage/memory"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driven/storage/sqlite"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/cli"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/core/services"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
	"github.com/xxiswajung/LitSummarizer/internal/postprocessors/chunker"
)

// apiKeyEnv takes precedence over the stored API key.
//
//nolint:gosec // G101: environment variable name, not a credential.
const apiKeyEnv = "OPENAI_API_KEY"

// bootstrap builds every adapter and service from one settings value.
func bootstrap(opts cli.BootstrapOptions) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	envKey := os.Getenv(apiKeyEnv)
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(),
		services.WithAPIKeyOverride(envKey))

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if envKey != "" {
		settings.LLM.APIKey = envKey
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w (fix with 'litsum settings set')", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("prompts: %w", err)
	}

	tokenizer, err := tiktoken.New(settings.Budget.Encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}
	splitter := chunker.New(tokenizer, chunker.WithBudget(settings.Budget.MaxInputTokens()))
	logger.Debug("chunk budget: %d tokens (%s)", splitter.Budget(), tokenizer.Name())

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("job ledger: %w", err)
	}

	var (
		llm   driven.LLMService
		batch driven.BatchService
	)
	if settings.LLM.IsConfigured() {
		aiServices, err := ai.CreateServices(&settings.LLM)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		llm, batch = aiServices.LLM, aiServices.Batch
		logger.Debug("LLM: %s", llm.ModelName())
	} else {
		logger.Debug("no API key configured; LLM commands are disabled")
	}

	var history driven.HistoryStore = memory.NewHistoryStore()
	if !opts.NoHistory {
		history = file.NewHistoryStore(outputPath(settings.Output.Dir, settings.Output.HistoryFile))
	}

	extractor := fitz.NewExtractor()
	reports := excel.NewWriter()

	return &cli.Services{
		Settings: settingsService,
		Batch: services.NewBatchPipeline(
			extractor,
			splitter,
			services.NewBatchRequestBuilder(*settings, prompts),
			batch,
			store.JobStore(),
			reports,
			settings.Batch,
		),
		Summary: services.NewSummaryService(extractor, splitter, llm, prompts, reports, *settings),
		Review: services.NewReviewService(
			llm,
			history,
			file.NewAnswerArchive(settings.Output.Dir),
			prompts,
		),
		Close: func() {
			if llm != nil {
				_ = llm.Close()
			}
			if err := store.Close(); err != nil {
				logger.Warn("closing job ledger: %v", err)
			}
		},
	}, nil
}

// outputPath resolves name against the output directory unless it is absolute.
func outputPath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
