package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/cli"
	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

func mustBootstrap(t *testing.T, opts cli.BootstrapOptions) *cli.Services {
	t.Helper()
	s, err := bootstrap(opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestBootstrap_WithoutAPIKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "")
	dir := t.TempDir()

	s := mustBootstrap(t, cli.BootstrapOptions{ConfigDir: dir})

	require.NotNil(t, s.Settings)
	require.NotNil(t, s.Batch)
	require.NotNil(t, s.Summary)
	require.NotNil(t, s.Review)
	assert.FileExists(t, filepath.Join(dir, "data", "jobs.db"))

	_, err := s.Summary.SummariseFolder(t.Context(), dir, "x")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	jobs, err := s.Batch.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestBootstrap_WithEnvKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "sk-test-0000000000")

	s := mustBootstrap(t, cli.BootstrapOptions{ConfigDir: t.TempDir(), NoHistory: true})

	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Empty(t, settings.LLM.APIKey, "the environment key is never written to config")

	history, err := s.Review.History()
	require.NoError(t, err)
	assert.Equal(t, 0, history.Len())
}

func TestBootstrap_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	config := "[budget]\ncontext_window = 100\nmax_response_tokens = 500\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0600))

	_, err := bootstrap(cli.BootstrapOptions{ConfigDir: dir})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "litsum settings set")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "chat_history.json"), outputPath("out", "chat_history.json"))
	abs := filepath.Join(string(filepath.Separator), "tmp", "h.json")
	assert.Equal(t, abs, outputPath("out", abs))
}
