package services

import (
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// loadPrompt loads a prompt from the store, falling back to the built-in default.
func loadPrompt(store driven.PromptStore, name string) string {
	if store == nil {
		return driven.DefaultPrompts[name]
	}
	prompt, err := store.Load(name)
	if err != nil || prompt == "" {
		if err != nil {
			logger.Debug("prompt %s: %v (using default)", name, err)
		}
		return driven.DefaultPrompts[name]
	}
	return prompt
}
