// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the litsum config directory or the
// configured output directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
//   - HistoryStore: JSON Q&A history
//   - AnswerArchive: one text file per interactive answer
package file
