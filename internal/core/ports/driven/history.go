package driven

import "github.com/xxiswajung/LitSummarizer/internal/core/domain"

// HistoryStore persists the interactive Q&A log.
// Every update rewrites the whole log.
type HistoryStore interface {
	// Load returns the stored history. A missing store is an empty history.
	Load() (domain.History, error)

	// Append adds one exchange and persists the result.
	Append(question, answer string) error

	// Clear removes all exchanges.
	Clear() error

	// Path returns where the history is kept.
	Path() string
}

// AnswerArchive keeps a standalone copy of each interactive answer.
type AnswerArchive interface {
	// Save writes the answer and returns where it was written.
	Save(answer string) (string, error)
}
