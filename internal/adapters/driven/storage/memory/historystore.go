package memory

import (
	"slices"
	"sync"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
// Q&A sessions started with --no-history use it so nothing is written to disk.
type HistoryStore struct {
	mu      sync.RWMutex
	history domain.History
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Load returns a copy of the stored history.
func (s *HistoryStore) Load() (domain.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.History{
		Questions: slices.Clone(s.history.Questions),
		Answers:   slices.Clone(s.history.Answers),
	}, nil
}

// Append adds one exchange.
func (s *HistoryStore) Append(question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Append(question, answer)
	return nil
}

// Clear removes all exchanges.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = domain.History{}
	return nil
}

// Path returns a placeholder, since nothing is persisted.
func (s *HistoryStore) Path() string {
	return "(memory)"
}
