package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps the Q&A log in a JSON file of the form
// {"questions": [...], "answers": [...]}. Every update rewrites the file.
type HistoryStore struct {
	mu   sync.Mutex
	path string
}

// NewHistoryStore creates a history store backed by path.
// The file is created on the first Append.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Load reads the history. A missing file is an empty history.
func (s *HistoryStore) Load() (domain.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append adds one exchange and rewrites the file.
func (s *HistoryStore) Append(question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil {
		return err
	}
	history.Append(question, answer)
	return s.save(history)
}

// Clear writes an empty history.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(domain.History{})
}

// Path returns the history file path.
func (s *HistoryStore) Path() string {
	return s.path
}

func (s *HistoryStore) load() (domain.History, error) {
	var history domain.History

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return history, nil
	}
	if err != nil {
		return history, fmt.Errorf("read history: %w", err)
	}

	if err := json.Unmarshal(data, &history); err != nil {
		return domain.History{}, fmt.Errorf("parse history %s: %w", s.path, err)
	}
	return history, nil
}

func (s *HistoryStore) save(history domain.History) error {
	if history.Questions == nil {
		history.Questions = []string{}
	}
	if history.Answers == nil {
		history.Answers = []string{}
	}

	data, err := json.MarshalIndent(history, "", "    ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return os.WriteFile(s.path, data, 0600)
}
