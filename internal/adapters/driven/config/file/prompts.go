package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptVerbs is the number of %s verbs a template must carry.
// Names not listed take none.
var promptVerbs = map[string]int{
	driven.PromptMetadata: 1,
}

// promptNotes describes each file in the generated README.
var promptNotes = map[string]string{
	driven.PromptBatchSystem:    "system instruction attached to every batch request",
	driven.PromptSummarySystem:  "system instruction for interactive summaries",
	driven.PromptMetadataSystem: "system instruction for title/author/year extraction",
	driven.PromptMetadata:       "metadata question; `%s` is replaced with the first page",
	driven.PromptReviewSystem:   "system instruction for literature Q&A",
}

type cachedPrompt struct {
	text    string
	modTime time.Time
}

// PromptStore serves prompt templates from <name>.txt files in one directory.
// Edited files are picked up on the next Load without a restart, so a running
// Q&A session sees changes between questions. Missing, blank or malformed
// files fall back to driven.DefaultPrompts.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]cachedPrompt
}

// NewPromptStore creates a file-based prompt store rooted at dir.
// An empty dir means ~/.litsum/prompts. Nothing is touched on disk until Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]cachedPrompt)}, nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template for name.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := driven.DefaultPrompts[name]

	s.seedOnce.Do(func() { s.seedErr = s.seed() })
	if s.seedErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	text, err := s.read(name)
	switch {
	case err == nil:
	case known:
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("prompt %q unreadable, using default: %v", name, err)
		}
		return fallback, nil
	default:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	if text == "" && known {
		return fallback, nil
	}
	if want := promptVerbs[name]; known && strings.Count(text, "%s") != want {
		logger.Warn("prompt %q must contain %d %%s placeholder(s), using default", name, want)
		return fallback, nil
	}
	return text, nil
}

// Reload drops every cached template.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// read returns the trimmed file content, reusing the cached copy while the
// file's modification time is unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := filepath.Join(s.dir, name+".txt")
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	hit, ok := s.cache[name]
	s.mu.Unlock()
	if ok && hit.modTime.Equal(info.ModTime()) {
		return hit.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))

	s.mu.Lock()
	s.cache[name] = cachedPrompt{text: text, modTime: info.ModTime()}
	s.mu.Unlock()
	return text, nil
}

// seed creates the directory, one file per default prompt that is not
// already present, and a README listing them.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	names := slices.Sorted(maps.Keys(driven.DefaultPrompts))

	for _, name := range names {
		if err := writeIfMissing(filepath.Join(s.dir, name+".txt"), driven.DefaultPrompts[name]); err != nil {
			return fmt.Errorf("create default prompt %q: %w", name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme(names))
}

func promptReadme(names []string) string {
	var b strings.Builder
	b.WriteString("# litsum prompts\n\n")
	b.WriteString("These files hold the prompts litsum sends to the model.\n")
	b.WriteString("Edits take effect on the next request.\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s.txt`: %s\n", name, promptNotes[name])
	}
	b.WriteString("\nDelete or empty a file to restore its default.\n")
	b.WriteString("The per-paper questions are part of the report layout and are not editable here.\n")
	return b.String()
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
