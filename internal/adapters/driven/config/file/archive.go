package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// Ensure AnswerArchive implements the interface.
var _ driven.AnswerArchive = (*AnswerArchive)(nil)

// archiveTimestamp is the layout used in answer file names.
const archiveTimestamp = "20060102_150405"

// AnswerArchive writes each answer to chatgpt_response_<timestamp>.txt.
type AnswerArchive struct {
	dir string
	now func() time.Time
}

// NewAnswerArchive creates an archive writing into dir.
func NewAnswerArchive(dir string) *AnswerArchive {
	return &AnswerArchive{dir: dir, now: time.Now}
}

// Save writes answer to a new file and returns its path. Answers saved within
// the same second get a numeric suffix.
func (a *AnswerArchive) Save(answer string) (string, error) {
	if err := os.MkdirAll(a.dir, 0750); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}

	base := "chatgpt_response_" + a.now().Format(archiveTimestamp)
	path := filepath.Join(a.dir, base+".txt")
	for n := 2; ; n++ {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("check %s: %w", path, err)
		}
		path = filepath.Join(a.dir, fmt.Sprintf("%s_%d.txt", base, n))
	}

	if err := os.WriteFile(path, []byte(answer), 0600); err != nil {
		return "", fmt.Errorf("write answer: %w", err)
	}
	return path, nil
}
