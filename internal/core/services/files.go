package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// listPDFs returns the PDF files directly inside folder, sorted by name.
func listPDFs(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", folder, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(folder, e.Name()))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no PDF files in %s: %w", folder, domain.ErrNotFound)
	}
	return paths, nil
}
