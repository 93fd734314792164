// Package fitz extracts PDF text with MuPDF through go-fitz.
package fitz

import (
	"context"
	"fmt"
	"strings"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads text from PDF files.
type Extractor struct{}

// NewExtractor creates a new PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the text of every page concatenated in page order.
// Pages with no extractable text contribute nothing.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	return e.extract(ctx, path, -1)
}

// ExtractFirstPage returns the text of the first page.
func (e *Extractor) ExtractFirstPage(ctx context.Context, path string) (string, error) {
	return e.extract(ctx, path, 1)
}

// extract reads up to limit pages, or all pages when limit is negative.
func (e *Extractor) extract(ctx context.Context, path string, limit int) (string, error) {
	doc, err := gofitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", path, err, domain.ErrExtraction)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if limit >= 0 && limit < pages {
		pages = limit
	}

	var b strings.Builder
	for n := 0; n < pages; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("read page %d of %s: %w: %w", n+1, path, err, domain.ErrExtraction)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
