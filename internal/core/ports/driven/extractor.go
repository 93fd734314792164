package driven

import "context"

// TextExtractor reads plain text out of documents.
// Errors wrap domain.ErrExtraction.
type TextExtractor interface {
	// ExtractText returns the text of every page, in page order.
	ExtractText(ctx context.Context, path string) (string, error)

	// ExtractFirstPage returns the text of the first page only.
	ExtractFirstPage(ctx context.Context, path string) (string, error)
}
