package driving

import (
	"context"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// SummaryService summarises papers one call at a time.
type SummaryService interface {
	// SummariseFolder summarises every PDF in folder and writes the
	// "<label>_summaries_<timestamp>.xlsx" report.
	SummariseFolder(ctx context.Context, folder, label string) (*domain.FolderSummary, error)
}

// ReviewService builds literature reviews and answers questions about them.
type ReviewService interface {
	// Review builds the review scaffold for one summarised folder.
	Review(summary *domain.FolderSummary) domain.FolderReview

	// Ask answers a question against the reviews and prior history,
	// archives the answer and appends the exchange to history.
	Ask(ctx context.Context, question string, reviews []domain.FolderReview) (*Answer, error)

	// History returns the stored Q&A history.
	History() (domain.History, error)

	// ClearHistory removes all stored exchanges.
	ClearHistory() error
}

// Answer is the result of one Q&A exchange.
type Answer struct {
	Text string

	// SavedTo is the archived copy of the answer, if one was written.
	SavedTo string
}
