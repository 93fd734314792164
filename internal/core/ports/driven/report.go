package driven

import (
	"context"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// ReportWriter writes a tabular report to a file.
type ReportWriter interface {
	WriteReport(ctx context.Context, path string, report domain.Report) error
}
