package driving

import (
	"context"
	"io"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// JobUpdateFunc receives every job state observed while waiting.
type JobUpdateFunc func(job domain.Job)

// BatchPipeline runs the batch summarisation workflow.
type BatchPipeline interface {
	// Prepare reads, chunks and builds requests for every PDF in a folder.
	Prepare(ctx context.Context, folder string) (*domain.PreparedBatch, error)

	// WriteRequests writes the prepared request file without submitting it.
	WriteRequests(w io.Writer, batch *domain.PreparedBatch) error

	// Submit uploads the requests, creates the job and records it.
	Submit(ctx context.Context, batch *domain.PreparedBatch, label string) (*domain.Job, error)

	// Wait polls until the job is terminal, the maximum wait elapses or ctx is done.
	// A job that ends in any status but completed returns domain.ErrJobFailed.
	Wait(ctx context.Context, jobID string, onUpdate JobUpdateFunc) (*domain.Job, error)

	// Collect downloads a completed job's answers and demultiplexes them.
	Collect(ctx context.Context, jobID string) (*CollectResult, error)

	// WriteReport writes collected records as a spreadsheet.
	WriteReport(ctx context.Context, path string, result *CollectResult) error

	// Cancel asks the service to cancel a job.
	Cancel(ctx context.Context, jobID string) (*domain.Job, error)

	// Status refreshes a job from the service.
	Status(ctx context.Context, jobID string) (*domain.Job, error)

	// List returns jobs recorded in the local ledger.
	List(ctx context.Context) ([]domain.Job, error)

	// Run performs prepare, submit, wait, collect and report in one call.
	Run(ctx context.Context, folder, outPath, label string, onUpdate JobUpdateFunc) (*CollectResult, error)
}

// CollectResult is the demultiplexed output of a job.
type CollectResult struct {
	Job       domain.Job
	Questions domain.QuestionSet
	Records   []domain.SummaryRecord
	Stats     domain.DemuxStats
}
