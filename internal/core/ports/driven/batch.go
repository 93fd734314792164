package driven

import (
	"context"
	"io"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// BatchService talks to an asynchronous batch API.
type BatchService interface {
	// EncodeRequests writes requests in the service's newline-delimited
	// submission format, one line per request.
	EncodeRequests(w io.Writer, reqs []domain.Request) error

	// UploadRequests uploads an encoded request file and returns its file ID.
	UploadRequests(ctx context.Context, name string, reqs []domain.Request) (string, error)

	// CreateJob starts a batch job over an uploaded file.
	CreateJob(ctx context.Context, spec domain.JobSpec) (*domain.Job, error)

	// GetJob fetches the current state of a job.
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	// CancelJob asks the service to cancel a job.
	CancelJob(ctx context.Context, id string) (*domain.Job, error)

	// DownloadAnswers fetches an output or error file and decodes its lines.
	// Lines that cannot be decoded are skipped; they never fail the download.
	DownloadAnswers(ctx context.Context, fileID string) ([]domain.Answer, error)
}
