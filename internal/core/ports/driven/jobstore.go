package driven

import (
	"context"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// JobStore is the local ledger of submitted batch jobs.
type JobStore interface {
	// Save creates or updates a job keyed by its ID.
	Save(ctx context.Context, job *domain.Job) error

	// Get retrieves a job by ID.
	// Returns domain.ErrNotFound if the job was never recorded.
	Get(ctx context.Context, id string) (*domain.Job, error)

	// List returns recorded jobs, most recently created first.
	List(ctx context.Context) ([]domain.Job, error)

	// Delete removes a job from the ledger.
	Delete(ctx context.Context, id string) error
}
