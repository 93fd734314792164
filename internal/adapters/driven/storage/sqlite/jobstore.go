package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

const jobColumns = `id, label, status, input_file_id, output_file_id, error_file_id,
	documents, questions, total, completed, failed, error,
	created_at, updated_at, completed_at`

// Save creates or updates a job keyed by its ID.
func (s *jobStore) Save(ctx context.Context, job *domain.Job) error {
	if job == nil || job.ID == "" {
		return domain.ErrInvalidInput
	}

	documents, err := marshalList(job.Documents)
	if err != nil {
		return fmt.Errorf("marshalling documents: %w", err)
	}
	questions, err := marshalList(job.Questions)
	if err != nil {
		return fmt.Errorf("marshalling questions: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO batch_jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			status = excluded.status,
			input_file_id = excluded.input_file_id,
			output_file_id = excluded.output_file_id,
			error_file_id = excluded.error_file_id,
			documents = excluded.documents,
			questions = excluded.questions,
			total = excluded.total,
			completed = excluded.completed,
			failed = excluded.failed,
			error = excluded.error,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			completed_at = excluded.completed_at
	`, job.ID, nullString(job.Label), string(job.Status),
		nullString(job.InputFileID), nullString(job.OutputFileID), nullString(job.ErrorFileID),
		documents, questions,
		job.RequestCounts.Total, job.RequestCounts.Completed, job.RequestCounts.Failed,
		nullString(job.Error),
		formatNullableTime(job.CreatedAt), formatNullableTime(job.UpdatedAt), formatNullableTime(job.CompletedAt))
	if err != nil {
		return fmt.Errorf("saving batch job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID.
func (s *jobStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM batch_jobs WHERE id = ?`, id)
	return scanJob(row)
}

// List returns jobs newest first.
func (s *jobStore) List(ctx context.Context) ([]domain.Job, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM batch_jobs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying batch jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batch jobs: %w", err)
	}
	return jobs, nil
}

// Delete removes a job from the ledger.
func (s *jobStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM batch_jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting batch job: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*domain.Job, error) {
	var (
		job                                     domain.Job
		status, documents, questions            string
		label, inputID, outputID, errorID, jErr sql.NullString
		createdAt, updatedAt, completedAt       sql.NullString
	)

	err := row.Scan(&job.ID, &label, &status, &inputID, &outputID, &errorID,
		&documents, &questions,
		&job.RequestCounts.Total, &job.RequestCounts.Completed, &job.RequestCounts.Failed,
		&jErr, &createdAt, &updatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning batch job: %w", err)
	}

	job.Label = label.String
	job.Status = domain.JobStatus(status)
	job.InputFileID = inputID.String
	job.OutputFileID = outputID.String
	job.ErrorFileID = errorID.String
	job.Error = jErr.String
	job.CreatedAt = parseNullableTime(createdAt)
	job.UpdatedAt = parseNullableTime(updatedAt)
	job.CompletedAt = parseNullableTime(completedAt)

	if err := json.Unmarshal([]byte(documents), &job.Documents); err != nil {
		return nil, fmt.Errorf("unmarshalling documents of %s: %w", job.ID, err)
	}
	if err := json.Unmarshal([]byte(questions), &job.Questions); err != nil {
		return nil, fmt.Errorf("unmarshalling questions of %s: %w", job.ID, err)
	}
	return &job, nil
}

// marshalList encodes a list as JSON, writing nil as an empty array.
func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatNullableTime formats a time as a UTC RFC3339 string, or nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
