package domain

import "time"

// JobStatus is the remote lifecycle state of a batch job.
type JobStatus string

// Batch job statuses as reported by the service.
const (
	JobStatusValidating JobStatus = "validating"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusFinalizing JobStatus = "finalizing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusExpired    JobStatus = "expired"
	JobStatusCancelling JobStatus = "cancelling"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsTerminal reports whether the job will not change status again.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusExpired, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// Succeeded reports whether the job produced output. Every other terminal
// status is a job failure.
func (s JobStatus) Succeeded() bool {
	return s == JobStatusCompleted
}

// String returns the string representation.
func (s JobStatus) String() string {
	return string(s)
}

// RequestCounts mirrors the service's per-job request tallies.
type RequestCounts struct {
	Total     int
	Completed int
	Failed    int
}

// Job is one asynchronous batch submission covering an entire run.
type Job struct {
	// ID is the service-assigned batch identifier.
	ID string

	// Label is a user-supplied name for the run.
	Label string

	Status       JobStatus
	InputFileID  string
	OutputFileID string
	ErrorFileID  string

	// Documents lists document IDs in submission order. Collected records
	// follow this order.
	Documents []string

	// Questions lists the question names the job asked.
	Questions []string

	RequestCounts RequestCounts

	// Error holds the service's failure description, if any.
	Error string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// JobSpec describes a job to create.
type JobSpec struct {
	InputFileID      string
	Endpoint         string
	CompletionWindow string
	Description      string
}

// Batch submission defaults.
const (
	ChatCompletionsEndpoint = "/v1/chat/completions"
	BatchInputFilename      = "batch_input.jsonl"
	BatchJobDescription     = "Summarize research papers batch job"
)
