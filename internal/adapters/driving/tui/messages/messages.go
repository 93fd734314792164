// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// JobUpdated carries a job state observed while polling.
type JobUpdated struct {
	Job domain.Job
}

// WaitFinished is sent once the wait returns.
type WaitFinished struct {
	Job *domain.Job
	Err error
}

// CancelRequested is sent when the user asks to cancel the job.
type CancelRequested struct{}

// CancelCompleted carries the result of a cancel request.
type CancelCompleted struct {
	Job *domain.Job
	Err error
}
