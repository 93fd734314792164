package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Summarisation, batch submission and Q&A are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Pipeline Errors.

	// ErrExtraction indicates text could not be read from a document.
	// The document is degraded to empty text, never dropped.
	ErrExtraction = errors.New("text extraction failed")

	// ErrService indicates a transport or remote-service failure.
	ErrService = errors.New("service error")

	// ErrMalformedKey indicates a correlation key could not be parsed.
	ErrMalformedKey = errors.New("malformed correlation key")

	// ErrUnknownQuestion indicates an answer named a question outside the set.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrJobFailed indicates a batch job reached a terminal status other than completed.
	ErrJobFailed = errors.New("batch job failed")

	// ErrWaitTimeout indicates a batch job did not finish within the maximum wait.
	ErrWaitTimeout = errors.New("batch job wait timed out")
)
