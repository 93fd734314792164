package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// Ensure BatchService implements the interface.
var _ driven.BatchService = (*BatchService)(nil)

const (
	// filePurposeBatch marks uploaded files as batch input.
	filePurposeBatch = "batch"

	// fileIDPrefix starts every valid file ID.
	fileIDPrefix = "file-"

	// maxLineSize bounds a single output line.
	maxLineSize = 16 * 1024 * 1024
)

// BatchService submits and tracks jobs through the OpenAI Batch API.
type BatchService struct {
	*client
}

// batchLine is one line of the request file.
type batchLine struct {
	CustomID string                `json:"custom_id"`
	Method   string                `json:"method"`
	URL      string                `json:"url"`
	Body     chatCompletionRequest `json:"body"`
}

// fileObject is the /files response.
type fileObject struct {
	ID      string `json:"id"`
	Purpose string `json:"purpose"`
}

// batchCreateRequest is the /batches request body.
type batchCreateRequest struct {
	InputFileID      string            `json:"input_file_id"`
	Endpoint         string            `json:"endpoint"`
	CompletionWindow string            `json:"completion_window"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// batchObject is the /batches response.
type batchObject struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	InputFileID   string `json:"input_file_id"`
	OutputFileID  string `json:"output_file_id"`
	ErrorFileID   string `json:"error_file_id"`
	CreatedAt     int64  `json:"created_at"`
	CompletedAt   int64  `json:"completed_at"`
	FailedAt      int64  `json:"failed_at"`
	ExpiredAt     int64  `json:"expired_at"`
	CancelledAt   int64  `json:"cancelled_at"`
	RequestCounts struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Failed    int `json:"failed"`
	} `json:"request_counts"`
	Errors *struct {
		Data []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Line    *int   `json:"line"`
		} `json:"data"`
	} `json:"errors"`
}

// outputLine is one line of an output or error file.
type outputLine struct {
	CustomID string `json:"custom_id"`
	Response *struct {
		StatusCode int             `json:"status_code"`
		Body       json.RawMessage `json:"body"`
	} `json:"response"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewBatchService creates a new batch service.
func NewBatchService(cfg Config) (*BatchService, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &BatchService{client: c}, nil
}

// EncodeRequests writes one JSON line per request.
func (s *BatchService) EncodeRequests(w io.Writer, reqs []domain.Request) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range reqs {
		line := batchLine{
			CustomID: r.Key,
			Method:   http.MethodPost,
			URL:      domain.ChatCompletionsEndpoint,
			Body:     newChatRequest(r.Model, r.Messages, r.MaxTokens),
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("encode %s: %w", r.Key, err)
		}
	}
	return nil
}

// UploadRequests encodes the requests and uploads them as a batch input file.
func (s *BatchService) UploadRequests(ctx context.Context, name string, reqs []domain.Request) (string, error) {
	var content bytes.Buffer
	if err := s.EncodeRequests(&content, reqs); err != nil {
		return "", err
	}

	var file fileObject
	err := s.doJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		if err := mw.WriteField("purpose", filePurposeBatch); err != nil {
			return nil, err
		}
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(content.Bytes()); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/files", &body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	}, &file)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	if !strings.HasPrefix(file.ID, fileIDPrefix) {
		return "", fmt.Errorf("openai: invalid file ID %q, expected prefix %q: %w",
			file.ID, fileIDPrefix, domain.ErrService)
	}
	return file.ID, nil
}

// CreateJob starts a batch over an uploaded file.
func (s *BatchService) CreateJob(ctx context.Context, spec domain.JobSpec) (*domain.Job, error) {
	payload := batchCreateRequest{
		InputFileID:      spec.InputFileID,
		Endpoint:         spec.Endpoint,
		CompletionWindow: spec.CompletionWindow,
	}
	if spec.Description != "" {
		payload.Metadata = map[string]string{"description": spec.Description}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	return s.batchCall(ctx, http.MethodPost, "/batches", jsonBody)
}

// GetJob fetches the current state of a batch.
func (s *BatchService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return s.batchCall(ctx, http.MethodGet, "/batches/"+id, nil)
}

// CancelJob asks the API to cancel a batch.
func (s *BatchService) CancelJob(ctx context.Context, id string) (*domain.Job, error) {
	return s.batchCall(ctx, http.MethodPost, "/batches/"+id+"/cancel", nil)
}

// DownloadAnswers fetches a result file and decodes every readable line.
func (s *BatchService) DownloadAnswers(ctx context.Context, fileID string) ([]domain.Answer, error) {
	body, err := s.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet,
			s.baseURL+"/files/"+fileID+"/content", http.NoBody)
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	return decodeAnswers(bytes.NewReader(body))
}

func (s *BatchService) batchCall(ctx context.Context, method, path string, payload []byte) (*domain.Job, error) {
	var batch batchObject
	err := s.doJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		var body io.Reader = http.NoBody
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}, &batch)
	if err != nil {
		return nil, err
	}
	if batch.ID == "" {
		return nil, fmt.Errorf("openai: batch response has no id: %w", domain.ErrService)
	}
	return batch.toJob(), nil
}

// toJob converts the API object into a domain job.
func (b batchObject) toJob() *domain.Job {
	job := &domain.Job{
		ID:           b.ID,
		Status:       domain.JobStatus(b.Status),
		InputFileID:  b.InputFileID,
		OutputFileID: b.OutputFileID,
		ErrorFileID:  b.ErrorFileID,
		RequestCounts: domain.RequestCounts{
			Total:     b.RequestCounts.Total,
			Completed: b.RequestCounts.Completed,
			Failed:    b.RequestCounts.Failed,
		},
		CreatedAt: unixTime(b.CreatedAt),
	}

	for _, ts := range []int64{b.CompletedAt, b.FailedAt, b.ExpiredAt, b.CancelledAt} {
		if ts > 0 {
			job.CompletedAt = unixTime(ts)
			break
		}
	}

	if b.Errors != nil {
		msgs := make([]string, 0, len(b.Errors.Data))
		for _, e := range b.Errors.Data {
			msgs = append(msgs, e.Message)
		}
		job.Error = strings.Join(msgs, "; ")
	}
	return job
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// decodeAnswers reads result lines. Undecodable lines are logged and skipped.
func decodeAnswers(r io.Reader) ([]domain.Answer, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var answers []domain.Answer
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var line outputLine
		if err := json.Unmarshal(raw, &line); err != nil {
			logger.Warn("skipping result line %d: %v", lineNo, err)
			continue
		}
		if line.CustomID == "" {
			logger.Warn("skipping result line %d: no custom_id", lineNo)
			continue
		}
		answers = append(answers, line.answer())
	}
	if err := scanner.Err(); err != nil {
		return answers, fmt.Errorf("read results: %w", err)
	}
	return answers, nil
}

// answer extracts the first choice's content or the failure reason.
func (l outputLine) answer() domain.Answer {
	a := domain.Answer{Key: l.CustomID}

	if l.Error != nil {
		a.Err = firstNonEmpty(l.Error.Message, l.Error.Code, "request failed")
		return a
	}
	if l.Response == nil {
		a.Err = "no response"
		return a
	}

	var body struct {
		chatCompletionResponse
		apiErrorBody
	}
	if err := json.Unmarshal(l.Response.Body, &body); err != nil {
		a.Err = "undecodable response body: " + err.Error()
		return a
	}

	if l.Response.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", l.Response.StatusCode)
		if body.Error != nil && body.Error.Message != "" {
			msg += ": " + body.Error.Message
		}
		a.Err = msg
		return a
	}
	if len(body.Choices) == 0 {
		a.Err = "no choices in response"
		return a
	}

	a.Text = body.Choices[0].Message.Content
	return a
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
