package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// --- Shared mock implementations for service tests ---

// mockExtractor serves text by base filename. Files listed in failing return ErrExtraction.
type mockExtractor struct {
	texts     map[string]string
	firstPage map[string]string
	failing   map[string]bool
}

func (m *mockExtractor) ExtractText(_ context.Context, path string) (string, error) {
	name := filepath.Base(path)
	if m.failing[name] {
		return "", fmt.Errorf("%s: %w", name, domain.ErrExtraction)
	}
	return m.texts[name], nil
}

func (m *mockExtractor) ExtractFirstPage(_ context.Context, path string) (string, error) {
	name := filepath.Base(path)
	if m.failing[name] {
		return "", fmt.Errorf("%s: %w", name, domain.ErrExtraction)
	}
	return m.firstPage[name], nil
}

// pipeChunker splits content on "|" so tests control chunk counts exactly.
type pipeChunker struct{}

func (pipeChunker) Split(doc domain.Document) []domain.Chunk {
	parts := strings.Split(doc.Content, "|")
	chunks := make([]domain.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = domain.Chunk{DocumentID: doc.ID, Index: i, Content: p, Tokens: len(p)}
	}
	return chunks
}

// mockBatchService scripts job statuses and serves answers by file ID.
type mockBatchService struct {
	mu sync.Mutex

	uploaded  []domain.Request
	specs     []domain.JobSpec
	statuses  []domain.JobStatus
	polls     int
	cancelled []string
	job       domain.Job
	files     map[string][]domain.Answer

	uploadErr error
	getErr    error
}

func newMockBatchService(statuses ...domain.JobStatus) *mockBatchService {
	return &mockBatchService{
		statuses: statuses,
		job:      domain.Job{ID: "batch_test", Status: domain.JobStatusValidating},
		files:    make(map[string][]domain.Answer),
	}
}

func (m *mockBatchService) EncodeRequests(w io.Writer, reqs []domain.Request) error {
	for _, r := range reqs {
		if _, err := fmt.Fprintln(w, r.Key); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockBatchService) UploadRequests(_ context.Context, _ string, reqs []domain.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploaded = append(m.uploaded, reqs...)
	return "file-input", nil
}

func (m *mockBatchService) CreateJob(_ context.Context, spec domain.JobSpec) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.specs = append(m.specs, spec)
	job := m.job
	job.InputFileID = spec.InputFileID
	return &job, nil
}

func (m *mockBatchService) GetJob(_ context.Context, id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if id != m.job.ID {
		return nil, fmt.Errorf("no job %s: %w", id, domain.ErrService)
	}
	if m.polls < len(m.statuses) {
		m.job.Status = m.statuses[m.polls]
	}
	m.polls++
	if m.job.Status == domain.JobStatusCompleted && m.job.OutputFileID == "" {
		m.job.OutputFileID = "file-output"
	}
	job := m.job
	return &job, nil
}

func (m *mockBatchService) CancelJob(_ context.Context, id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, id)
	m.job.Status = domain.JobStatusCancelling
	job := m.job
	return &job, nil
}

func (m *mockBatchService) DownloadAnswers(_ context.Context, fileID string) ([]domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	answers, ok := m.files[fileID]
	if !ok {
		return nil, fmt.Errorf("no file %s: %w", fileID, domain.ErrService)
	}
	return answers, nil
}

// mockReportWriter records written reports.
type mockReportWriter struct {
	mu      sync.Mutex
	reports map[string]domain.Report
	err     error
}

func newMockReportWriter() *mockReportWriter {
	return &mockReportWriter{reports: make(map[string]domain.Report)}
}

func (m *mockReportWriter) WriteReport(_ context.Context, path string, report domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reports[path] = report
	return nil
}

// mockLLM answers with a function of the messages.
type mockLLM struct {
	mu    sync.Mutex
	calls [][]domain.Message
	reply func(messages []domain.Message) (string, error)
}

func (m *mockLLM) Chat(_ context.Context, messages []domain.Message, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()
	if m.reply == nil {
		return "ok", nil
	}
	return m.reply(messages)
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockPromptStore serves fixed prompts.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (m *mockPromptStore) Reload() {}

// mockArchive records saved answers.
type mockArchive struct {
	saved []string
	err   error
}

func (m *mockArchive) Save(answer string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.saved = append(m.saved, answer)
	return fmt.Sprintf("chatgpt_response_%d.txt", len(m.saved)), nil
}

// writePDFs creates empty files in a temp folder; mocks supply their text.
func writePDFs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0600))
	}
	return dir
}

var (
	_ driven.TextExtractor = (*mockExtractor)(nil)
	_ driven.Chunker       = pipeChunker{}
	_ driven.BatchService  = (*mockBatchService)(nil)
	_ driven.ReportWriter  = (*mockReportWriter)(nil)
	_ driven.LLMService    = (*mockLLM)(nil)
	_ driven.PromptStore   = (*mockPromptStore)(nil)
	_ driven.AnswerArchive = (*mockArchive)(nil)
)
