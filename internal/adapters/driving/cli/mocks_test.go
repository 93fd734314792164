package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
)

// execute runs the root command with args and stdin, returning combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	prepareOutput = domain.BatchInputFilename
	collectOutput = defaultReportName
	runOutput = defaultReportName
	batchLabel = ""
	summariseLabel = ""
	summariseOutput = ""
	askFolders = nil
	askNoHistory = false
	configDir = ""
	verbose = false
	versionShort = false

	previousTTY := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(os.Stdin)
		stdoutIsTerminal = previousTTY
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// withServices installs services for one test.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(nil) })
}

type mockSettingsService struct {
	settings    domain.AppSettings
	set         map[string]string
	setErr      error
	validateErr error
	validated   int
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{
		"llm.model", "llm.base_url", "llm.api_key",
		"budget.context_window", "budget.max_response_tokens", "budget.encoding",
		"batch.poll_interval_seconds", "batch.max_wait_seconds", "batch.completion_window",
		"batch.cancel_on_timeout", "interactive.requests_per_minute",
		"output.dir", "output.history_file",
	}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	m.validated++
	return m.validateErr
}

type mockBatchPipeline struct {
	prepared   *domain.PreparedBatch
	prepareErr error
	submitted  []string
	submitErr  error
	job        domain.Job
	updates    []domain.Job
	waitErr    error
	result     *driving.CollectResult
	collectErr error
	reports    []string
	jobs       []domain.Job
	cancelled  []string
	runArgs    []string
}

func newMockBatchPipeline() *mockBatchPipeline {
	job := domain.Job{
		ID:            "batch_42",
		Label:         "papers",
		Status:        domain.JobStatusCompleted,
		RequestCounts: domain.RequestCounts{Total: 8, Completed: 8},
		Documents:     []string{"a.pdf", "b.pdf"},
	}
	return &mockBatchPipeline{
		prepared: &domain.PreparedBatch{
			Documents: []domain.ChunkedDocument{
				{Document: domain.Document{ID: "a.pdf"}, Chunks: []domain.Chunk{{DocumentID: "a.pdf"}}},
				{Document: domain.Document{ID: "b.pdf"}, Chunks: []domain.Chunk{{DocumentID: "b.pdf"}}},
			},
			Requests: make([]domain.Request, 8),
		},
		job: job,
		result: &driving.CollectResult{
			Job:     job,
			Records: []domain.SummaryRecord{{DocumentID: "a.pdf"}, {DocumentID: "b.pdf"}},
			Stats:   domain.DemuxStats{Used: 7, Malformed: 1},
		},
	}
}

func (m *mockBatchPipeline) Prepare(_ context.Context, _ string) (*domain.PreparedBatch, error) {
	return m.prepared, m.prepareErr
}

func (m *mockBatchPipeline) WriteRequests(w io.Writer, batch *domain.PreparedBatch) error {
	for range batch.Requests {
		if _, err := io.WriteString(w, "{}\n"); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockBatchPipeline) Submit(_ context.Context, _ *domain.PreparedBatch, label string) (*domain.Job, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.submitted = append(m.submitted, label)
	job := m.job
	job.Label = label
	return &job, nil
}

func (m *mockBatchPipeline) Wait(_ context.Context, _ string, onUpdate driving.JobUpdateFunc) (*domain.Job, error) {
	for _, u := range m.updates {
		if onUpdate != nil {
			onUpdate(u)
		}
	}
	if m.waitErr != nil {
		return nil, m.waitErr
	}
	job := m.job
	return &job, nil
}

func (m *mockBatchPipeline) Collect(_ context.Context, _ string) (*driving.CollectResult, error) {
	return m.result, m.collectErr
}

func (m *mockBatchPipeline) WriteReport(_ context.Context, path string, _ *driving.CollectResult) error {
	m.reports = append(m.reports, path)
	return nil
}

func (m *mockBatchPipeline) Cancel(_ context.Context, jobID string) (*domain.Job, error) {
	m.cancelled = append(m.cancelled, jobID)
	job := m.job
	job.Status = domain.JobStatusCancelling
	return &job, nil
}

func (m *mockBatchPipeline) Status(_ context.Context, _ string) (*domain.Job, error) {
	job := m.job
	return &job, nil
}

func (m *mockBatchPipeline) List(_ context.Context) ([]domain.Job, error) {
	return m.jobs, nil
}

func (m *mockBatchPipeline) Run(
	ctx context.Context, folder, outPath, label string, onUpdate driving.JobUpdateFunc,
) (*driving.CollectResult, error) {
	m.runArgs = []string{folder, outPath, label}
	if _, err := m.Wait(ctx, m.job.ID, onUpdate); err != nil {
		return nil, err
	}
	m.reports = append(m.reports, outPath)
	return m.result, nil
}

type mockSummaryService struct {
	dir     string
	folders []string
	labels  []string
	err     error
}

func (m *mockSummaryService) SummariseFolder(_ context.Context, folder, label string) (*domain.FolderSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.folders = append(m.folders, folder)
	m.labels = append(m.labels, label)

	path := filepath.Join(m.dir, label+"_summaries_20240517_093000.xlsx")
	if err := os.WriteFile(path, []byte("xlsx"), 0600); err != nil {
		return nil, err
	}
	return &domain.FolderSummary{
		Label:  label,
		Folder: folder,
		Papers: []domain.PaperSummary{{
			Index:      1,
			DocumentID: "a.pdf",
			Metadata:   domain.PaperMetadata{Title: "Paper A", Authors: "Doe", Year: "2020"},
		}},
		ReportPath: path,
	}, nil
}

type mockReviewService struct {
	asked   []string
	reviews [][]domain.FolderReview
	askErr  error
	history domain.History
	cleared bool
}

func (m *mockReviewService) Review(summary *domain.FolderSummary) domain.FolderReview {
	return domain.FolderReview{Label: summary.Label, Text: "review of " + summary.Label}
}

func (m *mockReviewService) Ask(_ context.Context, question string, reviews []domain.FolderReview) (*driving.Answer, error) {
	if m.askErr != nil {
		return nil, m.askErr
	}
	m.asked = append(m.asked, question)
	m.reviews = append(m.reviews, reviews)
	return &driving.Answer{Text: "answer to " + question, SavedTo: "chatgpt_response_1.txt"}, nil
}

func (m *mockReviewService) History() (domain.History, error) {
	return m.history, nil
}

func (m *mockReviewService) ClearHistory() error {
	m.cleared = true
	m.history = domain.History{}
	return nil
}

var (
	_ driving.SettingsService = (*mockSettingsService)(nil)
	_ driving.BatchPipeline   = (*mockBatchPipeline)(nil)
	_ driving.SummaryService  = (*mockSummaryService)(nil)
	_ driving.ReviewService   = (*mockReviewService)(nil)
)
