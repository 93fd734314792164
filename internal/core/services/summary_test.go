package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

var fixedClock = func() time.Time { return time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC) }

func summarySettings(outDir string) domain.AppSettings {
	settings := domain.DefaultAppSettings()
	settings.Interactive.RequestsPerMinute = 0
	settings.Output.Dir = outDir
	return settings
}

// echoLLM answers metadata prompts with a fixed block and echoes the chunk otherwise.
func echoLLM() *mockLLM {
	return &mockLLM{reply: func(messages []domain.Message) (string, error) {
		user := messages[1].Content
		if strings.Contains(user, "first page") {
			return "Title: Patents and Growth\nAuthors: Smith, Jones\nYear: 2019", nil
		}
		_, chunk, _ := strings.Cut(user, "\n\n")
		return "[" + chunk + "]", nil
	}}
}

func TestSummaryService_SummariseFolder(t *testing.T) {
	outDir := t.TempDir()
	folder := writePDFs(t, "b.pdf", "a.PDF", "skip.docx")
	extractor := &mockExtractor{
		texts:     map[string]string{"a.PDF": "one|two", "b.pdf": "  three \n\n four "},
		firstPage: map[string]string{"a.PDF": "first", "b.pdf": "first"},
	}
	llm := echoLLM()
	reports := newMockReportWriter()
	qs := domain.QuestionSet{{Name: "RQ", Prompt: "What?"}}

	svc := NewSummaryService(extractor, pipeChunker{}, llm, nil, reports, summarySettings(outDir),
		WithSummaryQuestions(qs), WithClock(fixedClock))

	summary, err := svc.SummariseFolder(context.Background(), folder, "innovation")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "innovation_summaries_20240517_093000.xlsx"), summary.ReportPath)
	require.Len(t, summary.Papers, 2)

	a := summary.Papers[0]
	assert.Equal(t, 1, a.Index)
	assert.Equal(t, "a.PDF", a.DocumentID)
	assert.Equal(t, "Patents and Growth", a.Metadata.Title)
	assert.Equal(t, "[one] [two]", a.Answers["RQ"])

	b := summary.Papers[1]
	assert.Equal(t, 2, b.Index)
	assert.Equal(t, "[three four]", b.Answers["RQ"], "whitespace collapses before chunking")

	// One metadata call and one call per chunk per question.
	assert.Equal(t, 2+2+1, llm.callCount())

	report := reports.reports[summary.ReportPath]
	assert.Equal(t, []string{"Index", "Paper Name", "Paper Authors", "Publication Year", "RQ"}, report.Columns)
	assert.Equal(t, []string{"1", "Patents and Growth", "Smith, Jones (2019)", "2019", "[one] [two]"}, report.Rows[0])
}

func TestSummaryService_FailedCallsDegrade(t *testing.T) {
	captureLogs(t)
	folder := writePDFs(t, "a.pdf")
	extractor := &mockExtractor{texts: map[string]string{"a.pdf": "x|y"}}
	llm := &mockLLM{reply: func(messages []domain.Message) (string, error) {
		if strings.HasSuffix(messages[1].Content, "y") || strings.Contains(messages[1].Content, "first page") {
			return "", domain.ErrService
		}
		return "fine", nil
	}}
	qs := domain.QuestionSet{{Name: "Methods", Prompt: "How?"}}

	svc := NewSummaryService(extractor, pipeChunker{}, llm, nil, newMockReportWriter(),
		summarySettings(t.TempDir()), WithSummaryQuestions(qs))

	summary, err := svc.SummariseFolder(context.Background(), folder, "l")

	require.NoError(t, err)
	paper := summary.Papers[0]
	assert.Equal(t, domain.UnknownPaperMetadata(), paper.Metadata)
	assert.Equal(t, "Unknown Methods", paper.Answers["Methods"])
}

func TestSummaryService_ExtractionFailureKeepsPaper(t *testing.T) {
	captureLogs(t)
	folder := writePDFs(t, "broken.pdf")
	extractor := &mockExtractor{failing: map[string]bool{"broken.pdf": true}}
	llm := echoLLM()

	svc := NewSummaryService(extractor, pipeChunker{}, llm, nil, newMockReportWriter(),
		summarySettings(t.TempDir()), WithSummaryQuestions(twoQuestions))

	summary, err := svc.SummariseFolder(context.Background(), folder, "l")

	require.NoError(t, err)
	require.Len(t, summary.Papers, 1)
	assert.Equal(t, "[]", summary.Papers[0].Answers["Q1"])
}

func TestSummaryService_UsesStoredPrompts(t *testing.T) {
	folder := writePDFs(t, "a.pdf")
	llm := &mockLLM{}
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptSummarySystem: "be brief",
	}}

	svc := NewSummaryService(&mockExtractor{}, pipeChunker{}, llm, prompts, newMockReportWriter(),
		summarySettings(t.TempDir()), WithSummaryQuestions(twoQuestions))

	_, err := svc.SummariseFolder(context.Background(), folder, "l")

	require.NoError(t, err)
	require.Equal(t, 3, llm.callCount())
	assert.Equal(t, driven.DefaultPrompts[driven.PromptMetadataSystem], llm.calls[0][0].Content)
	assert.Equal(t, "be brief", llm.calls[1][0].Content)
}

func TestSummaryService_ReportFailure(t *testing.T) {
	reports := newMockReportWriter()
	reports.err = errors.New("disk full")

	svc := NewSummaryService(&mockExtractor{}, pipeChunker{}, &mockLLM{}, nil, reports,
		summarySettings(t.TempDir()), WithSummaryQuestions(twoQuestions))

	_, err := svc.SummariseFolder(context.Background(), writePDFs(t, "a.pdf"), "l")

	assert.ErrorContains(t, err, "disk full")
}

func TestSummaryService_NoLLM(t *testing.T) {
	svc := NewSummaryService(&mockExtractor{}, pipeChunker{}, nil, nil, newMockReportWriter(),
		summarySettings(t.TempDir()))

	_, err := svc.SummariseFolder(context.Background(), writePDFs(t, "a.pdf"), "l")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestSummaryService_EmptyFolder(t *testing.T) {
	svc := NewSummaryService(&mockExtractor{}, pipeChunker{}, &mockLLM{}, nil, newMockReportWriter(),
		summarySettings(t.TempDir()))

	_, err := svc.SummariseFolder(context.Background(), t.TempDir(), "l")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummaryService_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewSummaryService(&mockExtractor{}, pipeChunker{}, &mockLLM{}, nil, newMockReportWriter(),
		summarySettings(t.TempDir()))

	_, err := svc.SummariseFolder(ctx, writePDFs(t, "a.pdf"), "l")

	assert.ErrorIs(t, err, context.Canceled)
}
