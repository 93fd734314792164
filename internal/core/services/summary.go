package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// reportTimestamp is the layout used in generated report names.
const reportTimestamp = "20060102_150405"

// SummaryService summarises papers with direct, rate-limited chat calls.
type SummaryService struct {
	extractor driven.TextExtractor
	chunker   driven.Chunker
	llm       driven.LLMService
	prompts   driven.PromptStore
	reports   driven.ReportWriter
	limiter   *rate.Limiter
	questions domain.QuestionSet
	outputDir string
	now       func() time.Time
}

// SummaryOption configures a SummaryService.
type SummaryOption func(*SummaryService)

// WithSummaryQuestions overrides the questions asked of each paper.
func WithSummaryQuestions(qs domain.QuestionSet) SummaryOption {
	return func(s *SummaryService) {
		if len(qs) > 0 {
			s.questions = qs
		}
	}
}

// WithClock overrides the time source used for report names.
func WithClock(now func() time.Time) SummaryOption {
	return func(s *SummaryService) {
		s.now = now
	}
}

// NewSummaryService creates a summary service.
// The prompt store is optional.
func NewSummaryService(
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	llm driven.LLMService,
	prompts driven.PromptStore,
	reports driven.ReportWriter,
	settings domain.AppSettings,
	opts ...SummaryOption,
) *SummaryService {
	limit := rate.Inf
	if rpm := settings.Interactive.RequestsPerMinute; rpm > 0 {
		limit = rate.Limit(float64(rpm) / 60.0)
	}

	s := &SummaryService{
		extractor: extractor,
		chunker:   chunker,
		llm:       llm,
		prompts:   prompts,
		reports:   reports,
		limiter:   rate.NewLimiter(limit, 1),
		questions: domain.SummaryQuestions,
		outputDir: settings.Output.Dir,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SummariseFolder summarises every PDF in folder and writes the report.
func (s *SummaryService) SummariseFolder(ctx context.Context, folder, label string) (*domain.FolderSummary, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	logger.Section("Summarise " + label)

	paths, err := listPDFs(folder)
	if err != nil {
		return nil, err
	}

	summary := &domain.FolderSummary{Label: label, Folder: folder}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info("processing file %d/%d: %s", i+1, len(paths), filepath.Base(path))

		paper := s.summarisePaper(ctx, path)
		paper.Index = i + 1
		summary.Papers = append(summary.Papers, paper)
	}

	name := fmt.Sprintf("%s_summaries_%s.xlsx", label, s.now().Format(reportTimestamp))
	summary.ReportPath = filepath.Join(s.outputDir, name)

	rows := make([][]string, 0, len(summary.Papers))
	for _, p := range summary.Papers {
		row := p.Row(s.questions)
		for j := range row {
			row[j] = domain.CleanCell(row[j])
		}
		rows = append(rows, row)
	}
	report := domain.Report{Sheet: "Summaries", Columns: domain.SummaryColumns(s.questions), Rows: rows}
	if err := s.reports.WriteReport(ctx, summary.ReportPath, report); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	logger.Info("all papers processed, summary saved to %s", summary.ReportPath)

	return summary, nil
}

// summarisePaper reads metadata and answers for one paper. It never fails;
// every error degrades to a fallback value.
func (s *SummaryService) summarisePaper(ctx context.Context, path string) domain.PaperSummary {
	doc := domain.Document{ID: filepath.Base(path), Path: path}

	first, err := s.extractor.ExtractFirstPage(ctx, path)
	if err != nil {
		logger.Warn("extracting first page of %s: %v", doc.ID, err)
	}
	meta := s.metadata(ctx, first)

	full, err := s.extractor.ExtractText(ctx, path)
	if err != nil {
		logger.Warn("extracting %s: %v (continuing with empty text)", doc.ID, err)
	}
	doc.Content = domain.CollapseWhitespace(full)

	chunks := s.chunker.Split(doc)
	system := loadPrompt(s.prompts, driven.PromptSummarySystem)

	answers := make(map[string]string, len(s.questions))
	for _, q := range s.questions {
		answers[q.Name] = domain.CleanCell(s.answer(ctx, system, q, chunks))
	}

	return domain.PaperSummary{DocumentID: doc.ID, Metadata: meta, Answers: answers}
}

// answer asks one question of every chunk and joins the answers in order.
// Any failed call makes the whole answer "Unknown <question>".
func (s *SummaryService) answer(ctx context.Context, system string, q domain.Question, chunks []domain.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		text, err := s.chat(ctx, system, q.Prompt+"\n\n"+c.Content)
		if err != nil {
			logger.Warn("%s (chunk %d) %q: %v", c.DocumentID, c.Index+1, q.Name, err)
			return "Unknown " + q.Name
		}
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// metadata asks for title, authors and year from first-page text.
func (s *SummaryService) metadata(ctx context.Context, firstPage string) domain.PaperMetadata {
	template := loadPrompt(s.prompts, driven.PromptMetadata)
	system := loadPrompt(s.prompts, driven.PromptMetadataSystem)

	resp, err := s.chat(ctx, system, fmt.Sprintf(template, firstPage))
	if err != nil {
		logger.Warn("asking for metadata: %v", err)
		return domain.UnknownPaperMetadata()
	}
	return domain.ParsePaperMetadata(resp)
}

// chat waits for the rate limiter and sends one system/user exchange.
func (s *SummaryService) chat(ctx context.Context, system, user string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.llm.Chat(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: user},
	}, driven.ChatOptions{})
}
