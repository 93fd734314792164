package services

import (
	"context"
	"fmt"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// ReviewService answers questions across summarised folders, carrying
// prior exchanges forward as context.
type ReviewService struct {
	llm       driven.LLMService
	history   driven.HistoryStore
	archive   driven.AnswerArchive
	prompts   driven.PromptStore
	questions domain.QuestionSet
}

// NewReviewService creates a review service.
// The archive and prompt store are optional.
func NewReviewService(
	llm driven.LLMService,
	history driven.HistoryStore,
	archive driven.AnswerArchive,
	prompts driven.PromptStore,
) *ReviewService {
	return &ReviewService{
		llm:       llm,
		history:   history,
		archive:   archive,
		prompts:   prompts,
		questions: domain.SummaryQuestions,
	}
}

// Review builds the review scaffold for one summarised folder.
func (s *ReviewService) Review(summary *domain.FolderSummary) domain.FolderReview {
	return domain.FolderReview{
		Label: summary.Label,
		Text:  domain.BuildReview(domain.Topic(summary.Label), summary.Papers, s.questions),
	}
}

// Ask answers question against the reviews and prior history.
func (s *ReviewService) Ask(ctx context.Context, question string, reviews []domain.FolderReview) (*driving.Answer, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	history, err := s.history.Load()
	if err != nil {
		logger.Warn("loading history: %v (continuing without it)", err)
		history = domain.History{}
	}

	message := domain.CombineReviews(reviews) + "\n\nQuestion:\n" + question
	text, err := s.llm.Chat(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: loadPrompt(s.prompts, driven.PromptReviewSystem)},
		{Role: domain.RoleUser, Content: history.Context() + "\n\n" + message},
	}, driven.ChatOptions{})
	if err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}

	answer := &driving.Answer{Text: text}
	if s.archive != nil {
		path, err := s.archive.Save(text)
		if err != nil {
			logger.Warn("saving answer: %v", err)
		} else {
			answer.SavedTo = path
		}
	}

	if err := s.history.Append(question, text); err != nil {
		return answer, fmt.Errorf("update history: %w", err)
	}
	return answer, nil
}

// History returns the stored Q&A history.
func (s *ReviewService) History() (domain.History, error) {
	return s.history.Load()
}

// ClearHistory removes all stored exchanges.
func (s *ReviewService) ClearHistory() error {
	return s.history.Clear()
}
