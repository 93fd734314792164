package services

import (
	"fmt"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// RequestBuilder expands chunked documents into one request per
// (document, chunk, question). It performs no I/O.
type RequestBuilder struct {
	model     string
	system    string
	maxTokens int
	questions domain.QuestionSet
}

// NewRequestBuilder creates a request builder.
func NewRequestBuilder(model, system string, maxTokens int, questions domain.QuestionSet) *RequestBuilder {
	return &RequestBuilder{
		model:     model,
		system:    system,
		maxTokens: maxTokens,
		questions: questions,
	}
}

// NewBatchRequestBuilder creates the builder for batch mode: the configured
// model and response budget, the stored batch system prompt and BatchQuestions.
func NewBatchRequestBuilder(settings domain.AppSettings, prompts driven.PromptStore) *RequestBuilder {
	return NewRequestBuilder(
		settings.LLM.Model,
		loadPrompt(prompts, driven.PromptBatchSystem),
		settings.Budget.MaxResponseTokens,
		domain.BatchQuestions,
	)
}

// Questions returns the question set requests are built for.
func (b *RequestBuilder) Questions() domain.QuestionSet {
	return b.questions
}

// Build returns requests ordered by document, then chunk, then question.
// The count is the sum of chunk counts times the number of questions, and
// every correlation key is distinct.
func (b *RequestBuilder) Build(docs []domain.ChunkedDocument) ([]domain.Request, error) {
	if err := b.questions.Validate(); err != nil {
		return nil, err
	}

	total := 0
	for _, d := range docs {
		total += len(d.Chunks)
	}

	requests := make([]domain.Request, 0, total*len(b.questions))
	seen := make(map[string]struct{}, total*len(b.questions))

	for _, d := range docs {
		for _, chunk := range d.Chunks {
			for _, q := range b.questions {
				key := domain.CorrelationKey{
					DocumentID: d.Document.ID,
					ChunkIndex: chunk.Index,
					Question:   q.Name,
				}
				encoded := key.String()
				if _, dup := seen[encoded]; dup {
					return nil, fmt.Errorf("%w: duplicate correlation key %q", domain.ErrInvalidInput, encoded)
				}
				seen[encoded] = struct{}{}

				requests = append(requests, domain.Request{
					Key:        encoded,
					DocumentID: key.DocumentID,
					ChunkIndex: key.ChunkIndex,
					Question:   key.Question,
					Model:      b.model,
					Messages: []domain.Message{
						{Role: domain.RoleSystem, Content: b.system},
						{Role: domain.RoleUser, Content: q.Prompt + "\n\n" + chunk.Content},
					},
					MaxTokens: b.maxTokens,
				})
			}
		}
	}

	return requests, nil
}
