// Package chunker splits document text into token-bounded chunks.
package chunker

import (
	"iter"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// DefaultBudget is the default maximum number of tokens per chunk.
const DefaultBudget = domain.DefaultContextWindow - domain.DefaultMaxResponseTokens

// Processor splits text into consecutive slices of at most budget tokens.
// Chunks never overlap, so their token sequences concatenate back to the input.
type Processor struct {
	tokenizer driven.Tokenizer
	budget    int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithBudget sets the maximum tokens per chunk.
func WithBudget(tokens int) Option {
	return func(p *Processor) {
		if tokens > 0 {
			p.budget = tokens
		}
	}
}

// New creates a new chunker processor with the given options.
func New(tokenizer driven.Tokenizer, opts ...Option) *Processor {
	p := &Processor{
		tokenizer: tokenizer,
		budget:    DefaultBudget,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Budget returns the maximum tokens per chunk.
func (p *Processor) Budget() int {
	return p.budget
}

// Chunks returns the chunk texts of text with their zero-based indexes.
// Encoding happens when the sequence is ranged over, and every range starts
// again from the first chunk. Empty text yields a single empty chunk.
func (p *Processor) Chunks(text string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, tokens := range p.tokenSlices(text) {
			if !yield(i, p.tokenizer.Decode(tokens)) {
				return
			}
		}
	}
}

// Split materialises every chunk of a document.
func (p *Processor) Split(doc domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for i, tokens := range p.tokenSlices(doc.Content) {
		chunks = append(chunks, domain.Chunk{
			DocumentID: doc.ID,
			Index:      i,
			Content:    p.tokenizer.Decode(tokens),
			Tokens:     len(tokens),
		})
	}
	return chunks
}

// tokenSlices yields consecutive windows of the encoded text.
func (p *Processor) tokenSlices(text string) iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		if text == "" {
			yield(0, nil)
			return
		}

		tokens := p.tokenizer.Encode(text)
		if len(tokens) == 0 {
			yield(0, nil)
			return
		}

		index := 0
		for start := 0; start < len(tokens); start += p.budget {
			end := min(start+p.budget, len(tokens))
			if !yield(index, tokens[start:end]) {
				return
			}
			index++
		}
	}
}
