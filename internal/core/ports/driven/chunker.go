package driven

import "github.com/xxiswajung/LitSummarizer/internal/core/domain"

// Chunker splits a document into token-bounded chunks.
// Every document yields at least one chunk.
type Chunker interface {
	Split(doc domain.Document) []domain.Chunk
}
