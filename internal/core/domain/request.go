package domain

// Message roles used in chat requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat message.
type Message struct {
	Role    string
	Content string
}

// Request is one independent model call in a batch.
// Key is the wire identifier; the structured fields carry the same triple.
type Request struct {
	Key        string
	DocumentID string
	ChunkIndex int
	Question   string

	Model     string
	Messages  []Message
	MaxTokens int
}

// CorrelationKey returns the structured key of the request.
func (r Request) CorrelationKey() CorrelationKey {
	return CorrelationKey{DocumentID: r.DocumentID, ChunkIndex: r.ChunkIndex, Question: r.Question}
}

// PreparedBatch is a run's full request set before submission.
type PreparedBatch struct {
	Documents []ChunkedDocument
	Questions QuestionSet
	Requests  []Request
}

// DocumentIDs returns document IDs in preparation order.
func (b PreparedBatch) DocumentIDs() []string {
	ids := make([]string, len(b.Documents))
	for i, d := range b.Documents {
		ids[i] = d.Document.ID
	}
	return ids
}

// ChunkCount returns the total number of chunks across documents.
func (b PreparedBatch) ChunkCount() int {
	n := 0
	for _, d := range b.Documents {
		n += len(d.Chunks)
	}
	return n
}
