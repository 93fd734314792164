package domain

// Document is one paper in a run.
// Extraction failure degrades Content to "" rather than dropping the document.
type Document struct {
	// ID is the document's filename (base name, extension included).
	// It is unique within a run and appears verbatim in reports.
	ID string

	// Path is where the document was read from.
	Path string

	// Content is the full extracted text.
	Content string
}

// Chunk is a contiguous, token-bounded slice of a document.
// Concatenating a document's chunks in Index order reproduces its token sequence.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the zero-based ordinal within the document.
	Index int

	// Content is the decoded text of this chunk.
	Content string

	// Tokens is the number of tokens in this chunk.
	Tokens int
}

// ChunkedDocument pairs a document with its ordered chunks.
type ChunkedDocument struct {
	Document Document
	Chunks   []Chunk
}
