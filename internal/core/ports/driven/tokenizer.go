package driven

// Tokenizer converts between text and model tokens.
// Decode(Encode(s)) must equal s.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string

	// Name returns the encoding name.
	Name() string
}
