// Package tiktoken adapts tiktoken-go encodings to the Tokenizer port.
package tiktoken

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

// Encodings are read from the BPE files embedded in the binary, never fetched.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Tokenizer encodes text with a named BPE encoding.
type Tokenizer struct {
	name string
	enc  *tiktoken.Tiktoken
}

// New loads the named encoding, or o200k_base when name is empty.
func New(name string) (*Tokenizer, error) {
	if name == "" {
		name = domain.DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", name, err)
	}
	return &Tokenizer{name: name, enc: enc}, nil
}

// Encode returns the tokens of text. Special-token text is encoded as plain text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode returns the text of tokens.
func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Name returns the encoding name.
func (t *Tokenizer) Name() string {
	return t.name
}
