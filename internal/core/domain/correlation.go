package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Correlation keys have the form <document>_chunk_<n>_<question>, where n is
// the 1-based chunk index. Document and question names are escaped so that
// neither contains '_', which makes both separators unambiguous. Names free of
// '_' and '%' encode to themselves.
const chunkSeparator = "_chunk_"

var (
	keyEscaper   = strings.NewReplacer("%", "%25", "_", "%5F")
	keyUnescaper = strings.NewReplacer("%5F", "_", "%5f", "_", "%25", "%")
)

// CorrelationKey identifies one (document, chunk, question) request.
type CorrelationKey struct {
	DocumentID string

	// ChunkIndex is zero-based; the encoded form is 1-based.
	ChunkIndex int

	Question string
}

// String encodes the key.
func (k CorrelationKey) String() string {
	return keyEscaper.Replace(k.DocumentID) + chunkSeparator +
		strconv.Itoa(k.ChunkIndex+1) + "_" + keyEscaper.Replace(k.Question)
}

// ParseCorrelationKey decodes a key produced by CorrelationKey.String.
func ParseCorrelationKey(s string) (CorrelationKey, error) {
	doc, rest, ok := strings.Cut(s, chunkSeparator)
	if !ok || doc == "" {
		return CorrelationKey{}, fmt.Errorf("%w: %q has no chunk marker", ErrMalformedKey, s)
	}

	sep := strings.LastIndex(rest, "_")
	if sep <= 0 || sep == len(rest)-1 {
		return CorrelationKey{}, fmt.Errorf("%w: %q has no question", ErrMalformedKey, s)
	}

	n, err := strconv.Atoi(rest[:sep])
	if err != nil || n < 1 {
		return CorrelationKey{}, fmt.Errorf("%w: %q has invalid chunk index", ErrMalformedKey, s)
	}

	return CorrelationKey{
		DocumentID: keyUnescaper.Replace(doc),
		ChunkIndex: n - 1,
		Question:   keyUnescaper.Replace(rest[sep+1:]),
	}, nil
}
