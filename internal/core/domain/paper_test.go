package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaperMetadata(t *testing.T) {
	resp := "Title: Patents and Growth\nAuthors: Jane Doe, John Roe\nYear: 2019"

	meta := ParsePaperMetadata(resp)

	assert.Equal(t, "Patents and Growth", meta.Title)
	assert.Equal(t, "Jane Doe, John Roe", meta.Authors)
	assert.Equal(t, "2019", meta.Year)
	assert.Equal(t, "Jane Doe, John Roe (2019)", meta.Citation())
}

func TestParsePaperMetadata_Fallbacks(t *testing.T) {
	meta := ParsePaperMetadata("I could not determine anything. Year: unknown")

	assert.Equal(t, UnknownPaperMetadata(), meta)
	assert.Equal(t, "Unknown Authors (Unknown Year)", meta.Citation())
}

func TestPaperSummary_Row(t *testing.T) {
	qs := QuestionSet{{Name: "RQ"}, {Name: "Data"}}
	p := PaperSummary{
		Index:    2,
		Metadata: PaperMetadata{Title: "T", Authors: "A", Year: "2001"},
		Answers:  map[string]string{"RQ": "why"},
	}

	assert.Equal(t, []string{"Index", "Paper Name", "Paper Authors", "Publication Year", "RQ", "Data"},
		SummaryColumns(qs))
	assert.Equal(t, []string{"2", "T", "A (2001)", "2001", "why", ""}, p.Row(qs))
}
