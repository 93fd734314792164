package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildReview(t *testing.T) {
	qs := QuestionSet{{Name: "RQ"}, {Name: "Data"}}
	papers := []PaperSummary{
		{Metadata: PaperMetadata{Title: "First"}, Answers: map[string]string{"RQ": "r1", "Data": "d1"}},
		{Metadata: PaperMetadata{Title: "Second"}, Answers: map[string]string{"RQ": "r2"}},
	}

	review := BuildReview(Topic("econ"), papers, qs)

	assert.True(t, strings.HasPrefix(review,
		"Objective: Create a comprehensive literature review focusing on econ research,"))
	assert.Contains(t, review, "\nPaper: First\nRQ: r1\nData: d1\n")
	assert.Contains(t, review, "\nPaper: Second\nRQ: r2\nData: \n")
	assert.Less(t, strings.Index(review, "Paper: Second"), strings.Index(review, "Integration:"))
	assert.True(t, strings.HasSuffix(review, "Summarize key findings and their implications.\n"))
}

func TestCombineReviews(t *testing.T) {
	combined := CombineReviews([]FolderReview{{Label: "a", Text: "x"}, {Label: "b", Text: "y"}})

	assert.Equal(t, "\nComprehensive Review for a:\nx\n\n\nComprehensive Review for b:\ny\n", combined)
}
