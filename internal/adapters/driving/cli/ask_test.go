package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

func TestAsk_FolderFlags(t *testing.T) {
	summary := &mockSummaryService{dir: t.TempDir()}
	review := &mockReviewService{}
	withServices(t, &Services{Summary: summary, Review: review})

	out, err := execute(t, "What differs?\n\nAnd why?\nexit\n",
		"ask", "--folder", "growth=./g", "--folder", "trade=./t")

	require.NoError(t, err)
	assert.Equal(t, []string{"./g", "./t"}, summary.folders)
	assert.Equal(t, []string{"What differs?", "And why?"}, review.asked)
	require.Len(t, review.reviews, 2)
	assert.Equal(t, []domain.FolderReview{
		{Label: "growth", Text: "review of growth"},
		{Label: "trade", Text: "review of trade"},
	}, review.reviews[0])
	assert.Contains(t, out, "answer to What differs?")
	assert.Contains(t, out, "Answer saved to chatgpt_response_1.txt")
	assert.Contains(t, out, "Exiting the program.")
}

func TestAsk_StopsAtEndOfInput(t *testing.T) {
	review := &mockReviewService{}
	withServices(t, &Services{Summary: &mockSummaryService{dir: t.TempDir()}, Review: review})

	_, err := execute(t, "last question", "ask", "--folder", "a=./a")

	require.NoError(t, err)
	assert.Equal(t, []string{"last question"}, review.asked)
}

func TestAsk_PromptsForFolders(t *testing.T) {
	summary := &mockSummaryService{dir: t.TempDir()}
	withServices(t, &Services{Summary: summary, Review: &mockReviewService{}})

	out, err := execute(t, "2\n./first\nalpha\n./second\n\nquit\n", "ask")

	require.NoError(t, err)
	assert.Equal(t, []string{"./first", "./second"}, summary.folders)
	assert.Equal(t, []string{"alpha", "second"}, summary.labels)
	assert.Contains(t, out, "How many folders do you want to analyze?")
	assert.Contains(t, out, "Enter the label for folder 2:")
}

func TestAsk_InvalidFolderCount(t *testing.T) {
	withServices(t, &Services{Summary: &mockSummaryService{dir: t.TempDir()}, Review: &mockReviewService{}})

	_, err := execute(t, "many\n", "ask")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_ErrorKeepsSession(t *testing.T) {
	review := &mockReviewService{askErr: domain.ErrRateLimited}
	withServices(t, &Services{Summary: &mockSummaryService{dir: t.TempDir()}, Review: review})

	out, err := execute(t, "first\nend\n", "ask", "--folder", "a=./a")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: rate limited")
	assert.Contains(t, out, "Exiting the program.")
}

func TestAsk_NoLLM(t *testing.T) {
	review := &mockReviewService{askErr: domain.ErrLLMUnavailable}
	withServices(t, &Services{Summary: &mockSummaryService{dir: t.TempDir()}, Review: review})

	_, err := execute(t, "first\n", "ask", "--folder", "a=./a")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAsk_NoHistoryFlagReachesBootstrap(t *testing.T) {
	var got BootstrapOptions
	SetBootstrap(func(opts BootstrapOptions) (*Services, error) {
		got = opts
		return &Services{Summary: &mockSummaryService{dir: t.TempDir()}, Review: &mockReviewService{}}, nil
	})
	t.Cleanup(func() {
		SetBootstrap(nil)
		SetServices(nil)
	})

	_, err := execute(t, "exit\n", "ask", "--no-history", "--folder", "a=./a")

	require.NoError(t, err)
	assert.True(t, got.NoHistory)
}

func TestParseFolders(t *testing.T) {
	folders, err := parseFolders([]string{"growth=./g", " trade = /data/t=1 "})
	require.NoError(t, err)
	assert.Equal(t, []labelledFolder{
		{Label: "growth", Path: "./g"},
		{Label: "trade", Path: "/data/t=1"},
	}, folders)

	for _, bad := range [][]string{{"nolabel"}, {"=path"}, {"label="}, {"a=1", "a=2"}} {
		_, err := parseFolders(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%v", bad)
	}
}

func TestIsExitWord(t *testing.T) {
	for _, w := range []string{"exit", "QUIT", "End"} {
		assert.True(t, isExitWord(w), w)
	}
	for _, w := range []string{"exiting", "", "stop"} {
		assert.False(t, isExitWord(w), w)
	}
}
