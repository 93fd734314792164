package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/tui/jobwatch"
	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

func TestBatchPrepare_WritesRequestFile(t *testing.T) {
	pipeline := newMockBatchPipeline()
	withServices(t, &Services{Batch: pipeline})
	path := filepath.Join(t.TempDir(), "out", "requests.jsonl")

	out, err := execute(t, "", "batch", "prepare", "papers", "-o", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Prepared 8 requests for 2 papers (2 chunks).")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(string(data), "\n"))
	assert.Empty(t, pipeline.submitted, "prepare never submits")
}

func TestBatchPrepare_NoPDFs(t *testing.T) {
	pipeline := newMockBatchPipeline()
	pipeline.prepareErr = domain.ErrNotFound
	withServices(t, &Services{Batch: pipeline})

	_, err := execute(t, "", "batch", "prepare", "empty")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBatchSubmit(t *testing.T) {
	t.Run("with label", func(t *testing.T) {
		pipeline := newMockBatchPipeline()
		withServices(t, &Services{Batch: pipeline})

		out, err := execute(t, "", "batch", "submit", "papers", "--label", "innovation")

		require.NoError(t, err)
		assert.Equal(t, []string{"innovation"}, pipeline.submitted)
		assert.Contains(t, out, "Submitted job batch_42 (innovation)")
		assert.Contains(t, out, "litsum batch wait batch_42")
	})

	t.Run("generated label", func(t *testing.T) {
		pipeline := newMockBatchPipeline()
		withServices(t, &Services{Batch: pipeline})

		_, err := execute(t, "", "batch", "submit", "papers")

		require.NoError(t, err)
		require.Len(t, pipeline.submitted, 1)
		assert.True(t, strings.HasPrefix(pipeline.submitted[0], "run-"))
		assert.Len(t, pipeline.submitted[0], len("run-")+8)
	})

	t.Run("no API key", func(t *testing.T) {
		pipeline := newMockBatchPipeline()
		pipeline.submitErr = domain.ErrLLMUnavailable
		withServices(t, &Services{Batch: pipeline})

		_, err := execute(t, "", "batch", "submit", "papers")

		require.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})
}

func TestBatchStatus(t *testing.T) {
	pipeline := newMockBatchPipeline()
	pipeline.job.ErrorFileID = "file-err"
	withServices(t, &Services{Batch: pipeline})

	out, err := execute(t, "", "batch", "status", "batch_42")

	require.NoError(t, err)
	assert.Contains(t, out, "Job:       batch_42")
	assert.Contains(t, out, "Status:    completed")
	assert.Contains(t, out, "8 total, 8 completed, 0 failed")
	assert.Contains(t, out, "Errors:    file-err")
}

func TestBatchWait_PlainOutput(t *testing.T) {
	pipeline := newMockBatchPipeline()
	pipeline.updates = []domain.Job{
		{ID: "batch_42", Status: domain.JobStatusInProgress, RequestCounts: domain.RequestCounts{Total: 8, Completed: 3}},
		{ID: "batch_42", Status: domain.JobStatusCompleted, RequestCounts: domain.RequestCounts{Total: 8, Completed: 8}},
	}
	withServices(t, &Services{Batch: pipeline})

	out, err := execute(t, "", "batch", "wait", "batch_42")

	require.NoError(t, err)
	assert.Contains(t, out, "job batch_42: in_progress (3/8 done, 0 failed)")
	assert.Contains(t, out, "job batch_42: completed (8/8 done, 0 failed)")
	assert.Contains(t, out, "litsum batch collect batch_42")
}

func TestBatchWait_Failed(t *testing.T) {
	pipeline := newMockBatchPipeline()
	pipeline.waitErr = domain.ErrJobFailed
	withServices(t, &Services{Batch: pipeline})

	_, err := execute(t, "", "batch", "wait", "batch_42")

	assert.ErrorIs(t, err, domain.ErrJobFailed)
}

func TestBatchCollect(t *testing.T) {
	pipeline := newMockBatchPipeline()
	withServices(t, &Services{Batch: pipeline})

	out, err := execute(t, "", "batch", "collect", "batch_42", "-o", "report.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []string{"report.xlsx"}, pipeline.reports)
	assert.Contains(t, out, "Wrote 2 papers to report.xlsx")
	assert.Contains(t, out, "Skipped 1 answers (1 malformed")
}

func TestBatchCollect_DefaultOutput(t *testing.T) {
	pipeline := newMockBatchPipeline()
	withServices(t, &Services{Batch: pipeline})

	_, err := execute(t, "", "batch", "collect", "batch_42")

	require.NoError(t, err)
	assert.Equal(t, []string{defaultReportName}, pipeline.reports)
}

func TestBatchCancel(t *testing.T) {
	pipeline := newMockBatchPipeline()
	withServices(t, &Services{Batch: pipeline})

	out, err := execute(t, "", "batch", "cancel", "batch_42")

	require.NoError(t, err)
	assert.Equal(t, []string{"batch_42"}, pipeline.cancelled)
	assert.Contains(t, out, "Job batch_42 is cancelling.")
}

func TestBatchList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		withServices(t, &Services{Batch: newMockBatchPipeline()})

		out, err := execute(t, "", "batch", "list")

		require.NoError(t, err)
		assert.Contains(t, out, "No jobs recorded.")
	})

	t.Run("rows", func(t *testing.T) {
		pipeline := newMockBatchPipeline()
		pipeline.jobs = []domain.Job{{
			ID:            "batch_1",
			Label:         "innovation",
			Status:        domain.JobStatusInProgress,
			RequestCounts: domain.RequestCounts{Total: 10, Completed: 4},
			CreatedAt:     time.Date(2024, 5, 17, 9, 30, 0, 0, time.Local),
		}}
		withServices(t, &Services{Batch: pipeline})

		out, err := execute(t, "", "batch", "list")

		require.NoError(t, err)
		assert.Contains(t, out, "STATUS")
		assert.Contains(t, out, "batch_1")
		assert.Contains(t, out, "innovation")
		assert.Contains(t, out, "4/10")
		assert.Contains(t, out, "2024-05-17 09:30")
	})
}

func TestBatchRun(t *testing.T) {
	pipeline := newMockBatchPipeline()
	withServices(t, &Services{Batch: pipeline})

	out, err := execute(t, "", "batch", "run", "papers", "--label", "innovation", "-o", "out.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []string{"papers", "out.xlsx", "innovation"}, pipeline.runArgs)
	assert.Contains(t, out, "Wrote 2 papers to out.xlsx")
}

func TestBatchRun_Failed(t *testing.T) {
	pipeline := newMockBatchPipeline()
	pipeline.waitErr = domain.ErrJobFailed
	withServices(t, &Services{Batch: pipeline})

	_, err := execute(t, "", "batch", "run", "papers")

	require.ErrorIs(t, err, domain.ErrJobFailed)
	assert.Empty(t, pipeline.reports)
}

func TestBatchRun_DetachedBeforeSubmit(t *testing.T) {
	pipeline := newMockBatchPipeline()
	pipeline.waitErr = jobwatch.ErrDetached
	withServices(t, &Services{Batch: pipeline})

	out, err := execute(t, "", "batch", "run", "papers")

	require.NoError(t, err)
	assert.Contains(t, out, "Stopped before a job was submitted")
	assert.NotContains(t, out, "keeps running")
	assert.Empty(t, pipeline.reports)
}

func TestBatchRun_DetachedAfterSubmit(t *testing.T) {
	pipeline := newMockBatchPipeline()
	pipeline.updates = []domain.Job{{ID: "batch_42", Status: domain.JobStatusInProgress}}
	pipeline.waitErr = jobwatch.ErrDetached
	withServices(t, &Services{Batch: pipeline})

	out, err := execute(t, "", "batch", "run", "papers")

	require.NoError(t, err)
	assert.Contains(t, out, "Job batch_42 keeps running; resume with: litsum batch wait batch_42")
}

func TestDetachedRunHint(t *testing.T) {
	assert.Equal(t, "Stopped before a job was submitted. Nothing is running.", detachedRunHint(nil))
	assert.Equal(t, "Stopped before a job was submitted. Nothing is running.", detachedRunHint(&domain.Job{}))
	assert.Contains(t, detachedRunHint(&domain.Job{ID: "batch_7"}), "litsum batch wait batch_7")
}

func TestBatch_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	_, err := execute(t, "", "batch", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch pipeline not configured")
}

func TestJobLine(t *testing.T) {
	assert.Equal(t, "job b: validating", jobLine(domain.Job{ID: "b", Status: domain.JobStatusValidating}))
	assert.Equal(t, "job b: in_progress (1/4 done, 2 failed)", jobLine(domain.Job{
		ID:            "b",
		Status:        domain.JobStatusInProgress,
		RequestCounts: domain.RequestCounts{Total: 4, Completed: 1, Failed: 2},
	}))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(time.Time{}))
}
