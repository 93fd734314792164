package cli

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/tui/jobwatch"
	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// stdoutIsTerminal decides between the live view and plain status lines.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// watchJob runs wait, showing progress in the live view on a terminal and
// as one line per poll otherwise.
func watchJob(cmd *cobra.Command, title string, wait jobwatch.WaitFunc) (*domain.Job, error) {
	if !stdoutIsTerminal() {
		return wait(cmd.Context(), func(job domain.Job) {
			cmd.Println(jobLine(job))
		})
	}

	// Log lines would tear the live view; hold them until it closes.
	logs := &syncBuffer{}
	logger.SetOutput(logs)
	job, err := jobwatch.Run(cmd.Context(), title, wait, batchPipeline.Cancel)
	logger.SetOutput(os.Stderr)
	_, _ = cmd.ErrOrStderr().Write(logs.Bytes())

	return job, err
}

// jobLine renders a one-line job summary.
func jobLine(job domain.Job) string {
	line := fmt.Sprintf("job %s: %s", job.ID, job.Status)
	if c := job.RequestCounts; c.Total > 0 {
		line += fmt.Sprintf(" (%d/%d done, %d failed)", c.Completed, c.Total, c.Failed)
	}
	return line
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
