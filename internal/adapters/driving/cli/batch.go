package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xxiswajung/LitSummarizer/internal/adapters/driving/tui/jobwatch"
	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
)

// defaultReportName is the batch report written when -o is not given.
const defaultReportName = "summarized_papers.xlsx"

var (
	prepareOutput string
	collectOutput string
	runOutput     string
	batchLabel    string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Summarise papers with the asynchronous batch API",
	Long: `Batch mode sends one request per (paper, chunk, question) in a single job.

A typical run is prepare or submit, then wait, then collect. 'batch run'
performs every step for one folder.`,
}

var batchPrepareCmd = &cobra.Command{
	Use:   "prepare <folder>",
	Short: "Write the batch request file without submitting it",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchPrepare,
}

var batchSubmitCmd = &cobra.Command{
	Use:   "submit <folder>",
	Short: "Prepare and submit a batch job",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchSubmit,
}

var batchStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the current state of a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchStatus,
}

var batchWaitCmd = &cobra.Command{
	Use:   "wait <job-id>",
	Short: "Poll a job until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchWait,
}

var batchCollectCmd = &cobra.Command{
	Use:   "collect <job-id>",
	Short: "Download a finished job's answers and write the report",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchCollect,
}

var batchCancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchCancel,
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded jobs",
	Args:  cobra.NoArgs,
	RunE:  runBatchList,
}

var batchRunCmd = &cobra.Command{
	Use:   "run <folder>",
	Short: "Prepare, submit, wait, collect and write the report",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchRun,
}

func init() {
	batchPrepareCmd.Flags().StringVarP(&prepareOutput, "output", "o", domain.BatchInputFilename, "request file to write")
	batchSubmitCmd.Flags().StringVar(&batchLabel, "label", "", "name for the run (default: generated)")
	batchCollectCmd.Flags().StringVarP(&collectOutput, "output", "o", defaultReportName, "report file to write")
	batchRunCmd.Flags().StringVarP(&runOutput, "output", "o", defaultReportName, "report file to write")
	batchRunCmd.Flags().StringVar(&batchLabel, "label", "", "name for the run (default: generated)")

	batchCmd.AddCommand(batchPrepareCmd)
	batchCmd.AddCommand(batchSubmitCmd)
	batchCmd.AddCommand(batchStatusCmd)
	batchCmd.AddCommand(batchWaitCmd)
	batchCmd.AddCommand(batchCollectCmd)
	batchCmd.AddCommand(batchCancelCmd)
	batchCmd.AddCommand(batchListCmd)
	batchCmd.AddCommand(batchRunCmd)
	rootCmd.AddCommand(batchCmd)
}

func requirePipeline() error {
	if batchPipeline == nil {
		return errors.New("batch pipeline not configured")
	}
	return nil
}

// runLabel returns the label, or a generated one when empty.
func runLabel(label string) string {
	if label != "" {
		return label
	}
	return "run-" + uuid.NewString()[:8]
}

func runBatchPrepare(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	prepared, err := batchPipeline.Prepare(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}

	if dir := filepath.Dir(prepareOutput); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(prepareOutput)
	if err != nil {
		return fmt.Errorf("failed to create request file: %w", err)
	}
	defer f.Close()

	if err := batchPipeline.WriteRequests(f, prepared); err != nil {
		return llmHint(fmt.Errorf("failed to write requests: %w", err))
	}

	cmd.Printf("Prepared %d requests for %d papers (%d chunks).\n",
		len(prepared.Requests), len(prepared.Documents), prepared.ChunkCount())
	cmd.Printf("Request file: %s\n", prepareOutput)
	return nil
}

func runBatchSubmit(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	prepared, err := batchPipeline.Prepare(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}

	job, err := batchPipeline.Submit(cmd.Context(), prepared, runLabel(batchLabel))
	if err != nil {
		return llmHint(fmt.Errorf("submit failed: %w", err))
	}

	cmd.Printf("Submitted job %s (%s) with %d requests for %d papers.\n",
		job.ID, job.Label, len(prepared.Requests), len(prepared.Documents))
	cmd.Printf("Wait for it with: litsum batch wait %s\n", job.ID)
	return nil
}

func runBatchStatus(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	job, err := batchPipeline.Status(cmd.Context(), args[0])
	if err != nil {
		return llmHint(fmt.Errorf("status failed: %w", err))
	}

	printJob(cmd, job)
	return nil
}

func runBatchWait(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	jobID := args[0]
	job, err := watchJob(cmd, "Batch job "+jobID,
		func(ctx context.Context, onUpdate driving.JobUpdateFunc) (*domain.Job, error) {
			return batchPipeline.Wait(ctx, jobID, onUpdate)
		})
	if errors.Is(err, jobwatch.ErrDetached) {
		cmd.Printf("Stopped watching. Job %s keeps running; resume with: litsum batch wait %s\n", jobID, jobID)
		return nil
	}
	if err != nil {
		return llmHint(fmt.Errorf("wait failed: %w", err))
	}

	cmd.Printf("Job %s completed. Collect it with: litsum batch collect %s\n", job.ID, job.ID)
	return nil
}

func runBatchCollect(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	result, err := batchPipeline.Collect(cmd.Context(), args[0])
	if err != nil {
		return llmHint(fmt.Errorf("collect failed: %w", err))
	}

	if err := batchPipeline.WriteReport(cmd.Context(), collectOutput, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	printCollectResult(cmd, result, collectOutput)
	return nil
}

func runBatchCancel(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	job, err := batchPipeline.Cancel(cmd.Context(), args[0])
	if err != nil {
		return llmHint(fmt.Errorf("cancel failed: %w", err))
	}

	cmd.Printf("Job %s is %s.\n", job.ID, job.Status)
	return nil
}

func runBatchList(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	jobs, err := batchPipeline.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("No jobs recorded.")
		return nil
	}

	cmd.Printf("%-32s  %-12s  %-20s  %-9s  %s\n", "ID", "STATUS", "LABEL", "REQUESTS", "CREATED")
	for i := range jobs {
		job := &jobs[i]
		cmd.Printf("%-32s  %-12s  %-20s  %-9s  %s\n",
			job.ID, job.Status, job.Label,
			fmt.Sprintf("%d/%d", job.RequestCounts.Completed, job.RequestCounts.Total),
			formatTime(job.CreatedAt))
	}
	return nil
}

func runBatchRun(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	folder := args[0]
	label := runLabel(batchLabel)

	var (
		result *driving.CollectResult
		seen   atomic.Pointer[domain.Job]
	)
	watched, err := watchJob(cmd, "Batch run "+label,
		func(ctx context.Context, onUpdate driving.JobUpdateFunc) (*domain.Job, error) {
			res, err := batchPipeline.Run(ctx, folder, runOutput, label, func(job domain.Job) {
				seen.Store(&job)
				if onUpdate != nil {
					onUpdate(job)
				}
			})
			if res == nil {
				return seen.Load(), err
			}
			result = res
			return &res.Job, err
		})
	if errors.Is(err, jobwatch.ErrDetached) {
		if watched == nil {
			watched = seen.Load()
		}
		cmd.Println(detachedRunHint(watched))
		return nil
	}
	if err != nil {
		return llmHint(fmt.Errorf("batch run failed: %w", err))
	}

	printCollectResult(cmd, result, runOutput)
	return nil
}

// detachedRunHint tells the user what is left running after a detach.
// Without a job ID nothing reached the service yet.
func detachedRunHint(job *domain.Job) string {
	if job == nil || job.ID == "" {
		return "Stopped before a job was submitted. Nothing is running."
	}
	return fmt.Sprintf("Stopped watching. Job %s keeps running; resume with: litsum batch wait %s", job.ID, job.ID)
}

func printJob(cmd *cobra.Command, job *domain.Job) {
	cmd.Printf("Job:       %s\n", job.ID)
	if job.Label != "" {
		cmd.Printf("Label:     %s\n", job.Label)
	}
	cmd.Printf("Status:    %s\n", job.Status)
	cmd.Printf("Requests:  %d total, %d completed, %d failed\n",
		job.RequestCounts.Total, job.RequestCounts.Completed, job.RequestCounts.Failed)
	if len(job.Documents) > 0 {
		cmd.Printf("Papers:    %d\n", len(job.Documents))
	}
	cmd.Printf("Created:   %s\n", formatTime(job.CreatedAt))
	if !job.CompletedAt.IsZero() {
		cmd.Printf("Finished:  %s\n", formatTime(job.CompletedAt))
	}
	if job.OutputFileID != "" {
		cmd.Printf("Output:    %s\n", job.OutputFileID)
	}
	if job.ErrorFileID != "" {
		cmd.Printf("Errors:    %s\n", job.ErrorFileID)
	}
	if job.Error != "" {
		cmd.Printf("Error:     %s\n", job.Error)
	}
}

func printCollectResult(cmd *cobra.Command, result *driving.CollectResult, path string) {
	cmd.Printf("Wrote %d papers to %s\n", len(result.Records), path)
	if skipped := result.Stats.Skipped(); skipped > 0 {
		cmd.Printf("Skipped %d answers (%d malformed, %d unknown question, %d errored, %d duplicate)\n",
			skipped, result.Stats.Malformed, result.Stats.UnknownQuestion,
			result.Stats.Errored, result.Stats.Duplicate)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
