package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driving"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// Ensure BatchPipeline implements the interface.
var _ driving.BatchPipeline = (*BatchPipeline)(nil)

// maxPollFailures is how many consecutive status errors end a wait.
const maxPollFailures = 3

// BatchPipeline runs folders of papers through one remote batch job.
type BatchPipeline struct {
	extractor driven.TextExtractor
	chunker   driven.Chunker
	builder   *RequestBuilder
	batch     driven.BatchService
	jobs      driven.JobStore
	reports   driven.ReportWriter
	settings  domain.BatchSettings
}

// NewBatchPipeline creates a new batch pipeline.
func NewBatchPipeline(
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	builder *RequestBuilder,
	batch driven.BatchService,
	jobs driven.JobStore,
	reports driven.ReportWriter,
	settings domain.BatchSettings,
) *BatchPipeline {
	return &BatchPipeline{
		extractor: extractor,
		chunker:   chunker,
		builder:   builder,
		batch:     batch,
		jobs:      jobs,
		reports:   reports,
		settings:  settings,
	}
}

// Prepare reads every PDF in folder, chunks it and builds the request set.
// A document whose text cannot be extracted is kept with empty content.
func (p *BatchPipeline) Prepare(ctx context.Context, folder string) (*domain.PreparedBatch, error) {
	logger.Section("Batch Prepare")

	paths, err := listPDFs(folder)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.ChunkedDocument, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc := domain.Document{ID: filepath.Base(path), Path: path}
		text, err := p.extractor.ExtractText(ctx, path)
		if err != nil {
			logger.Warn("extracting %s: %v (continuing with empty text)", doc.ID, err)
		} else {
			doc.Content = text
		}

		chunks := p.chunker.Split(doc)
		logger.Debug("%s: %d chunk(s)", doc.ID, len(chunks))
		docs = append(docs, domain.ChunkedDocument{Document: doc, Chunks: chunks})
	}

	requests, err := p.builder.Build(docs)
	if err != nil {
		return nil, fmt.Errorf("build requests: %w", err)
	}
	logger.Info("prepared %d request(s) for %d document(s)", len(requests), len(docs))

	return &domain.PreparedBatch{
		Documents: docs,
		Questions: p.builder.Questions(),
		Requests:  requests,
	}, nil
}

// WriteRequests writes the prepared request file without submitting it.
func (p *BatchPipeline) WriteRequests(w io.Writer, batch *domain.PreparedBatch) error {
	if err := p.requireBatch(); err != nil {
		return err
	}
	return p.batch.EncodeRequests(w, batch.Requests)
}

// Submit uploads the requests, creates the job and records it in the ledger.
func (p *BatchPipeline) Submit(ctx context.Context, batch *domain.PreparedBatch, label string) (*domain.Job, error) {
	logger.Section("Batch Submit")

	if err := p.requireBatch(); err != nil {
		return nil, err
	}

	if len(batch.Requests) == 0 {
		return nil, fmt.Errorf("%w: no requests to submit", domain.ErrInvalidInput)
	}

	fileID, err := p.batch.UploadRequests(ctx, domain.BatchInputFilename, batch.Requests)
	if err != nil {
		return nil, fmt.Errorf("upload requests: %w", err)
	}
	logger.Info("uploaded request file %s", fileID)

	job, err := p.batch.CreateJob(ctx, domain.JobSpec{
		InputFileID:      fileID,
		Endpoint:         domain.ChatCompletionsEndpoint,
		CompletionWindow: p.settings.CompletionWindow,
		Description:      domain.BatchJobDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	job.Label = label
	job.Documents = batch.DocumentIDs()
	job.Questions = batch.Questions.Names()
	if job.InputFileID == "" {
		job.InputFileID = fileID
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.UpdatedAt = time.Now()

	if err := p.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("record job: %w", err)
	}
	logger.Info("submitted job %s", job.ID)

	return job, nil
}

// Wait polls the job every poll interval until it is terminal.
//
// When the maximum wait elapses the job is cancelled remotely if configured,
// and domain.ErrWaitTimeout is returned. Cancelling ctx stops waiting
// without touching the remote job.
func (p *BatchPipeline) Wait(ctx context.Context, jobID string, onUpdate driving.JobUpdateFunc) (*domain.Job, error) {
	logger.Section("Batch Wait")

	if err := p.requireBatch(); err != nil {
		return nil, err
	}

	waitCtx := ctx
	if p.settings.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.settings.MaxWait)
		defer cancel()
	}

	interval := p.settings.PollInterval
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0
	for {
		job, err := p.refresh(waitCtx, jobID)
		switch {
		case err == nil:
			failures = 0
			if onUpdate != nil {
				onUpdate(*job)
			}
			if job.Status.IsTerminal() {
				if job.Status.Succeeded() {
					return job, nil
				}
				return job, jobFailure(job)
			}
			logger.Debug("job %s is %s (%d/%d done)", job.ID, job.Status,
				job.RequestCounts.Completed, job.RequestCounts.Total)
		case waitCtx.Err() != nil:
			// Handled below.
		default:
			failures++
			logger.Warn("polling job %s: %v", jobID, err)
			if failures >= maxPollFailures {
				return nil, fmt.Errorf("poll job %s: %w", jobID, err)
			}
		}

		select {
		case <-waitCtx.Done():
			return nil, p.waitEnded(ctx, jobID)
		case <-ticker.C:
		}
	}
}

// waitEnded decides why the wait context finished.
func (p *BatchPipeline) waitEnded(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.settings.CancelOnTimeout {
		logger.Warn("job %s exceeded %s, cancelling", jobID, p.settings.MaxWait)
		if _, err := p.Cancel(ctx, jobID); err != nil {
			logger.Warn("cancelling job %s: %v", jobID, err)
		}
	}
	return fmt.Errorf("job %s after %s: %w", jobID, p.settings.MaxWait, domain.ErrWaitTimeout)
}

// Collect downloads a completed job's answers and demultiplexes them in
// submission order.
func (p *BatchPipeline) Collect(ctx context.Context, jobID string) (*driving.CollectResult, error) {
	logger.Section("Batch Collect")

	job, err := p.refresh(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: job %s is still %s", domain.ErrInvalidInput, job.ID, job.Status)
	}
	if !job.Status.Succeeded() {
		return nil, jobFailure(job)
	}

	var answers []domain.Answer
	if job.OutputFileID != "" {
		out, err := p.batch.DownloadAnswers(ctx, job.OutputFileID)
		if err != nil {
			return nil, fmt.Errorf("download output: %w", err)
		}
		answers = append(answers, out...)
	} else {
		logger.Warn("job %s completed without an output file", job.ID)
	}

	if job.ErrorFileID != "" {
		failed, err := p.batch.DownloadAnswers(ctx, job.ErrorFileID)
		if err != nil {
			logger.Warn("download error file %s: %v", job.ErrorFileID, err)
		} else {
			answers = append(answers, failed...)
		}
	}

	questions := p.builder.Questions()
	records, stats := Demultiplex(answers, questions, job.Documents)

	got := make(map[string]struct{}, len(records))
	for _, r := range records {
		got[r.DocumentID] = struct{}{}
	}
	for _, id := range job.Documents {
		if _, ok := got[id]; !ok {
			logger.Warn("no answers returned for %s", id)
		}
	}
	logger.Info("collected %d record(s): %d answer(s) used, %d skipped", len(records), stats.Used, stats.Skipped())

	return &driving.CollectResult{
		Job:       *job,
		Questions: questions,
		Records:   records,
		Stats:     stats,
	}, nil
}

// WriteReport writes one row per record: the filename, then one column per question.
func (p *BatchPipeline) WriteReport(ctx context.Context, path string, result *driving.CollectResult) error {
	columns := append([]string{"Filename"}, result.Questions.Names()...)
	rows := make([][]string, 0, len(result.Records))
	for _, r := range result.Records {
		row := r.Row(result.Questions)
		for i := range row {
			row[i] = domain.CleanCell(row[i])
		}
		rows = append(rows, row)
	}

	report := domain.Report{Sheet: "Summaries", Columns: columns, Rows: rows}
	if err := p.reports.WriteReport(ctx, path, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("wrote %s", path)
	return nil
}

// Cancel asks the service to cancel a job and records the new status.
func (p *BatchPipeline) Cancel(ctx context.Context, jobID string) (*domain.Job, error) {
	if err := p.requireBatch(); err != nil {
		return nil, err
	}
	remote, err := p.batch.CancelJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("cancel job %s: %w", jobID, err)
	}
	return p.record(ctx, remote)
}

// Status refreshes a job from the service and records it.
func (p *BatchPipeline) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	return p.refresh(ctx, jobID)
}

// List returns jobs recorded in the local ledger.
func (p *BatchPipeline) List(ctx context.Context) ([]domain.Job, error) {
	return p.jobs.List(ctx)
}

// Run performs every step for one folder. A failed job writes no report.
func (p *BatchPipeline) Run(
	ctx context.Context,
	folder, outPath, label string,
	onUpdate driving.JobUpdateFunc,
) (*driving.CollectResult, error) {
	prepared, err := p.Prepare(ctx, folder)
	if err != nil {
		return nil, err
	}

	job, err := p.Submit(ctx, prepared, label)
	if err != nil {
		return nil, err
	}

	if _, err := p.Wait(ctx, job.ID, onUpdate); err != nil {
		return nil, err
	}

	result, err := p.Collect(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	if err := p.WriteReport(ctx, outPath, result); err != nil {
		return nil, err
	}
	return result, nil
}

// requireBatch reports ErrLLMUnavailable when no batch service is configured.
// Prepare, WriteReport and List work without one.
func (p *BatchPipeline) requireBatch() error {
	if p.batch == nil {
		return fmt.Errorf("%w: batch API is not configured", domain.ErrLLMUnavailable)
	}
	return nil
}

// refresh fetches the remote job and merges it into the ledger entry.
func (p *BatchPipeline) refresh(ctx context.Context, jobID string) (*domain.Job, error) {
	if err := p.requireBatch(); err != nil {
		return nil, err
	}
	remote, err := p.batch.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return p.record(ctx, remote)
}

// record copies local-only fields from the ledger onto remote and saves it.
func (p *BatchPipeline) record(ctx context.Context, remote *domain.Job) (*domain.Job, error) {
	stored, err := p.jobs.Get(ctx, remote.ID)
	switch {
	case err == nil:
		remote.Label = stored.Label
		remote.Documents = stored.Documents
		remote.Questions = stored.Questions
		if remote.CreatedAt.IsZero() {
			remote.CreatedAt = stored.CreatedAt
		}
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("job %s is not in the local ledger", remote.ID)
	default:
		return nil, fmt.Errorf("load job %s: %w", remote.ID, err)
	}

	remote.UpdatedAt = time.Now()
	if err := p.jobs.Save(ctx, remote); err != nil {
		return nil, fmt.Errorf("record job %s: %w", remote.ID, err)
	}
	return remote, nil
}

// jobFailure describes a job that ended in any terminal status but completed.
func jobFailure(job *domain.Job) error {
	if job.Error != "" {
		return fmt.Errorf("job %s ended as %s (%s): %w", job.ID, job.Status, job.Error, domain.ErrJobFailed)
	}
	return fmt.Errorf("job %s ended as %s: %w", job.ID, job.Status, domain.ErrJobFailed)
}
