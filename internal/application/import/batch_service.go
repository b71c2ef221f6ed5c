package importapp

import (
	"context"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ensure BatchService implements BatchProcessor
var _ BatchProcessor = (*BatchService)(nil)

// BatchService is the resumable heart of the pipeline. Each ProcessBatch
// call claims a bounded slice of unprocessed staging rows, cascades them,
// records progress, and either schedules the next pass or completes the
// job. A crash between passes loses at most one batch of progress markers,
// and replaying those rows is safe because every write is an upsert.
type BatchService struct {
	jobs      bulk.ImportJobRepository
	staging   bulk.StagingRepository
	cascade   *CascadeService
	trigger   Trigger
	batchSize int
}

// NewBatchService creates a BatchService. The continuation trigger is wired
// afterwards via SetTrigger since trigger and processor reference each other.
func NewBatchService(
	jobs bulk.ImportJobRepository,
	staging bulk.StagingRepository,
	cascade *CascadeService,
	batchSize int,
) *BatchService {
	if batchSize < 1 {
		batchSize = 500
	}
	return &BatchService{
		jobs:      jobs,
		staging:   staging,
		cascade:   cascade,
		batchSize: batchSize,
	}
}

// SetTrigger wires the continuation trigger
func (s *BatchService) SetTrigger(trigger Trigger) {
	s.trigger = trigger
}

// ProcessBatch runs one processing pass for a job
func (s *BatchService) ProcessBatch(ctx context.Context, jobID uuid.UUID) error {
	log := logger.L(ctx).With(zap.String("job_id", jobID.String()))

	job, err := s.jobs.FindByIDAny(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != bulk.JobStatusRunning {
		log.Info("job is not running, skipping pass", zap.String("status", string(job.Status)))
		return nil
	}

	rows, err := s.staging.ClaimBatch(ctx, jobID, s.batchSize)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return s.finalize(ctx, jobID)
	}

	var stats bulk.CascadeStats
	var jobErrs []*bulk.JobError
	ids := make([]uuid.UUID, len(rows))

	for i := range rows {
		row := &rows[i]
		ids[i] = row.ID

		rowStats, err := s.cascade.ProcessRow(ctx, row)
		// A failed row is recorded and skipped; it never blocks the batch
		if err != nil {
			jobErrs = append(jobErrs, bulk.NewJobError(
				jobID, row.CompanyID, row.RowNumber, row.RawData, err.Error(),
			))
		}
		stats.Merge(rowStats)
	}

	if err := s.staging.MarkProcessed(ctx, ids); err != nil {
		return err
	}
	if err := s.jobs.IncrementProcessed(ctx, jobID, len(rows)); err != nil {
		return err
	}
	if err := s.jobs.InsertErrors(ctx, jobErrs); err != nil {
		return err
	}
	if err := s.jobs.MergeStats(ctx, jobID, stats); err != nil {
		return err
	}

	log.Info("batch processed",
		zap.Int("rows", len(rows)),
		zap.Int("errors", len(jobErrs)),
	)

	// A full batch means more rows may remain; a short one means this was
	// the last slice and the job can be finalized right away
	if len(rows) == s.batchSize {
		return s.trigger.TriggerProcessing(ctx, jobID)
	}
	return s.finalize(ctx, jobID)
}

// finalize completes the job once no unprocessed rows remain
func (s *BatchService) finalize(ctx context.Context, jobID uuid.UUID) error {
	remaining, err := s.staging.CountUnprocessed(ctx, jobID)
	if err != nil {
		return err
	}
	if remaining > 0 {
		// Claimed zero rows while some remain: another pass owns them
		return nil
	}

	done, err := s.jobs.Complete(ctx, jobID)
	if err != nil {
		return err
	}
	if done {
		logger.L(ctx).Info("import job completed", zap.String("job_id", jobID.String()))
	}
	return nil
}
