package bulk

import (
	"context"

	"github.com/google/uuid"
)

// ImportJobRepository defines the persistence contract for import jobs.
// Status transitions are conditional updates so that overlapping invocations
// of the Start phase or the batch processor cannot clobber each other.
type ImportJobRepository interface {
	// Create persists a new pending job
	Create(ctx context.Context, job *ImportJob) error

	// FindByID finds a job by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*ImportJob, error)

	// FindByIDAny finds a job by ID without a company scope.
	// Used by pipeline entry points that are invoked with only a job ID.
	FindByIDAny(ctx context.Context, id uuid.UUID) (*ImportJob, error)

	// FindAll returns jobs for a company, most recent first
	FindAll(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]ImportJob, error)

	// MarkRunning transitions pending -> running and stamps started_at.
	// Returns false when the job was not pending (already started or done).
	MarkRunning(ctx context.Context, id uuid.UUID) (bool, error)

	// SetDetection records the detected marketplace and total row count
	SetDetection(ctx context.Context, id uuid.UUID, marketplace Marketplace, totalRows int) error

	// IncrementProcessed atomically adds n to processed_rows. Concurrent
	// continuation invocations must not lose increments to a race.
	IncrementProcessed(ctx context.Context, id uuid.UUID, n int) error

	// MergeStats folds a step's cascade statistics into the job's stats JSON
	MergeStats(ctx context.Context, id uuid.UUID, stats CascadeStats) error

	// Complete transitions running -> completed and stamps completed_at.
	// Returns false when the job was not running.
	Complete(ctx context.Context, id uuid.UUID) (bool, error)

	// Fail transitions the job to failed with a fatal error message
	Fail(ctx context.Context, id uuid.UUID, message string) error

	// InsertErrors appends row-level error records for a job
	InsertErrors(ctx context.Context, errs []*JobError) error

	// FindErrors returns the row-level errors recorded for a job
	FindErrors(ctx context.Context, companyID, jobID uuid.UUID) ([]JobError, error)
}

// StagingRepository defines the persistence contract for staging rows
type StagingRepository interface {
	// InsertIgnoreDuplicates inserts rows with insert-or-ignore semantics
	// keyed by (job_id, line_hash). Returns the number actually inserted.
	InsertIgnoreDuplicates(ctx context.Context, rows []*StagingRow) (int64, error)

	// ClaimBatch fetches up to limit unprocessed rows for a job
	ClaimBatch(ctx context.Context, jobID uuid.UUID, limit int) ([]StagingRow, error)

	// MarkProcessed flips the processed flag for the given rows
	MarkProcessed(ctx context.Context, ids []uuid.UUID) error

	// CountUnprocessed counts the remaining unprocessed rows for a job
	CountUnprocessed(ctx context.Context, jobID uuid.UUID) (int64, error)
}
