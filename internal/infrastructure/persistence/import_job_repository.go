package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormImportJobRepository implements bulk.ImportJobRepository using GORM
type GormImportJobRepository struct {
	db *gorm.DB
}

// NewGormImportJobRepository creates a new GormImportJobRepository
func NewGormImportJobRepository(db *gorm.DB) *GormImportJobRepository {
	return &GormImportJobRepository{db: db}
}

// Create persists a new pending job
func (r *GormImportJobRepository) Create(ctx context.Context, job *bulk.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID finds a job by ID within a company
func (r *GormImportJobRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*bulk.ImportJob, error) {
	var job bulk.ImportJob
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindByIDAny finds a job by ID without a company scope
func (r *GormImportJobRepository) FindByIDAny(ctx context.Context, id uuid.UUID) (*bulk.ImportJob, error) {
	var job bulk.ImportJob
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindAll returns jobs for a company, most recent first
func (r *GormImportJobRepository) FindAll(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]bulk.ImportJob, error) {
	var jobs []bulk.ImportJob
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkRunning transitions pending -> running and stamps started_at.
// The WHERE clause on status makes the transition a no-op when another
// invocation already claimed the job.
func (r *GormImportJobRepository) MarkRunning(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&bulk.ImportJob{}).
		Where("id = ? AND status = ?", id, bulk.JobStatusPending).
		Updates(map[string]any{
			"status":     bulk.JobStatusRunning,
			"started_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetDetection records the detected marketplace and total row count
func (r *GormImportJobRepository) SetDetection(ctx context.Context, id uuid.UUID, marketplace bulk.Marketplace, totalRows int) error {
	return r.db.WithContext(ctx).
		Model(&bulk.ImportJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"marketplace": marketplace,
			"total_rows":  totalRows,
		}).Error
}

// IncrementProcessed atomically adds n to processed_rows. The increment is
// pushed into the UPDATE expression so concurrent continuations never lose
// counts to a read-modify-write race.
func (r *GormImportJobRepository) IncrementProcessed(ctx context.Context, id uuid.UUID, n int) error {
	return r.db.WithContext(ctx).
		Model(&bulk.ImportJob{}).
		Where("id = ?", id).
		UpdateColumn("processed_rows", gorm.Expr("processed_rows + ?", n)).Error
}

// MergeStats folds a step's cascade statistics into the job's stats JSON.
// The row is locked for the read-merge-write so overlapping steps serialize;
// processed_rows stays the authoritative progress counter either way.
func (r *GormImportJobRepository) MergeStats(ctx context.Context, id uuid.UUID, stats bulk.CascadeStats) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		// SQLite has no row locks; its single-writer model serializes the
		// merge on its own
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var job bulk.ImportJob
		if err := query.First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		current, err := job.StatsValue()
		if err != nil {
			return err
		}
		current.Merge(stats)
		if err := job.SetStats(current); err != nil {
			return err
		}

		return tx.
			Model(&bulk.ImportJob{}).
			Where("id = ?", id).
			UpdateColumn("stats", job.Stats).Error
	})
}

// Complete transitions running -> completed and stamps completed_at
func (r *GormImportJobRepository) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&bulk.ImportJob{}).
		Where("id = ? AND status = ?", id, bulk.JobStatusRunning).
		Updates(map[string]any{
			"status":       bulk.JobStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Fail transitions the job to failed with a fatal error message
func (r *GormImportJobRepository) Fail(ctx context.Context, id uuid.UUID, message string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&bulk.ImportJob{}).
		Where("id = ? AND status NOT IN ?", id, []bulk.JobStatus{bulk.JobStatusCompleted}).
		Updates(map[string]any{
			"status":        bulk.JobStatusFailed,
			"error_message": message,
			"completed_at":  now,
		}).Error
}

// InsertErrors appends row-level error records for a job
func (r *GormImportJobRepository) InsertErrors(ctx context.Context, errs []*bulk.JobError) error {
	if len(errs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(errs).Error
}

// FindErrors returns the row-level errors recorded for a job
func (r *GormImportJobRepository) FindErrors(ctx context.Context, companyID, jobID uuid.UUID) ([]bulk.JobError, error) {
	var errs []bulk.JobError
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND job_id = ?", companyID, jobID).
		Order("row_number ASC").
		Find(&errs).Error; err != nil {
		return nil, err
	}
	return errs, nil
}
