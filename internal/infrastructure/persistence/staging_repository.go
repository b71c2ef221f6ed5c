package persistence

import (
	"context"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStagingRepository implements bulk.StagingRepository using GORM
type GormStagingRepository struct {
	db *gorm.DB
}

// NewGormStagingRepository creates a new GormStagingRepository
func NewGormStagingRepository(db *gorm.DB) *GormStagingRepository {
	return &GormStagingRepository{db: db}
}

// InsertIgnoreDuplicates inserts staging rows, silently dropping any whose
// (job_id, line_hash) already exists. Re-running the Start phase after a
// crash therefore stages each distinct line exactly once.
func (r *GormStagingRepository) InsertIgnoreDuplicates(ctx context.Context, rows []*bulk.StagingRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "line_hash"}},
			DoNothing: true,
		}).
		Create(rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ClaimBatch fetches up to limit unprocessed rows for a job, oldest first
func (r *GormStagingRepository) ClaimBatch(ctx context.Context, jobID uuid.UUID, limit int) ([]bulk.StagingRow, error) {
	var rows []bulk.StagingRow
	if err := r.db.WithContext(ctx).
		Where("job_id = ? AND processed = ?", jobID, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkProcessed flips the processed flag for the given rows
func (r *GormStagingRepository) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&bulk.StagingRow{}).
		Where("id IN ?", ids).
		UpdateColumn("processed", true).Error
}

// CountUnprocessed counts the remaining unprocessed rows for a job
func (r *GormStagingRepository) CountUnprocessed(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&bulk.StagingRow{}).
		Where("job_id = ? AND processed = ?", jobID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
