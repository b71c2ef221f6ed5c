package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of an import job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IsValid checks if the status is valid
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CascadeStats accumulates entity-level statistics for a processing step.
// Counts distinguish inserts from updates via the explicit flag the upsert
// primitives return, never via created_at heuristics.
type CascadeStats struct {
	OrdersCreated   int `json:"orders_created"`
	OrdersUpdated   int `json:"orders_updated"`
	ProductsCreated int `json:"products_created"`
	VariantsCreated int `json:"variants_created"`
	PackagesCreated int `json:"packages_created"`
	ItemsUpserted   int `json:"items_upserted"`
}

// Merge adds the counts of another stats value into this one
func (s *CascadeStats) Merge(other CascadeStats) {
	s.OrdersCreated += other.OrdersCreated
	s.OrdersUpdated += other.OrdersUpdated
	s.ProductsCreated += other.ProductsCreated
	s.VariantsCreated += other.VariantsCreated
	s.PackagesCreated += other.PackagesCreated
	s.ItemsUpserted += other.ItemsUpserted
}

// ImportJob tracks one uploaded marketplace export file.
// The Start phase sets marketplace and total_rows; the batch processor owns
// processed_rows, status and completed_at. Jobs are never deleted by the
// pipeline.
type ImportJob struct {
	shared.CompanyEntity
	FilePath      string       `gorm:"type:varchar(500);not null" json:"file_path"`
	Marketplace   *Marketplace `gorm:"type:varchar(20)" json:"marketplace,omitempty"`
	Status        JobStatus    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalRows     int          `gorm:"not null;default:0" json:"total_rows"`
	ProcessedRows int          `gorm:"not null;default:0" json:"processed_rows"`
	ErrorMessage  string       `gorm:"type:text" json:"error_message,omitempty"`
	Stats         string       `gorm:"type:jsonb;default:'{}'" json:"-"`
	StartedAt     *time.Time   `gorm:"type:timestamptz" json:"started_at,omitempty"`
	CompletedAt   *time.Time   `gorm:"type:timestamptz" json:"completed_at,omitempty"`
}

// TableName returns the table name for GORM
func (ImportJob) TableName() string {
	return "import_jobs"
}

// NewImportJob creates a new pending import job for an uploaded file
func NewImportJob(companyID uuid.UUID, filePath string) (*ImportJob, error) {
	if filePath == "" {
		return nil, shared.NewDomainError("INVALID_FILE_PATH", "File path cannot be empty")
	}
	return &ImportJob{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		FilePath:      filePath,
		Status:        JobStatusPending,
		Stats:         "{}",
	}, nil
}

// StatsValue parses the accumulated cascade statistics
func (j *ImportJob) StatsValue() (CascadeStats, error) {
	var stats CascadeStats
	if j.Stats == "" {
		return stats, nil
	}
	if err := json.Unmarshal([]byte(j.Stats), &stats); err != nil {
		return stats, fmt.Errorf("failed to unmarshal job stats: %w", err)
	}
	return stats, nil
}

// SetStats serializes cascade statistics onto the job
func (j *ImportJob) SetStats(stats CascadeStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal job stats: %w", err)
	}
	j.Stats = string(data)
	return nil
}

// IsDone returns true when every staged row has been attempted
func (j *ImportJob) IsDone() bool {
	return j.Status == JobStatusCompleted && j.ProcessedRows >= j.TotalRows
}
