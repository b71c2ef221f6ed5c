package bulk

import (
	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobError records a single staging row whose upsert cascade failed.
// Errors never block the job: the row is still marked processed and the job
// completes with a non-empty error list for manual correction and re-import.
type JobError struct {
	shared.BaseEntity
	JobID     uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	RowNumber int       `gorm:"not null;default:0" json:"row_number"`
	RawRow    string    `gorm:"type:jsonb" json:"raw_row"`
	Message   string    `gorm:"type:text" json:"message"`
}

// TableName returns the table name for GORM
func (JobError) TableName() string {
	return "import_job_errors"
}

// NewJobError creates an error record for a failed staging row
func NewJobError(jobID, companyID uuid.UUID, rowNumber int, rawRow, message string) *JobError {
	return &JobError{
		BaseEntity: shared.NewBaseEntity(),
		JobID:      jobID,
		CompanyID:  companyID,
		RowNumber:  rowNumber,
		RawRow:     rawRow,
		Message:    message,
	}
}
