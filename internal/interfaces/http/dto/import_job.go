package dto

import (
	"time"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs custom binding validators. Call once at
// startup before the router handles requests.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("marketplace", validateMarketplace)
	}
}

func validateMarketplace(fl validator.FieldLevel) bool {
	return bulk.Marketplace(fl.Field().String()).IsValid()
}

// CreateImportJobRequest creates a pending job for an uploaded file.
// Marketplace is an optional detection override.
type CreateImportJobRequest struct {
	FilePath    string  `json:"file_path" binding:"required,max=500"`
	Marketplace *string `json:"marketplace" binding:"omitempty,marketplace"`
}

// ListImportJobsRequest paginates the job listing
type ListImportJobsRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ImportJobResponse is the API shape of an import job
type ImportJobResponse struct {
	ID            string             `json:"id"`
	CompanyID     string             `json:"company_id"`
	FilePath      string             `json:"file_path"`
	Marketplace   *string            `json:"marketplace,omitempty"`
	Status        string             `json:"status"`
	TotalRows     int                `json:"total_rows"`
	ProcessedRows int                `json:"processed_rows"`
	ErrorMessage  string             `json:"error_message,omitempty"`
	Stats         *bulk.CascadeStats `json:"stats,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
}

// NewImportJobResponse converts a domain job to its API shape
func NewImportJobResponse(job *bulk.ImportJob) ImportJobResponse {
	resp := ImportJobResponse{
		ID:            job.ID.String(),
		CompanyID:     job.CompanyID.String(),
		FilePath:      job.FilePath,
		Status:        string(job.Status),
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt,
		StartedAt:     job.StartedAt,
		CompletedAt:   job.CompletedAt,
	}
	if job.Marketplace != nil {
		mp := string(*job.Marketplace)
		resp.Marketplace = &mp
	}
	if stats, err := job.StatsValue(); err == nil {
		resp.Stats = &stats
	}
	return resp
}

// JobErrorResponse is the API shape of a row-level import error
type JobErrorResponse struct {
	RowNumber int    `json:"row_number"`
	RawRow    string `json:"raw_row"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// NewJobErrorResponse converts a domain job error to its API shape
func NewJobErrorResponse(e *bulk.JobError) JobErrorResponse {
	return JobErrorResponse{
		RowNumber: e.RowNumber,
		RawRow:    e.RawRow,
		Message:   e.Message,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
