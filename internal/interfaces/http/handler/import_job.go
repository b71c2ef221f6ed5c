package handler

import (
	importapp "github.com/bipcerto/backend/internal/application/import"
	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImportJobHandler exposes the marketplace order import pipeline over HTTP
type ImportJobHandler struct {
	BaseHandler
	start *importapp.StartService
	jobs  bulk.ImportJobRepository
}

// NewImportJobHandler creates an import job handler
func NewImportJobHandler(start *importapp.StartService, jobs bulk.ImportJobRepository) *ImportJobHandler {
	return &ImportJobHandler{
		start: start,
		jobs:  jobs,
	}
}

// RegisterRoutes registers the import job routes
func (h *ImportJobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/import-jobs")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.GET("/:id/errors", h.ListErrors)
		group.POST("/:id/start", h.Start)
		group.POST("/:id/resume", h.Resume)
	}
}

// Create registers an uploaded export file as a pending import job
func (h *ImportJobHandler) Create(c *gin.Context) {
	companyID, ok := h.getCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateImportJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var marketplace *bulk.Marketplace
	if req.Marketplace != nil {
		mp := bulk.Marketplace(*req.Marketplace)
		marketplace = &mp
	}

	job, err := h.start.CreateJob(c.Request.Context(), companyID, req.FilePath, marketplace)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewImportJobResponse(job))
}

// Start begins processing a pending import job
func (h *ImportJobHandler) Start(c *gin.Context) {
	companyID, ok := h.getCompanyID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	// Ownership check before touching the job
	if _, err := h.jobs.FindByID(c.Request.Context(), companyID, jobID); err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.start.Start(c.Request.Context(), jobID); err != nil {
		h.HandleError(c, err)
		return
	}

	job, err := h.jobs.FindByID(c.Request.Context(), companyID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewImportJobResponse(job))
}

// Resume restarts a stalled import job from where it left off
func (h *ImportJobHandler) Resume(c *gin.Context) {
	companyID, ok := h.getCompanyID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	if _, err := h.jobs.FindByID(c.Request.Context(), companyID, jobID); err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.start.Resume(c.Request.Context(), jobID); err != nil {
		h.HandleError(c, err)
		return
	}

	job, err := h.jobs.FindByID(c.Request.Context(), companyID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewImportJobResponse(job))
}

// Get returns an import job with its progress and statistics
func (h *ImportJobHandler) Get(c *gin.Context) {
	companyID, ok := h.getCompanyID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.jobs.FindByID(c.Request.Context(), companyID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewImportJobResponse(job))
}

// List returns the company's import jobs, most recent first
func (h *ImportJobHandler) List(c *gin.Context) {
	companyID, ok := h.getCompanyID(c)
	if !ok {
		return
	}

	var req dto.ListImportJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	jobs, err := h.jobs.FindAll(c.Request.Context(), companyID, req.Limit, req.Offset)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.ImportJobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, dto.NewImportJobResponse(&jobs[i]))
	}

	h.SuccessWithMeta(c, responses, req.Limit, req.Offset, len(responses))
}

// ListErrors returns the row-level errors recorded for an import job
func (h *ImportJobHandler) ListErrors(c *gin.Context) {
	companyID, ok := h.getCompanyID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	if _, err := h.jobs.FindByID(c.Request.Context(), companyID, jobID); err != nil {
		h.HandleError(c, err)
		return
	}

	rowErrors, err := h.jobs.FindErrors(c.Request.Context(), companyID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.JobErrorResponse, 0, len(rowErrors))
	for i := range rowErrors {
		responses = append(responses, dto.NewJobErrorResponse(&rowErrors[i]))
	}

	h.Success(c, responses)
}
