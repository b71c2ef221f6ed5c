package importapp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/shared"
	csvimport "github.com/bipcerto/backend/internal/infrastructure/import"
	"github.com/bipcerto/backend/internal/infrastructure/logger"
	"github.com/bipcerto/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartService owns the first phase of an import: it claims the pending
// job, downloads and parses the file, detects the marketplace, and stages
// every mappable row exactly once. Processing itself is handed off to the
// batch processor through the trigger.
type StartService struct {
	jobs             bulk.ImportJobRepository
	staging          bulk.StagingRepository
	files            storage.FileStorage
	trigger          Trigger
	stagingBatchSize int
}

// NewStartService creates a StartService
func NewStartService(
	jobs bulk.ImportJobRepository,
	staging bulk.StagingRepository,
	files storage.FileStorage,
	trigger Trigger,
	stagingBatchSize int,
) *StartService {
	if stagingBatchSize < 1 {
		stagingBatchSize = 1000
	}
	return &StartService{
		jobs:             jobs,
		staging:          staging,
		files:            files,
		trigger:          trigger,
		stagingBatchSize: stagingBatchSize,
	}
}

// CreateJob registers a pending import job for an already uploaded file.
// A marketplace may be supplied to override header detection, e.g. for
// exports whose headers were edited by hand.
func (s *StartService) CreateJob(ctx context.Context, companyID uuid.UUID, filePath string, marketplace *bulk.Marketplace) (*bulk.ImportJob, error) {
	job, err := bulk.NewImportJob(companyID, filePath)
	if err != nil {
		return nil, err
	}
	if marketplace != nil && marketplace.IsValid() {
		job.Marketplace = marketplace
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("import job created",
		zap.String("job_id", job.ID.String()),
		zap.String("file_path", filePath),
	)
	return job, nil
}

// Start runs the staging phase for a pending job. Calling it again for a
// job that already started is a no-op, so duplicate start requests and
// retried invocations are safe.
func (s *StartService) Start(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.FindByIDAny(ctx, jobID)
	if err != nil {
		return err
	}

	claimed, err := s.jobs.MarkRunning(ctx, jobID)
	if err != nil {
		return err
	}
	if !claimed {
		logger.L(ctx).Info("job already started, skipping",
			zap.String("job_id", jobID.String()),
			zap.String("status", string(job.Status)),
		)
		return nil
	}

	log := logger.L(ctx).With(zap.String("job_id", jobID.String()))

	data, err := s.files.Download(ctx, job.FilePath)
	if err != nil {
		s.fail(ctx, jobID, fmt.Sprintf("failed to download file: %v", err))
		return err
	}

	doc, err := csvimport.ParseText(csvimport.DecodeText(data))
	if err != nil {
		s.fail(ctx, jobID, fmt.Sprintf("failed to parse file: %v", err))
		return err
	}

	marketplace := csvimport.DetectMarketplace(doc.Headers)
	// An explicit marketplace on the job overrides header detection
	if job.Marketplace != nil && *job.Marketplace != bulk.MarketplaceUnknown && job.Marketplace.IsValid() {
		marketplace = *job.Marketplace
	}
	log.Info("marketplace detected",
		zap.String("marketplace", string(marketplace)),
		zap.Int("rows", len(doc.Rows)),
	)

	rows := s.buildStagingRows(job, marketplace, doc)

	// total_rows counts the rows that were actually staged, so a completed
	// job always ends with processed_rows == total_rows
	if err := s.jobs.SetDetection(ctx, jobID, marketplace, len(rows)); err != nil {
		return err
	}

	var staged int64
	for start := 0; start < len(rows); start += s.stagingBatchSize {
		end := start + s.stagingBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := s.staging.InsertIgnoreDuplicates(ctx, rows[start:end])
		if err != nil {
			s.fail(ctx, jobID, fmt.Sprintf("failed to stage rows: %v", err))
			return err
		}
		staged += n
	}

	log.Info("rows staged",
		zap.Int("mapped", len(rows)),
		zap.Int64("inserted", staged),
	)

	return s.trigger.TriggerProcessing(ctx, jobID)
}

// Resume re-triggers processing for a job that is running but idle, e.g.
// after a crashed continuation. Terminal jobs are left alone.
func (s *StartService) Resume(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.FindByIDAny(ctx, jobID)
	if err != nil {
		return err
	}

	switch job.Status {
	case bulk.JobStatusPending:
		return s.Start(ctx, jobID)
	case bulk.JobStatusRunning:
		logger.L(ctx).Info("resuming job",
			zap.String("job_id", jobID.String()),
			zap.Int("processed_rows", job.ProcessedRows),
			zap.Int("total_rows", job.TotalRows),
		)
		return s.trigger.TriggerProcessing(ctx, jobID)
	default:
		return shared.NewDomainError("JOB_FINISHED", fmt.Sprintf("Job is already %s", job.Status))
	}
}

func (s *StartService) buildStagingRows(job *bulk.ImportJob, marketplace bulk.Marketplace, doc *csvimport.Document) []*bulk.StagingRow {
	rows := make([]*bulk.StagingRow, 0, len(doc.Rows))
	for _, rec := range doc.Rows {
		mapped := csvimport.MapRow(marketplace, rec, doc.Headers)
		if mapped == nil {
			continue
		}
		raw, _ := json.Marshal(rec.Data)
		rows = append(rows, &bulk.StagingRow{
			BaseEntity:      shared.NewBaseEntity(),
			JobID:           job.ID,
			CompanyID:       job.CompanyID,
			RowNumber:       rec.Line,
			Marketplace:     marketplace,
			ExternalOrderID: mapped.ExternalOrderID,
			TrackingCode:    mapped.TrackingCode,
			ItemName:        mapped.ProductName,
			Variation:       mapped.VariantName,
			SKU:             mapped.SKU,
			Qty:             mapped.Qty,
			BuyerName:       mapped.CustomerName,
			Address:         mapped.AddressSummary,
			RawData:         string(raw),
			LineHash:        csvimport.RowHash(rec.Data),
		})
	}
	return rows
}

func (s *StartService) fail(ctx context.Context, jobID uuid.UUID, message string) {
	if err := s.jobs.Fail(ctx, jobID, message); err != nil {
		logger.L(ctx).Error("failed to mark job as failed",
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
	}
}
