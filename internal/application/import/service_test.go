package importapp

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/fulfillment"
	"github.com/bipcerto/backend/internal/infrastructure/persistence"
	"github.com/bipcerto/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingTrigger queues trigger calls instead of executing them, so tests
// drive the processing passes one at a time
type recordingTrigger struct {
	queue []uuid.UUID
}

func (t *recordingTrigger) TriggerProcessing(ctx context.Context, jobID uuid.UUID) error {
	t.queue = append(t.queue, jobID)
	return nil
}

func (t *recordingTrigger) pop() (uuid.UUID, bool) {
	if len(t.queue) == 0 {
		return uuid.Nil, false
	}
	id := t.queue[0]
	t.queue = t.queue[1:]
	return id, true
}

type pipeline struct {
	db      *gorm.DB
	jobs    bulk.ImportJobRepository
	files   *storage.MemoryFileStorage
	trigger *recordingTrigger
	start   *StartService
	batch   *BatchService
}

func newPipeline(t *testing.T, batchSize int) *pipeline {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&bulk.ImportJob{},
		&bulk.StagingRow{},
		&bulk.JobError{},
		&fulfillment.Order{},
		&fulfillment.OrderItem{},
		&fulfillment.Product{},
		&fulfillment.ProductVariant{},
		&fulfillment.Package{},
		&fulfillment.PackageItem{},
	))

	jobs := persistence.NewGormImportJobRepository(db)
	staging := persistence.NewGormStagingRepository(db)
	fulfillmentRepo := persistence.NewGormFulfillmentRepository(db)
	files := storage.NewMemoryFileStorage()
	trigger := &recordingTrigger{}

	batch := NewBatchService(jobs, staging, NewCascadeService(fulfillmentRepo), batchSize)
	batch.SetTrigger(trigger)

	return &pipeline{
		db:      db,
		jobs:    jobs,
		files:   files,
		trigger: trigger,
		start:   NewStartService(jobs, staging, files, trigger, 1000),
		batch:   batch,
	}
}

// drain pops queued trigger calls and runs their passes, returning how many
// passes ran
func (p *pipeline) drain(t *testing.T) int {
	t.Helper()
	passes := 0
	for {
		jobID, ok := p.trigger.pop()
		if !ok {
			return passes
		}
		passes++
		require.NoError(t, p.batch.ProcessBatch(context.Background(), jobID))
		require.Less(t, passes, 100, "processing did not terminate")
	}
}

func (p *pipeline) importFile(t *testing.T, companyID uuid.UUID, path, content string) *bulk.ImportJob {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, p.files.Upload(ctx, path, []byte(content)))

	job, err := p.start.CreateJob(ctx, companyID, path, nil)
	require.NoError(t, err)
	require.NoError(t, p.start.Start(ctx, job.ID))
	p.drain(t)

	final, err := p.jobs.FindByIDAny(ctx, job.ID)
	require.NoError(t, err)
	return final
}

const shopeeCSV = "Order ID,Tracking Number,Model Name,Product Name,Quantity,Buyer Name,Recipient Address\n" +
	"ORD1,TRK1,\"XL\",\"Camisa Polo\",2,\"Maria\",\"Rua X, 123\"\n"

func TestImportEndToEnd(t *testing.T) {
	p := newPipeline(t, 500)
	companyID := uuid.New()

	job := p.importFile(t, companyID, "imports/orders.csv", shopeeCSV)

	assert.Equal(t, bulk.JobStatusCompleted, job.Status)
	require.NotNil(t, job.Marketplace)
	assert.Equal(t, bulk.MarketplaceShopee, *job.Marketplace)
	assert.Equal(t, 1, job.TotalRows)
	assert.Equal(t, 1, job.ProcessedRows)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)

	var order fulfillment.Order
	require.NoError(t, p.db.First(&order, "external_order_id = ?", "ORD1").Error)
	assert.Equal(t, companyID, order.CompanyID)
	assert.Equal(t, "Maria", order.CustomerName)
	assert.Equal(t, "Rua X, 123", order.AddressSummary)

	var product fulfillment.Product
	require.NoError(t, p.db.First(&product, "name = ?", "Camisa Polo").Error)

	var variant fulfillment.ProductVariant
	require.NoError(t, p.db.First(&variant, "product_id = ?", product.ID).Error)
	assert.Equal(t, "XL", variant.VariantName)
	attrs, err := variant.AttributesValue()
	require.NoError(t, err)
	assert.Equal(t, "GG", attrs["size"])

	var item fulfillment.OrderItem
	require.NoError(t, p.db.First(&item, "order_id = ?", order.ID).Error)
	assert.Equal(t, variant.ID, item.VariantID)
	assert.Equal(t, 2, item.Qty)

	var pkg fulfillment.Package
	require.NoError(t, p.db.First(&pkg, "scan_code = ?", "TRK1").Error)
	require.NotNil(t, pkg.OrderID)
	assert.Equal(t, order.ID, *pkg.OrderID)

	var pkgItem fulfillment.PackageItem
	require.NoError(t, p.db.First(&pkgItem, "package_id = ?", pkg.ID).Error)
	assert.Equal(t, 2, pkgItem.Qty)

	stats, err := job.StatsValue()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OrdersCreated)
	assert.Equal(t, 1, stats.ProductsCreated)
	assert.Equal(t, 1, stats.VariantsCreated)
	assert.Equal(t, 1, stats.PackagesCreated)
	assert.Equal(t, 1, stats.ItemsUpserted)
}

func TestImportIsIdempotent(t *testing.T) {
	p := newPipeline(t, 500)
	companyID := uuid.New()

	first := p.importFile(t, companyID, "imports/a.csv", shopeeCSV)
	second := p.importFile(t, companyID, "imports/b.csv", shopeeCSV)

	assert.Equal(t, bulk.JobStatusCompleted, first.Status)
	assert.Equal(t, bulk.JobStatusCompleted, second.Status)

	var orders, products, variants, packages int64
	p.db.Model(&fulfillment.Order{}).Count(&orders)
	p.db.Model(&fulfillment.Product{}).Count(&products)
	p.db.Model(&fulfillment.ProductVariant{}).Count(&variants)
	p.db.Model(&fulfillment.Package{}).Count(&packages)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(1), products)
	assert.Equal(t, int64(1), variants)
	assert.Equal(t, int64(1), packages)

	stats, err := second.StatsValue()
	require.NoError(t, err)
	assert.Zero(t, stats.OrdersCreated)
	assert.Equal(t, 1, stats.OrdersUpdated)
	assert.Zero(t, stats.VariantsCreated)
}

func TestBatchProcessingTerminates(t *testing.T) {
	const totalRows = 5
	const batchSize = 2

	p := newPipeline(t, batchSize)
	companyID := uuid.New()
	ctx := context.Background()

	var sb strings.Builder
	sb.WriteString("Order ID,Tracking Number,Model Name,Product Name,Quantity\n")
	for i := 0; i < totalRows; i++ {
		fmt.Fprintf(&sb, "ORD%d,TRK%d,M,Camiseta %d,1\n", i, i, i)
	}
	require.NoError(t, p.files.Upload(ctx, "imports/batch.csv", []byte(sb.String())))

	job, err := p.start.CreateJob(ctx, companyID, "imports/batch.csv", nil)
	require.NoError(t, err)
	require.NoError(t, p.start.Start(ctx, job.ID))

	passes := p.drain(t)
	assert.LessOrEqual(t, passes, totalRows/batchSize+2)

	final, err := p.jobs.FindByIDAny(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, bulk.JobStatusCompleted, final.Status)
	assert.Equal(t, totalRows, final.TotalRows)
	assert.Equal(t, totalRows, final.ProcessedRows)

	var orders int64
	p.db.Model(&fulfillment.Order{}).Count(&orders)
	assert.Equal(t, int64(totalRows), orders)
}

func TestStartIsIdempotent(t *testing.T) {
	p := newPipeline(t, 500)
	ctx := context.Background()

	require.NoError(t, p.files.Upload(ctx, "imports/a.csv", []byte(shopeeCSV)))
	job, err := p.start.CreateJob(ctx, uuid.New(), "imports/a.csv", nil)
	require.NoError(t, err)

	require.NoError(t, p.start.Start(ctx, job.ID))
	require.NoError(t, p.start.Start(ctx, job.ID))

	var staged int64
	p.db.Model(&bulk.StagingRow{}).Where("job_id = ?", job.ID).Count(&staged)
	assert.Equal(t, int64(1), staged)
	assert.Len(t, p.trigger.queue, 1)
}

func TestStartFailsJobOnMissingFile(t *testing.T) {
	p := newPipeline(t, 500)
	ctx := context.Background()

	job, err := p.start.CreateJob(ctx, uuid.New(), "imports/missing.csv", nil)
	require.NoError(t, err)

	err = p.start.Start(ctx, job.ID)
	require.Error(t, err)

	final, err := p.jobs.FindByIDAny(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, bulk.JobStatusFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "failed to download file")
}

func TestStartFailsJobOnEmptyFile(t *testing.T) {
	p := newPipeline(t, 500)
	ctx := context.Background()

	require.NoError(t, p.files.Upload(ctx, "imports/empty.csv", []byte("\n\n")))
	job, err := p.start.CreateJob(ctx, uuid.New(), "imports/empty.csv", nil)
	require.NoError(t, err)

	require.Error(t, p.start.Start(ctx, job.ID))

	final, err := p.jobs.FindByIDAny(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, bulk.JobStatusFailed, final.Status)
}

func TestResume(t *testing.T) {
	p := newPipeline(t, 500)
	ctx := context.Background()

	require.NoError(t, p.files.Upload(ctx, "imports/a.csv", []byte(shopeeCSV)))
	job, err := p.start.CreateJob(ctx, uuid.New(), "imports/a.csv", nil)
	require.NoError(t, err)

	t.Run("resume of a pending job starts it", func(t *testing.T) {
		require.NoError(t, p.start.Resume(ctx, job.ID))
		assert.Len(t, p.trigger.queue, 1)
	})

	t.Run("resume of a running job re-triggers", func(t *testing.T) {
		require.NoError(t, p.start.Resume(ctx, job.ID))
		assert.Len(t, p.trigger.queue, 2)
	})

	t.Run("resume of a finished job is rejected", func(t *testing.T) {
		p.drain(t)
		err := p.start.Resume(ctx, job.ID)
		assert.Error(t, err)
	})
}
