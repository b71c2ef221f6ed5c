package persistence

import (
	"testing"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/fulfillment"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// SQLite enforces the same composite unique indexes the repositories upsert
// against, so insert-or-ignore semantics behave as in production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&bulk.ImportJob{},
		&bulk.StagingRow{},
		&bulk.JobError{},
		&fulfillment.Order{},
		&fulfillment.OrderItem{},
		&fulfillment.Product{},
		&fulfillment.ProductVariant{},
		&fulfillment.Package{},
		&fulfillment.PackageItem{},
	)
	require.NoError(t, err)

	return db
}
