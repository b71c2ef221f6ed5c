package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStagingRow(jobID, companyID uuid.UUID, lineHash string) *bulk.StagingRow {
	return &bulk.StagingRow{
		BaseEntity:      shared.NewBaseEntity(),
		JobID:           jobID,
		CompanyID:       companyID,
		Marketplace:     bulk.MarketplaceShopee,
		ExternalOrderID: "ORD-" + lineHash,
		ItemName:        "Camisa Polo",
		Qty:             1,
		RawData:         "{}",
		LineHash:        lineHash,
	}
}

func TestStagingRepository_InsertIgnoreDuplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStagingRepository(db)
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()

	t.Run("inserts fresh rows", func(t *testing.T) {
		inserted, err := repo.InsertIgnoreDuplicates(ctx, []*bulk.StagingRow{
			newStagingRow(jobID, companyID, "hash-1"),
			newStagingRow(jobID, companyID, "hash-2"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), inserted)
	})

	t.Run("re-staging the same lines is a no-op", func(t *testing.T) {
		inserted, err := repo.InsertIgnoreDuplicates(ctx, []*bulk.StagingRow{
			newStagingRow(jobID, companyID, "hash-1"),
			newStagingRow(jobID, companyID, "hash-3"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), inserted)

		count, err := repo.CountUnprocessed(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("same hash under another job is a distinct line", func(t *testing.T) {
		otherJob := uuid.New()
		inserted, err := repo.InsertIgnoreDuplicates(ctx, []*bulk.StagingRow{
			newStagingRow(otherJob, companyID, "hash-1"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), inserted)
	})

	t.Run("empty input", func(t *testing.T) {
		inserted, err := repo.InsertIgnoreDuplicates(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, inserted)
	})
}

func TestStagingRepository_ClaimAndMark(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStagingRepository(db)
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()

	rows := make([]*bulk.StagingRow, 5)
	for i := range rows {
		rows[i] = newStagingRow(jobID, companyID, fmt.Sprintf("hash-%d", i))
	}
	_, err := repo.InsertIgnoreDuplicates(ctx, rows)
	require.NoError(t, err)

	claimed, err := repo.ClaimBatch(ctx, jobID, 3)
	require.NoError(t, err)
	require.Len(t, claimed, 3)

	ids := make([]uuid.UUID, len(claimed))
	for i, row := range claimed {
		ids[i] = row.ID
	}
	require.NoError(t, repo.MarkProcessed(ctx, ids))

	t.Run("marked rows are not claimed again", func(t *testing.T) {
		remaining, err := repo.ClaimBatch(ctx, jobID, 10)
		require.NoError(t, err)
		assert.Len(t, remaining, 2)

		count, err := repo.CountUnprocessed(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("empty mark is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.MarkProcessed(ctx, nil))
	})
}
