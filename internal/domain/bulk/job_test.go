package bulk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportJob(t *testing.T) {
	companyID := uuid.New()

	t.Run("creates pending job", func(t *testing.T) {
		job, err := NewImportJob(companyID, "imports/orders.csv")

		require.NoError(t, err)
		assert.Equal(t, JobStatusPending, job.Status)
		assert.Equal(t, companyID, job.CompanyID)
		assert.Nil(t, job.Marketplace)
		assert.Zero(t, job.TotalRows)
		assert.Zero(t, job.ProcessedRows)
	})

	t.Run("rejects empty file path", func(t *testing.T) {
		_, err := NewImportJob(companyID, "")
		assert.Error(t, err)
	})
}

func TestJobStatus(t *testing.T) {
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusRunning.IsTerminal())

	assert.True(t, JobStatusRunning.IsValid())
	assert.False(t, JobStatus("queued").IsValid())
}

func TestCascadeStats(t *testing.T) {
	t.Run("merge adds counts", func(t *testing.T) {
		a := CascadeStats{OrdersCreated: 1, ItemsUpserted: 2}
		a.Merge(CascadeStats{OrdersCreated: 2, OrdersUpdated: 1, ItemsUpserted: 3})

		assert.Equal(t, 3, a.OrdersCreated)
		assert.Equal(t, 1, a.OrdersUpdated)
		assert.Equal(t, 5, a.ItemsUpserted)
	})

	t.Run("round trips through job stats JSON", func(t *testing.T) {
		job, err := NewImportJob(uuid.New(), "imports/orders.csv")
		require.NoError(t, err)

		want := CascadeStats{OrdersCreated: 4, ProductsCreated: 2, PackagesCreated: 4}
		require.NoError(t, job.SetStats(want))

		got, err := job.StatsValue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestMarketplace(t *testing.T) {
	assert.True(t, MarketplaceShopee.IsValid())
	assert.True(t, MarketplaceUnknown.IsValid())
	assert.False(t, Marketplace("amazon").IsValid())
}
