package persistence

import (
	"context"
	"testing"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/fulfillment"
	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFulfillmentRepository_UpsertOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFulfillmentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	first := fulfillment.NewOrder(companyID, bulk.MarketplaceShopee, "ORD1")
	first.CustomerName = "Maria"
	inserted, err := repo.UpsertOrder(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	t.Run("same natural key resolves to existing order", func(t *testing.T) {
		second := fulfillment.NewOrder(companyID, bulk.MarketplaceShopee, "ORD1")
		second.CustomerName = "Maria Silva"
		second.AddressSummary = "Rua X, 123"

		inserted, err := repo.UpsertOrder(ctx, second)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, first.ID, second.ID)

		var stored fulfillment.Order
		require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
		assert.Equal(t, "Maria Silva", stored.CustomerName)
		assert.Equal(t, "Rua X, 123", stored.AddressSummary)
	})

	t.Run("empty fields do not blank existing data", func(t *testing.T) {
		third := fulfillment.NewOrder(companyID, bulk.MarketplaceShopee, "ORD1")
		inserted, err := repo.UpsertOrder(ctx, third)
		require.NoError(t, err)
		assert.False(t, inserted)

		var stored fulfillment.Order
		require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
		assert.Equal(t, "Maria Silva", stored.CustomerName)
	})

	t.Run("other marketplace is a different order", func(t *testing.T) {
		inserted, err := repo.UpsertOrder(ctx, fulfillment.NewOrder(companyID, bulk.MarketplaceShein, "ORD1"))
		require.NoError(t, err)
		assert.True(t, inserted)
	})
}

func TestFulfillmentRepository_UpsertProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFulfillmentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	first := fulfillment.NewProduct(companyID, "Camisa Polo")
	inserted, err := repo.UpsertProduct(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := fulfillment.NewProduct(companyID, "Camisa Polo")
	inserted, err = repo.UpsertProduct(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)

	t.Run("other company owns its own catalog", func(t *testing.T) {
		inserted, err := repo.UpsertProduct(ctx, fulfillment.NewProduct(uuid.New(), "Camisa Polo"))
		require.NoError(t, err)
		assert.True(t, inserted)
	})
}

func TestFulfillmentRepository_Variants(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFulfillmentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	productID := uuid.New()

	t.Run("upsert by SKU", func(t *testing.T) {
		sku := "POLO-GG-1"
		first := fulfillment.NewProductVariant(companyID, productID, "GG", &sku)
		inserted, err := repo.UpsertVariantBySKU(ctx, first)
		require.NoError(t, err)
		assert.True(t, inserted)

		second := fulfillment.NewProductVariant(companyID, uuid.New(), "GG", &sku)
		inserted, err = repo.UpsertVariantBySKU(ctx, second)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, productID, second.ProductID)
	})

	t.Run("find by name", func(t *testing.T) {
		variant := fulfillment.NewProductVariant(companyID, productID, "Azul M", nil)
		require.NoError(t, repo.CreateVariant(ctx, variant))

		found, err := repo.FindVariantByName(ctx, companyID, productID, "Azul M")
		require.NoError(t, err)
		assert.Equal(t, variant.ID, found.ID)

		_, err = repo.FindVariantByName(ctx, companyID, productID, "Vermelho P")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestFulfillmentRepository_UpsertOrderItem(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFulfillmentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	orderID := uuid.New()
	variantID := uuid.New()

	item := &fulfillment.OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		OrderID:    orderID,
		VariantID:  variantID,
		Qty:        2,
	}
	require.NoError(t, repo.UpsertOrderItem(ctx, item))

	update := &fulfillment.OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		OrderID:    orderID,
		VariantID:  variantID,
		Qty:        5,
	}
	require.NoError(t, repo.UpsertOrderItem(ctx, update))

	var items []fulfillment.OrderItem
	require.NoError(t, db.Where("order_id = ?", orderID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Qty)
}

func TestFulfillmentRepository_Packages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFulfillmentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	orderID := uuid.New()

	first := fulfillment.NewPackage(companyID, &orderID, "TRK1", "TRK1")
	inserted, err := repo.UpsertPackage(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	t.Run("existing package is resolved, not modified", func(t *testing.T) {
		require.NoError(t, db.Model(&fulfillment.Package{}).
			Where("id = ?", first.ID).
			Update("status", fulfillment.PackageStatusScanned).Error)

		second := fulfillment.NewPackage(companyID, &orderID, "TRK1", "TRK1")
		inserted, err := repo.UpsertPackage(ctx, second)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, fulfillment.PackageStatusScanned, second.Status)
	})

	t.Run("package items update qty in place", func(t *testing.T) {
		variantID := uuid.New()
		item := &fulfillment.PackageItem{
			BaseEntity: shared.NewBaseEntity(),
			CompanyID:  companyID,
			PackageID:  first.ID,
			VariantID:  variantID,
			Qty:        1,
		}
		require.NoError(t, repo.UpsertPackageItem(ctx, item))

		again := &fulfillment.PackageItem{
			BaseEntity: shared.NewBaseEntity(),
			CompanyID:  companyID,
			PackageID:  first.ID,
			VariantID:  variantID,
			Qty:        3,
		}
		require.NoError(t, repo.UpsertPackageItem(ctx, again))

		var items []fulfillment.PackageItem
		require.NoError(t, db.Where("package_id = ?", first.ID).Find(&items).Error)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Qty)
	})
}
