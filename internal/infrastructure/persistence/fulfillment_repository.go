package persistence

import (
	"context"
	"errors"

	"github.com/bipcerto/backend/internal/domain/fulfillment"
	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFulfillmentRepository implements fulfillment.Repository using GORM.
// Every upsert is a two-step primitive: an insert-or-ignore keyed by the
// natural unique index, then a fetch-and-update when the insert was ignored.
// RowsAffected of the first step is the authoritative inserted/updated signal.
type GormFulfillmentRepository struct {
	db *gorm.DB
}

// NewGormFulfillmentRepository creates a new GormFulfillmentRepository
func NewGormFulfillmentRepository(db *gorm.DB) *GormFulfillmentRepository {
	return &GormFulfillmentRepository{db: db}
}

// UpsertOrder inserts or refreshes an order by (company, marketplace,
// external order id). On conflict the existing row's ID is copied back onto
// the argument so the cascade keeps operating on the canonical order.
func (r *GormFulfillmentRepository) UpsertOrder(ctx context.Context, order *fulfillment.Order) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"}, {Name: "marketplace"}, {Name: "external_order_id"},
			},
			DoNothing: true,
		}).
		Create(order)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var existing fulfillment.Order
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND marketplace = ? AND external_order_id = ?",
			order.CompanyID, order.Marketplace, order.ExternalOrderID).
		First(&existing).Error; err != nil {
		return false, err
	}

	updates := map[string]any{}
	if order.CustomerName != "" {
		updates["customer_name"] = order.CustomerName
	}
	if order.AddressSummary != "" {
		updates["address_summary"] = order.AddressSummary
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&fulfillment.Order{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; err != nil {
			return false, err
		}
	}

	order.ID = existing.ID
	order.CreatedAt = existing.CreatedAt
	order.Status = existing.Status
	return false, nil
}

// UpsertProduct inserts a product by (company, name), resolving to the
// existing row on conflict
func (r *GormFulfillmentRepository) UpsertProduct(ctx context.Context, product *fulfillment.Product) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(product)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var existing fulfillment.Product
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ?", product.CompanyID, product.Name).
		First(&existing).Error; err != nil {
		return false, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.BaseSKU = existing.BaseSKU
	return false, nil
}

// UpsertVariantBySKU inserts or resolves a variant by (company, sku)
func (r *GormFulfillmentRepository) UpsertVariantBySKU(ctx context.Context, variant *fulfillment.ProductVariant) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "sku"}},
			DoNothing: true,
		}).
		Create(variant)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var existing fulfillment.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND sku = ?", variant.CompanyID, variant.SKU).
		First(&existing).Error; err != nil {
		return false, err
	}
	variant.ID = existing.ID
	variant.CreatedAt = existing.CreatedAt
	variant.ProductID = existing.ProductID
	return false, nil
}

// FindVariantByName resolves a variant by (product, variant name)
func (r *GormFulfillmentRepository) FindVariantByName(ctx context.Context, companyID, productID uuid.UUID, variantName string) (*fulfillment.ProductVariant, error) {
	var variant fulfillment.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND product_id = ? AND variant_name = ?",
			companyID, productID, variantName).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// CreateVariant creates a variant that has no SKU to upsert against
func (r *GormFulfillmentRepository) CreateVariant(ctx context.Context, variant *fulfillment.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// UpsertOrderItem inserts or updates the qty for (order, variant)
func (r *GormFulfillmentRepository) UpsertOrderItem(ctx context.Context, item *fulfillment.OrderItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"qty"}),
		}).
		Create(item).Error
}

// UpsertPackage inserts a package by (company, scan code); an existing
// package is resolved and left untouched since the scanner UI owns its state
func (r *GormFulfillmentRepository) UpsertPackage(ctx context.Context, pkg *fulfillment.Package) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "scan_code"}},
			DoNothing: true,
		}).
		Create(pkg)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var existing fulfillment.Package
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND scan_code = ?", pkg.CompanyID, pkg.ScanCode).
		First(&existing).Error; err != nil {
		return false, err
	}
	*pkg = existing
	return false, nil
}

// UpsertPackageItem inserts or updates the qty for (package, variant)
func (r *GormFulfillmentRepository) UpsertPackageItem(ctx context.Context, item *fulfillment.PackageItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "package_id"}, {Name: "variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"qty"}),
		}).
		Create(item).Error
}
