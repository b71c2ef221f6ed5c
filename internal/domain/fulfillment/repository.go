package fulfillment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the idempotent write contract the upsert cascade runs
// against. Every upsert is keyed by the entity's natural unique constraint
// and reports whether it inserted a new row, so callers can count created
// versus updated without guessing from timestamps.
type Repository interface {
	// UpsertOrder inserts or refreshes an order by its natural key.
	// On conflict the mutable fields (customer name, address) are updated.
	UpsertOrder(ctx context.Context, order *Order) (inserted bool, err error)

	// UpsertProduct inserts a product by (company, name), resolving to the
	// existing row on conflict.
	UpsertProduct(ctx context.Context, product *Product) (inserted bool, err error)

	// UpsertVariantBySKU inserts or resolves a variant by (company, sku)
	UpsertVariantBySKU(ctx context.Context, variant *ProductVariant) (inserted bool, err error)

	// FindVariantByName resolves a variant by (product, variant name).
	// Returns shared.ErrNotFound when absent.
	FindVariantByName(ctx context.Context, companyID, productID uuid.UUID, variantName string) (*ProductVariant, error)

	// CreateVariant creates a variant that has no SKU to upsert against
	CreateVariant(ctx context.Context, variant *ProductVariant) error

	// UpsertOrderItem inserts or updates the qty for (order, variant)
	UpsertOrderItem(ctx context.Context, item *OrderItem) error

	// UpsertPackage inserts a package by (company, scan code); an existing
	// package is left untouched and resolved instead.
	UpsertPackage(ctx context.Context, pkg *Package) (inserted bool, err error)

	// UpsertPackageItem inserts or updates the qty for (package, variant)
	UpsertPackageItem(ctx context.Context, item *PackageItem) error
}
