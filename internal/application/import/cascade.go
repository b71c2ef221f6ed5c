package importapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/fulfillment"
	"github.com/bipcerto/backend/internal/domain/shared"
	csvimport "github.com/bipcerto/backend/internal/infrastructure/import"
)

// CascadeService turns one staged row into the order, catalog and package
// records it implies. Every write is an idempotent upsert keyed by a natural
// unique constraint, so replaying a row is harmless.
type CascadeService struct {
	repo fulfillment.Repository
}

// NewCascadeService creates a CascadeService
func NewCascadeService(repo fulfillment.Repository) *CascadeService {
	return &CascadeService{repo: repo}
}

// ProcessRow runs the upsert cascade for a single staging row:
// Order -> Product -> Variant -> OrderItem -> Package -> PackageItem.
// The returned stats reflect only what this row actually created or updated.
func (s *CascadeService) ProcessRow(ctx context.Context, row *bulk.StagingRow) (bulk.CascadeStats, error) {
	var stats bulk.CascadeStats

	order := fulfillment.NewOrder(row.CompanyID, row.Marketplace, row.ExternalOrderID)
	order.CustomerName = row.BuyerName
	order.AddressSummary = row.Address
	inserted, err := s.repo.UpsertOrder(ctx, order)
	if err != nil {
		return stats, fmt.Errorf("order upsert: %w", err)
	}
	if inserted {
		stats.OrdersCreated++
	} else {
		stats.OrdersUpdated++
	}

	product := fulfillment.NewProduct(row.CompanyID, row.ItemName)
	inserted, err = s.repo.UpsertProduct(ctx, product)
	if err != nil {
		return stats, fmt.Errorf("product upsert: %w", err)
	}
	if inserted {
		stats.ProductsCreated++
	}

	variant, created, err := s.resolveVariant(ctx, row, product)
	if err != nil {
		return stats, fmt.Errorf("variant resolution: %w", err)
	}
	if created {
		stats.VariantsCreated++
	}

	item := &fulfillment.OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  row.CompanyID,
		OrderID:    order.ID,
		VariantID:  variant.ID,
		Qty:        row.Qty,
	}
	if err := s.repo.UpsertOrderItem(ctx, item); err != nil {
		return stats, fmt.Errorf("order item upsert: %w", err)
	}
	stats.ItemsUpserted++

	// Rows without a tracking code have nothing to scan, so no package
	if row.TrackingCode == "" {
		return stats, nil
	}

	pkg := fulfillment.NewPackage(row.CompanyID, &order.ID, row.TrackingCode, row.TrackingCode)
	inserted, err = s.repo.UpsertPackage(ctx, pkg)
	if err != nil {
		return stats, fmt.Errorf("package upsert: %w", err)
	}
	if inserted {
		stats.PackagesCreated++
	}

	pkgItem := &fulfillment.PackageItem{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  row.CompanyID,
		PackageID:  pkg.ID,
		VariantID:  variant.ID,
		Qty:        row.Qty,
	}
	if err := s.repo.UpsertPackageItem(ctx, pkgItem); err != nil {
		return stats, fmt.Errorf("package item upsert: %w", err)
	}

	return stats, nil
}

// resolveVariant finds or creates the variant for a row. Rows carrying a
// SKU upsert by (company, sku); rows without one fall back to the variant
// name within the product.
func (s *CascadeService) resolveVariant(ctx context.Context, row *bulk.StagingRow, product *fulfillment.Product) (*fulfillment.ProductVariant, bool, error) {
	attrs := map[string]string{}
	if size, ok := csvimport.ExtractSize(row.Variation); ok {
		attrs["size"] = size
	} else if size, ok := csvimport.ExtractSize(row.ItemName); ok {
		attrs["size"] = size
	}

	if row.SKU != "" {
		sku := row.SKU
		variant := fulfillment.NewProductVariant(row.CompanyID, product.ID, row.Variation, &sku)
		if err := variant.SetAttributes(attrs); err != nil {
			return nil, false, err
		}
		inserted, err := s.repo.UpsertVariantBySKU(ctx, variant)
		if err != nil {
			return nil, false, err
		}
		return variant, inserted, nil
	}

	existing, err := s.repo.FindVariantByName(ctx, row.CompanyID, product.ID, row.Variation)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	variant := fulfillment.NewProductVariant(row.CompanyID, product.ID, row.Variation, nil)
	if err := variant.SetAttributes(attrs); err != nil {
		return nil, false, err
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, false, err
	}
	return variant, true, nil
}
