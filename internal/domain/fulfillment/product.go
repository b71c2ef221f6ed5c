package fulfillment

import (
	"encoding/json"
	"fmt"

	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Product is a catalog entry keyed by (company, name). Marketplace exports
// carry no stable product identifier, so the display name is the natural key.
type Product struct {
	shared.BaseEntity
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_natural,priority:1" json:"company_id"`
	Name      string    `gorm:"type:varchar(300);not null;uniqueIndex:idx_products_natural,priority:2" json:"name"`
	BaseSKU   *string   `gorm:"type:varchar(100)" json:"base_sku,omitempty"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product
func NewProduct(companyID uuid.UUID, name string) *Product {
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		Name:       name,
	}
}

// ProductVariant is a sellable variation of a product. When the vendor
// supplies a SKU it is unique per company; variants without a SKU are
// resolved by (product, variant name) instead, since NULL never collides
// on the unique index.
type ProductVariant struct {
	shared.BaseEntity
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variants_company_sku,priority:1" json:"company_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantName string    `gorm:"type:varchar(200)" json:"variant_name"`
	SKU         *string   `gorm:"type:varchar(100);uniqueIndex:idx_variants_company_sku,priority:2" json:"sku,omitempty"`
	Attributes  string    `gorm:"type:jsonb;default:'{}'" json:"-"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProductVariant creates a variant for a product
func NewProductVariant(companyID, productID uuid.UUID, variantName string, sku *string) *ProductVariant {
	return &ProductVariant{
		BaseEntity:  shared.NewBaseEntity(),
		CompanyID:   companyID,
		ProductID:   productID,
		VariantName: variantName,
		SKU:         sku,
		Attributes:  "{}",
	}
}

// SetAttributes serializes the attribute map (e.g. size) onto the variant
func (v *ProductVariant) SetAttributes(attrs map[string]string) error {
	if len(attrs) == 0 {
		v.Attributes = "{}"
		return nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("failed to marshal variant attributes: %w", err)
	}
	v.Attributes = string(data)
	return nil
}

// AttributesValue parses the attribute map
func (v *ProductVariant) AttributesValue() (map[string]string, error) {
	attrs := make(map[string]string)
	if v.Attributes == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(v.Attributes), &attrs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variant attributes: %w", err)
	}
	return attrs, nil
}
