package fulfillment

import (
	"time"

	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PackageStatus represents the shipping state of a package
type PackageStatus string

const (
	PackageStatusPacked  PackageStatus = "packed"
	PackageStatusScanned PackageStatus = "scanned"
	PackageStatusShipped PackageStatus = "shipped"
)

// Package is a shippable parcel identified by its scan code (the barcode on
// the shipping label). Unique per (company, scan code); the importer only
// ever creates packages, the scanner UI owns status and last_scanned_at.
type Package struct {
	shared.BaseEntity
	CompanyID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_packages_natural,priority:1" json:"company_id"`
	OrderID       *uuid.UUID    `gorm:"type:uuid;index" json:"order_id,omitempty"`
	PackageNumber int           `gorm:"not null;default:1" json:"package_number"`
	ScanCode      string        `gorm:"type:varchar(100);not null;uniqueIndex:idx_packages_natural,priority:2" json:"scan_code"`
	TrackingCode  string        `gorm:"type:varchar(100)" json:"tracking_code"`
	Status        PackageStatus `gorm:"type:varchar(20);not null;default:'packed'" json:"status"`
	LastScannedAt *time.Time    `gorm:"type:timestamptz" json:"last_scanned_at,omitempty"`
}

// TableName returns the table name for GORM
func (Package) TableName() string {
	return "packages"
}

// NewPackage creates a packed package bound to an order
func NewPackage(companyID uuid.UUID, orderID *uuid.UUID, scanCode, trackingCode string) *Package {
	return &Package{
		BaseEntity:    shared.NewBaseEntity(),
		CompanyID:     companyID,
		OrderID:       orderID,
		PackageNumber: 1,
		ScanCode:      scanCode,
		TrackingCode:  trackingCode,
		Status:        PackageStatusPacked,
	}
}

// PackageItem mirrors an order item into a package: same variant, same qty.
// Unique per (package, variant).
type PackageItem struct {
	shared.BaseEntity
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	PackageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_package_items_natural,priority:1" json:"package_id"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_package_items_natural,priority:2" json:"variant_id"`
	Qty       int       `gorm:"not null;default:1" json:"qty"`
}

// TableName returns the table name for GORM
func (PackageItem) TableName() string {
	return "package_items"
}
