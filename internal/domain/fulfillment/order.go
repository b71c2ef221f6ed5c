package fulfillment

import (
	"github.com/bipcerto/backend/internal/domain/bulk"
	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusReceived OrderStatus = "received"
	OrderStatusPacked   OrderStatus = "packed"
	OrderStatusShipped  OrderStatus = "shipped"
)

// Order is a marketplace order as seen by the warehouse.
// Identity is the natural key (company, marketplace, external order id), so
// re-importing the same export can never create a second order.
type Order struct {
	shared.BaseEntity
	CompanyID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_orders_natural,priority:1" json:"company_id"`
	Marketplace     bulk.Marketplace `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_natural,priority:2" json:"marketplace"`
	ExternalOrderID string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_natural,priority:3" json:"external_order_id"`
	CustomerName    string           `gorm:"type:varchar(200)" json:"customer_name"`
	AddressSummary  string           `gorm:"type:text" json:"address_summary"`
	Status          OrderStatus      `gorm:"type:varchar(20);not null;default:'received'" json:"status"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order in the received state
func NewOrder(companyID uuid.UUID, marketplace bulk.Marketplace, externalOrderID string) *Order {
	return &Order{
		BaseEntity:      shared.NewBaseEntity(),
		CompanyID:       companyID,
		Marketplace:     marketplace,
		ExternalOrderID: externalOrderID,
		Status:          OrderStatusReceived,
	}
}

// OrderItem links an order to a product variant with a quantity.
// Unique per (order, variant); repeated imports update qty in place.
type OrderItem struct {
	shared.BaseEntity
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_natural,priority:1" json:"order_id"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_natural,priority:2" json:"variant_id"`
	Qty       int       `gorm:"not null;default:1" json:"qty"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}
