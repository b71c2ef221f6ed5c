package bulk

import (
	"github.com/bipcerto/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StagingRow is one normalized CSV data row parked between the Start phase
// and the batch processor. Rows are created once (insert-or-ignore keyed by
// job_id + line_hash), flipped to processed exactly once, and never deleted,
// so a crashed or re-run Start phase cannot duplicate work.
type StagingRow struct {
	shared.BaseEntity
	JobID           uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_staging_job_hash,priority:1;index:idx_staging_job_processed,priority:1" json:"job_id"`
	CompanyID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"company_id"`
	RowNumber       int         `gorm:"not null;default:0" json:"row_number"`
	Marketplace     Marketplace `gorm:"type:varchar(20);not null" json:"marketplace"`
	ExternalOrderID string      `gorm:"type:varchar(100)" json:"external_order_id"`
	TrackingCode    string      `gorm:"type:varchar(100)" json:"tracking_code"`
	ItemName        string      `gorm:"type:varchar(300)" json:"item_name"`
	Variation       string      `gorm:"type:varchar(200)" json:"variation"`
	SKU             string      `gorm:"type:varchar(100)" json:"sku"`
	Qty             int         `gorm:"not null;default:1" json:"qty"`
	BuyerName       string      `gorm:"type:varchar(200)" json:"buyer_name"`
	Address         string      `gorm:"type:text" json:"address"`
	RawData         string      `gorm:"type:jsonb" json:"raw_data"`
	LineHash        string      `gorm:"type:varchar(64);not null;uniqueIndex:idx_staging_job_hash,priority:2" json:"line_hash"`
	Processed       bool        `gorm:"not null;default:false;index:idx_staging_job_processed,priority:2" json:"processed"`
}

// TableName returns the table name for GORM
func (StagingRow) TableName() string {
	return "marketplace_order_lines_staging"
}
