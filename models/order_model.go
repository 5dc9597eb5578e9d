package models

import (
	"time"

	"fleetops/controllers/idgen"
	"fleetops/types"

	"gorm.io/gorm"
)

const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"

	OrderSourceManual = "manual"
	OrderSourceOCR    = "ocr"
)

// Order is a customer load request. Windows are optional; a nil start means the
// leg is unscheduled.
type Order struct {
	gorm.Model
	RefNo         types.SnowflakeID `json:"ref_no" gorm:"uniqueIndex"`
	Status        string            `json:"status" gorm:"size:20;not null;index"`
	Source        string            `json:"source" gorm:"size:20;not null"`
	Customer      string            `json:"customer" gorm:"size:160"`
	Origin        string            `json:"origin" gorm:"size:255"`
	Destination   string            `json:"destination" gorm:"size:255"`
	PickupStart   *time.Time        `json:"pickup_start"`
	PickupEnd     *time.Time        `json:"pickup_end"`
	DeliveryStart *time.Time        `json:"delivery_start"`
	DeliveryEnd   *time.Time        `json:"delivery_end"`
	TruckType     *string           `json:"truck_type" gorm:"size:40"`
	Reference     *string           `json:"reference" gorm:"size:80;index"`
	Notes         *string           `json:"notes" gorm:"type:text"`
	OcrScanID     *uint             `json:"ocr_scan_id" gorm:"index"`
	CreatedBy     int
	UpdatedBy     int
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.RefNo.IsZero() {
		o.RefNo = idgen.GenerateID()
	}
	return
}
