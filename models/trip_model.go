package models

import (
	"time"

	"fleetops/controllers/idgen"
	"fleetops/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trip is one movement of a unit for an order. The totals block is derived from
// the trip's events and rate and is rewritten by every recalculation.
type Trip struct {
	gorm.Model
	RefNo    types.SnowflakeID `json:"ref_no" gorm:"uniqueIndex"`
	OrderID  *uint             `json:"order_id" gorm:"index"`
	Order    *Order            `json:"order,omitempty"`
	UnitID   *uint             `json:"unit_id" gorm:"index"`
	Unit     *Unit             `json:"unit,omitempty"`
	DriverID *uint             `json:"driver_id" gorm:"index"`
	Driver   *Driver           `json:"driver,omitempty"`
	RateID   *uint             `json:"rate_id"`
	Rate     *Rate             `json:"rate,omitempty"`
	Miles    decimal.Decimal   `json:"miles" gorm:"type:decimal(12,2);not null"`
	Revenue  decimal.Decimal   `json:"revenue" gorm:"type:decimal(12,2);not null"`
	Events   []Event           `json:"events,omitempty" gorm:"foreignKey:TripID"`

	StartedAt        *time.Time          `json:"started_at"`
	FinishedAt       *time.Time          `json:"finished_at"`
	LoadingMinutes   *int64              `json:"loading_minutes"`
	TransitMinutes   *int64              `json:"transit_minutes"`
	UnloadingMinutes *int64              `json:"unloading_minutes"`
	TotalMinutes     *int64              `json:"total_minutes"`
	BorderCrossings  int                 `json:"border_crossings" gorm:"not null"`
	EventCount       int                 `json:"event_count" gorm:"not null"`
	TotalCPM         decimal.Decimal     `json:"total_cpm" gorm:"type:decimal(12,4);not null"`
	TotalCost        decimal.Decimal     `json:"total_cost" gorm:"type:decimal(12,2);not null"`
	Profit           decimal.Decimal     `json:"profit" gorm:"type:decimal(12,2);not null"`
	MarginPct        decimal.NullDecimal `json:"margin_pct" gorm:"type:decimal(12,6)"`
	RecalculatedAt   *time.Time          `json:"recalculated_at"`

	CreatedBy int
	UpdatedBy int
}

func (t *Trip) BeforeCreate(tx *gorm.DB) (err error) {
	if t.RefNo.IsZero() {
		t.RefNo = idgen.GenerateID()
	}
	return
}
