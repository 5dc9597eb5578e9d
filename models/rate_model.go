package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rate holds the per-mile cost components used to price a trip.
type Rate struct {
	gorm.Model
	Type       string          `json:"type" gorm:"size:40;not null;index"`
	Zone       *string         `json:"zone" gorm:"size:40"`
	FixedCPM   decimal.Decimal `json:"fixed_cpm" gorm:"type:decimal(12,4);not null"`
	WageCPM    decimal.Decimal `json:"wage_cpm" gorm:"type:decimal(12,4);not null"`
	AddOnsCPM  decimal.Decimal `json:"add_ons_cpm" gorm:"type:decimal(12,4);not null"`
	RollingCPM decimal.Decimal `json:"rolling_cpm" gorm:"type:decimal(12,4);not null"`
	CreatedBy  int
	UpdatedBy  int
}
