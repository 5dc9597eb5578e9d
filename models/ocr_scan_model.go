package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OcrScan keeps what the recognizer saw for every uploaded document so a draft
// order can be traced back to its source text.
type OcrScan struct {
	gorm.Model
	Filename   string         `json:"filename" gorm:"size:255"`
	SHA256     string         `json:"sha256" gorm:"size:64;index"`
	Engine     string         `json:"engine" gorm:"size:40"`
	Confidence float64        `json:"confidence"`
	Text       string         `json:"text" gorm:"type:text"`
	Parsed     datatypes.JSON `json:"parsed"`
	CreatedBy  int
}
