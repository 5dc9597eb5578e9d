package models

import (
	"time"

	"gorm.io/gorm"
)

// FileLog records inbox files the batch processor has already handled.
type FileLog struct {
	gorm.Model
	Filename     string `gorm:"size:255;uniqueIndex;not null"`
	DateModified time.Time
	OcrScanID    *uint
}
