package migration

import (
	"fleetops/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.Unit{},
		&models.Rate{},
		&models.OcrScan{},
		&models.Order{},
		&models.Trip{},
		&models.Event{},
		&models.FileLog{},
	)
}
