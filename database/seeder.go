package database

import (
	"errors"

	"fleetops/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders inserts reference data that the API expects to exist. Every seeder
// is idempotent.
func RunSeeders(db *gorm.DB, log *zap.Logger, adminUsername, adminPassword string) error {
	if err := SeedRates(db, log); err != nil {
		return err
	}
	if adminUsername != "" && adminPassword != "" {
		if err := SeedAdminUser(db, log, adminUsername, adminPassword); err != nil {
			return err
		}
	}
	return nil
}

func SeedRates(db *gorm.DB, log *zap.Logger) error {
	rates := []models.Rate{
		{
			Type:       "dry_van",
			FixedCPM:   decimal.RequireFromString("0.45"),
			WageCPM:    decimal.RequireFromString("0.62"),
			AddOnsCPM:  decimal.RequireFromString("0.08"),
			RollingCPM: decimal.RequireFromString("0.51"),
		},
		{
			Type:       "reefer",
			FixedCPM:   decimal.RequireFromString("0.52"),
			WageCPM:    decimal.RequireFromString("0.65"),
			AddOnsCPM:  decimal.RequireFromString("0.15"),
			RollingCPM: decimal.RequireFromString("0.58"),
		},
		{
			Type:       "flatbed",
			FixedCPM:   decimal.RequireFromString("0.50"),
			WageCPM:    decimal.RequireFromString("0.68"),
			AddOnsCPM:  decimal.RequireFromString("0.12"),
			RollingCPM: decimal.RequireFromString("0.55"),
		},
	}

	for _, r := range rates {
		var existing models.Rate
		err := db.Where("type = ? AND zone IS NULL", r.Type).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&r).Error; err != nil {
				return err
			}
			log.Info("Seeded rate", zap.String("type", r.Type))
		} else if err != nil {
			return err
		}
	}
	return nil
}

func SeedAdminUser(db *gorm.DB, log *zap.Logger, username, password string) error {
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{Username: username, Password: string(hash), Name: "Administrator", Active: true}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Info("Seeded admin user", zap.String("username", username))
	return nil
}
