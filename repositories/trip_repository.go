package repositories

import (
	"context"
	"time"

	"fleetops/models"

	"gorm.io/gorm"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db}
}

// FindWithRate loads the trip and its rate. It returns gorm.ErrRecordNotFound
// when the trip does not exist.
func (r *TripRepository) FindWithRate(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).Preload("Rate").First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// FindDetailed loads the trip with every referenced record.
func (r *TripRepository) FindDetailed(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Unit").
		Preload("Driver").
		Preload("Rate").
		First(&trip, id).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *TripRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Trip{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TotalsUpdate is the column set written by a recalculation.
type TotalsUpdate map[string]interface{}

func (r *TripRepository) SaveTotals(ctx context.Context, id uint, totals TotalsUpdate, at time.Time) error {
	totals["recalculated_at"] = at
	return r.db.WithContext(ctx).Model(&models.Trip{}).Where("id = ?", id).Updates(map[string]interface{}(totals)).Error
}
