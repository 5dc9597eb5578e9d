package repositories

import (
	"context"

	"fleetops/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db}
}

// ListByTrip returns the trip's events in chronological order. Ties on the
// timestamp keep insertion order.
func (r *EventRepository) ListByTrip(ctx context.Context, tripID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("at asc").
		Order("id asc").
		Find(&events).Error
	return events, err
}

// ListRecent returns the newest events first, each with its trip.
func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Preload("Trip").
		Order("at desc").
		Order("id desc").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}
