package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip lifecycle markers. The event type column is an open set; these are the
// ones the totals recalculation understands.
const (
	EventTripStarted      = "trip_started"
	EventArrivedPickup    = "arrived_pickup"
	EventLeftPickup       = "left_pickup"
	EventCrossedBorder    = "crossed_border"
	EventArrivedDelivery  = "arrived_delivery"
	EventFinishedDelivery = "finished_delivery"
)

var KnownEventTypes = []string{
	EventTripStarted,
	EventArrivedPickup,
	EventLeftPickup,
	EventCrossedBorder,
	EventArrivedDelivery,
	EventFinishedDelivery,
}

func IsKnownEventType(t string) bool {
	for _, known := range KnownEventTypes {
		if known == t {
			return true
		}
	}
	return false
}

type Event struct {
	gorm.Model
	TripID    uint      `json:"trip_id" gorm:"not null;index"`
	Trip      *Trip     `json:"trip,omitempty"`
	Type      string    `json:"type" gorm:"size:64;not null"`
	At        time.Time `json:"at" gorm:"not null;index"`
	Location  *string   `json:"location" gorm:"size:255"`
	Notes     *string   `json:"notes" gorm:"type:text"`
	CreatedBy int
}
