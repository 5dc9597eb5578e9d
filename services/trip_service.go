package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetops/models"
	"fleetops/repositories"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var ErrTripNotFound = errors.New("trip not found")

// TripTotals is the derived state of a trip: elapsed times between lifecycle
// markers and the cost rollup. Durations are whole minutes; a nil duration means
// one of its markers is missing or the markers are out of order.
type TripTotals struct {
	TripID           uint
	StartedAt        *time.Time
	FinishedAt       *time.Time
	LoadingMinutes   *int64
	TransitMinutes   *int64
	UnloadingMinutes *int64
	TotalMinutes     *int64
	BorderCrossings  int
	EventCount       int
	Cost             CostResult
}

type TripService struct {
	trips  *repositories.TripRepository
	events *repositories.EventRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewTripService(db *gorm.DB, log *zap.Logger) *TripService {
	return &TripService{
		trips:  repositories.NewTripRepository(db),
		events: repositories.NewEventRepository(db),
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RecalcTripTotals recomputes and stores the trip's totals from its events.
// It returns ErrTripNotFound when the trip does not exist.
func (s *TripService) RecalcTripTotals(ctx context.Context, tripID uint) (*TripTotals, error) {
	trip, err := s.trips.FindWithRate(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("load trip %d: %w", tripID, err)
	}

	events, err := s.events.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load events for trip %d: %w", tripID, err)
	}

	totals := ComputeTripTotals(*trip, events)

	update := repositories.TotalsUpdate{
		"started_at":        totals.StartedAt,
		"finished_at":       totals.FinishedAt,
		"loading_minutes":   totals.LoadingMinutes,
		"transit_minutes":   totals.TransitMinutes,
		"unloading_minutes": totals.UnloadingMinutes,
		"total_minutes":     totals.TotalMinutes,
		"border_crossings":  totals.BorderCrossings,
		"event_count":       totals.EventCount,
		"total_cpm":         totals.Cost.TotalCPM,
		"total_cost":        totals.Cost.TotalCost,
		"profit":            totals.Cost.Profit,
		"margin_pct":        totals.Cost.MarginPct,
	}
	if err := s.trips.SaveTotals(ctx, tripID, update, s.now()); err != nil {
		return nil, fmt.Errorf("save totals for trip %d: %w", tripID, err)
	}

	s.log.Info("Trip totals recalculated",
		zap.Uint("trip_id", tripID),
		zap.Int("event_count", totals.EventCount),
		zap.String("total_cost", totals.Cost.TotalCost.StringFixed(2)),
	)
	return &totals, nil
}

// ComputeTripTotals is the pure part of the recalculation. Events may arrive in
// any order; they are sorted by time (stable, so equal timestamps keep their
// given order) and the first occurrence of each lifecycle type wins.
func ComputeTripTotals(trip models.Trip, events []models.Event) TripTotals {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b models.Event) int {
		return a.At.Compare(b.At)
	})

	first := make(map[string]time.Time)
	crossings := 0
	for _, e := range sorted {
		if e.Type == models.EventCrossedBorder {
			crossings++
		}
		if _, seen := first[e.Type]; !seen {
			first[e.Type] = e.At
		}
	}

	totals := TripTotals{
		TripID:          trip.ID,
		BorderCrossings: crossings,
		EventCount:      len(sorted),
		Cost:            CalcCost(CostInputFromRate(trip.Rate, trip.Miles, trip.Revenue)),
	}

	marker := func(eventType string) *time.Time {
		if at, ok := first[eventType]; ok {
			at = at.UTC()
			return &at
		}
		return nil
	}

	totals.StartedAt = marker(models.EventTripStarted)
	totals.FinishedAt = marker(models.EventFinishedDelivery)
	totals.LoadingMinutes = minutesBetween(marker(models.EventArrivedPickup), marker(models.EventLeftPickup))
	totals.TransitMinutes = minutesBetween(marker(models.EventLeftPickup), marker(models.EventArrivedDelivery))
	totals.UnloadingMinutes = minutesBetween(marker(models.EventArrivedDelivery), marker(models.EventFinishedDelivery))

	if len(sorted) > 0 {
		start := totals.StartedAt
		if start == nil {
			at := sorted[0].At.UTC()
			start = &at
		}
		end := totals.FinishedAt
		if end == nil {
			at := sorted[len(sorted)-1].At.UTC()
			end = &at
		}
		totals.TotalMinutes = minutesBetween(start, end)
	}

	return totals
}

func minutesBetween(from, to *time.Time) *int64 {
	if from == nil || to == nil || to.Before(*from) {
		return nil
	}
	m := int64(to.Sub(*from) / time.Minute)
	return &m
}
