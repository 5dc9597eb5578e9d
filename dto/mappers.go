package dto

import (
	"time"

	"fleetops/models"
	"fleetops/services"
)

func strip(record any) Object {
	if obj, ok := StripDecimalsDeep(record).(Object); ok {
		return obj
	}
	return Object{}
}

// pick copies src[from] into the result under to; absent keys become null.
func pick(src Object, pairs ...string) Object {
	out := make(Object, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Field{Key: pairs[i+1], Value: src.Value(pairs[i])})
	}
	return out
}

func DriverDTO(d models.Driver) Object {
	return pick(strip(d),
		"ID", "id",
		"name", "name",
		"home_base", "homeBase",
		"active", "active",
		"CreatedAt", "createdAt",
		"UpdatedAt", "updatedAt",
	)
}

func UnitDTO(u models.Unit) Object {
	return pick(strip(u),
		"ID", "id",
		"code", "code",
		"type", "type",
		"home_base", "homeBase",
		"active", "active",
		"CreatedAt", "createdAt",
		"UpdatedAt", "updatedAt",
	)
}

func RateDTO(r models.Rate) Object {
	return pick(strip(r),
		"ID", "id",
		"type", "type",
		"zone", "zone",
		"fixed_cpm", "fixedCPM",
		"wage_cpm", "wageCPM",
		"add_ons_cpm", "addOnsCPM",
		"rolling_cpm", "rollingCPM",
		"CreatedAt", "createdAt",
	)
}

func OrderDTO(o models.Order) Object {
	return pick(strip(o),
		"ID", "id",
		"ref_no", "refNo",
		"status", "status",
		"source", "source",
		"customer", "customer",
		"origin", "origin",
		"destination", "destination",
		"pickup_start", "pickupStart",
		"pickup_end", "pickupEnd",
		"delivery_start", "deliveryStart",
		"delivery_end", "deliveryEnd",
		"truck_type", "truckType",
		"reference", "reference",
		"notes", "notes",
		"ocr_scan_id", "ocrScanId",
		"CreatedAt", "createdAt",
	)
}

// TripDTO includes the persisted totals but not the trip's events.
func TripDTO(t models.Trip) Object {
	t.Events = nil
	out := pick(strip(t),
		"ID", "id",
		"ref_no", "refNo",
		"order_id", "orderId",
		"unit_id", "unitId",
		"driver_id", "driverId",
		"rate_id", "rateId",
		"miles", "miles",
		"revenue", "revenue",
		"started_at", "startedAt",
		"finished_at", "finishedAt",
		"loading_minutes", "loadingMinutes",
		"transit_minutes", "transitMinutes",
		"unloading_minutes", "unloadingMinutes",
		"total_minutes", "totalMinutes",
		"border_crossings", "borderCrossings",
		"event_count", "eventCount",
		"total_cpm", "totalCPM",
		"total_cost", "totalCost",
		"profit", "profit",
		"margin_pct", "marginPct",
		"recalculated_at", "recalculatedAt",
		"CreatedAt", "createdAt",
	)
	if t.Order != nil {
		out = append(out, Field{Key: "order", Value: OrderDTO(*t.Order)})
	}
	if t.Unit != nil {
		out = append(out, Field{Key: "unit", Value: UnitDTO(*t.Unit)})
	}
	if t.Driver != nil {
		out = append(out, Field{Key: "driver", Value: DriverDTO(*t.Driver)})
	}
	if t.Rate != nil {
		out = append(out, Field{Key: "rate", Value: RateDTO(*t.Rate)})
	}
	return out
}

func EventDTO(e models.Event) Object {
	var trip any
	if e.Trip != nil {
		trip = TripDTO(*e.Trip)
	}
	e.Trip = nil
	out := pick(strip(e),
		"ID", "id",
		"trip_id", "tripId",
		"type", "type",
		"at", "at",
		"location", "location",
		"notes", "notes",
		"CreatedAt", "createdAt",
	)
	return append(out, Field{Key: "trip", Value: trip})
}

func CostDTO(c services.CostResult) Object {
	return Object{
		{Key: "totalCPM", Value: ToNum(c.TotalCPM)},
		{Key: "totalCost", Value: ToNum(c.TotalCost)},
		{Key: "profit", Value: ToNum(c.Profit)},
		{Key: "marginPct", Value: ToNum(c.MarginPct)},
	}
}

func TotalsDTO(t services.TripTotals) Object {
	return append(strip(struct {
		TripID           uint       `json:"tripId"`
		StartedAt        *time.Time `json:"startedAt"`
		FinishedAt       *time.Time `json:"finishedAt"`
		LoadingMinutes   *int64     `json:"loadingMinutes"`
		TransitMinutes   *int64     `json:"transitMinutes"`
		UnloadingMinutes *int64     `json:"unloadingMinutes"`
		TotalMinutes     *int64     `json:"totalMinutes"`
		BorderCrossings  int        `json:"borderCrossings"`
		EventCount       int        `json:"eventCount"`
	}{
		TripID:           t.TripID,
		StartedAt:        t.StartedAt,
		FinishedAt:       t.FinishedAt,
		LoadingMinutes:   t.LoadingMinutes,
		TransitMinutes:   t.TransitMinutes,
		UnloadingMinutes: t.UnloadingMinutes,
		TotalMinutes:     t.TotalMinutes,
		BorderCrossings:  t.BorderCrossings,
		EventCount:       t.EventCount,
	}), CostDTO(t.Cost)...)
}
