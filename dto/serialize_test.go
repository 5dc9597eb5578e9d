package dto

import (
	"encoding/json"
	"testing"
	"time"

	"fleetops/models"
	"fleetops/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestToNum(t *testing.T) {
	d := decimal.RequireFromString("12.3456")
	var nilDec *decimal.Decimal

	assert.Nil(t, ToNum(nil))
	assert.Nil(t, ToNum(nilDec))
	assert.Nil(t, ToNum(decimal.NullDecimal{}))
	assert.Nil(t, ToNum("12"))

	require.NotNil(t, ToNum(d))
	assert.Equal(t, 12.3456, *ToNum(d))
	assert.Equal(t, 12.3456, *ToNum(&d))
	assert.Equal(t, 7.0, *ToNum(7))
	assert.Equal(t, 0.5, *ToNum(json.Number("0.5")))
}

func TestStripDecimalsDeep_NestedValues(t *testing.T) {
	at := time.Date(2024, 3, 5, 8, 0, 0, 0, time.FixedZone("CST", -6*3600))
	in := map[string]any{
		"cpm":   decimal.RequireFromString("1.25"),
		"at":    at,
		"list":  []any{decimal.RequireFromString("2"), "x", nil},
		"inner": Object{{Key: "b", Value: decimal.RequireFromString("3.5")}, {Key: "a", Value: &at}},
	}

	out := StripDecimalsDeep(in).(map[string]any)
	assert.Equal(t, 1.25, out["cpm"])
	assert.Equal(t, "2024-03-05T14:00:00.000Z", out["at"])
	assert.Equal(t, []any{2.0, "x", nil}, out["list"])

	inner := out["inner"].(Object)
	assert.Equal(t, []string{"b", "a"}, inner.Keys())
	assert.Equal(t, 3.5, inner.Value("b"))
	assert.Equal(t, "2024-03-05T14:00:00.000Z", inner.Value("a"))
}

func TestStripDecimalsDeep_DoesNotMutateInput(t *testing.T) {
	d := decimal.RequireFromString("9.99")
	in := map[string]any{"price": d, "items": []any{d}}

	StripDecimalsDeep(in)

	assert.Equal(t, d, in["price"])
	assert.Equal(t, d, in["items"].([]any)[0])
}

func TestStripDecimalsDeep_Idempotent(t *testing.T) {
	rate := models.Rate{Type: "reefer", FixedCPM: decimal.RequireFromString("0.52")}
	rate.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.UTC)

	once := StripDecimalsDeep(rate)
	twice := StripDecimalsDeep(once)
	assert.Equal(t, once, twice)

	a, err := json.Marshal(once)
	require.NoError(t, err)
	b, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestStripDecimalsDeep_StructUsesJSONNamesAndFlattensEmbedded(t *testing.T) {
	zone := "TX"
	rate := models.Rate{Type: "dry_van", Zone: &zone, WageCPM: decimal.RequireFromString("0.62")}
	rate.ID = 4

	out := StripDecimalsDeep(rate).(Object)
	assert.Equal(t, uint(4), out.Value("ID"))
	assert.Equal(t, "dry_van", out.Value("type"))
	assert.Equal(t, "TX", out.Value("zone"))
	assert.Equal(t, 0.62, out.Value("wage_cpm"))
	assert.Nil(t, out.Value("DeletedAt"))
}

func TestObjectMarshalKeepsOrder(t *testing.T) {
	o := Object{{Key: "z", Value: 1}, {Key: "a", Value: nil}, {Key: "m", Value: Object{{Key: "y", Value: true}}}}
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":null,"m":{"y":true}}`, string(b))

	b, err = json.Marshal(Object(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDriverDTO(t *testing.T) {
	d := models.Driver{Name: "Ana", Active: true}
	d.ID = 3
	d.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	out := DriverDTO(d)
	assert.Equal(t, []string{"id", "name", "homeBase", "active", "createdAt", "updatedAt"}, out.Keys())
	assert.Nil(t, out.Value("homeBase"))
	assert.Equal(t, "2024-05-01T12:00:00.000Z", out.Value("createdAt"))
}

func TestEventDTO_IncludesTripWithoutEvents(t *testing.T) {
	trip := models.Trip{Miles: decimal.RequireFromString("10.5")}
	trip.ID = 8
	trip.Events = []models.Event{{Type: models.EventTripStarted}}
	e := models.Event{TripID: 8, Type: models.EventTripStarted, Trip: &trip}
	e.Model = gorm.Model{ID: 1}

	out := EventDTO(e)
	assert.Equal(t, "trip", out.Keys()[len(out)-1])
	tripOut := out.Value("trip").(Object)
	assert.Equal(t, 10.5, tripOut.Value("miles"))
	_, hasEvents := tripOut.Get("events")
	assert.False(t, hasEvents)
	assert.NotNil(t, e.Trip.Events)
}

func TestTotalsDTO(t *testing.T) {
	started := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	minutes := int64(90)
	totals := services.TripTotals{
		TripID:         2,
		StartedAt:      &started,
		LoadingMinutes: &minutes,
		EventCount:     3,
		Cost: services.CalcCost(services.CostInput{
			Miles:    decimal.RequireFromString("100"),
			FixedCPM: decimal.RequireFromString("1.5"),
		}),
	}

	b, err := json.Marshal(TotalsDTO(totals))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tripId": 2,
		"startedAt": "2024-03-05T08:00:00.000Z",
		"finishedAt": null,
		"loadingMinutes": 90,
		"transitMinutes": null,
		"unloadingMinutes": null,
		"totalMinutes": null,
		"borderCrossings": 0,
		"eventCount": 3,
		"totalCPM": 1.5,
		"totalCost": 150,
		"profit": -150,
		"marginPct": null
	}`, string(b))
}
