package controllers

import (
	"errors"

	"fleetops/controllers/helpers"
	"fleetops/dto"
	"fleetops/models"
	"fleetops/repositories"
	"fleetops/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TripController struct {
	DB        *gorm.DB
	Log       *zap.Logger
	Service   *services.TripService
	QRBaseURL string
}

func NewTripController(db *gorm.DB, log *zap.Logger, qrBaseURL string) *TripController {
	return &TripController{
		DB:        db,
		Log:       log,
		Service:   services.NewTripService(db, log),
		QRBaseURL: qrBaseURL,
	}
}

type tripInput struct {
	OrderID  *uint            `json:"orderId"`
	UnitID   *uint            `json:"unitId"`
	DriverID *uint            `json:"driverId"`
	RateID   *uint            `json:"rateId"`
	Miles    *decimal.Decimal `json:"miles"`
	Revenue  *decimal.Decimal `json:"revenue"`
}

func (c *TripController) Create(ctx *fiber.Ctx) error {
	var input tripInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}

	details := helpers.NewValidationDetails()
	trip := models.Trip{
		OrderID:   input.OrderID,
		UnitID:    input.UnitID,
		DriverID:  input.DriverID,
		RateID:    input.RateID,
		Miles:     amount(details, "miles", input.Miles),
		Revenue:   amount(details, "revenue", input.Revenue),
		CreatedBy: helpers.CurrentUserID(ctx),
	}

	db := c.DB.WithContext(ctx.UserContext())
	refs := []struct {
		field string
		id    *uint
		model interface{}
	}{
		{"orderId", input.OrderID, &models.Order{}},
		{"unitId", input.UnitID, &models.Unit{}},
		{"driverId", input.DriverID, &models.Driver{}},
		{"rateId", input.RateID, &models.Rate{}},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		var count int64
		if err := db.Model(ref.model).Where("id = ?", *ref.id).Count(&count).Error; err != nil {
			return helpers.ServerError(ctx, c.Log, "Failed to check trip references", err)
		}
		if count == 0 {
			details.AddField(ref.field, "Does not exist")
		}
	}
	if !details.Empty() {
		return helpers.ValidationFailed(ctx, details)
	}

	if err := db.Create(&trip).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to create trip", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "trip": dto.TripDTO(trip)})
}

func (c *TripController) GetByID(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	trip, err := repositories.NewTripRepository(c.DB).FindDetailed(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NotFound(ctx, "Trip")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to load trip", err)
	}
	return ctx.JSON(fiber.Map{"ok": true, "trip": dto.TripDTO(*trip)})
}

// Recalc recomputes and stores the trip's totals and returns them.
func (c *TripController) Recalc(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	totals, err := c.Service.RecalcTripTotals(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			return helpers.NotFound(ctx, "Trip")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to recalculate trip", err)
	}

	out := dto.Object{{Key: "ok", Value: true}}
	return ctx.JSON(append(out, dto.TotalsDTO(*totals)...))
}

// QRCode renders the trip's reference as a PNG for the driver's paperwork.
func (c *TripController) QRCode(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	var trip models.Trip
	if err := c.DB.WithContext(ctx.UserContext()).Select("id", "ref_no").First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NotFound(ctx, "Trip")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to load trip", err)
	}

	png, err := qrcode.Encode(c.QRBaseURL+trip.RefNo.String(), qrcode.Medium, 256)
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to render QR code", err)
	}
	ctx.Set(fiber.HeaderContentType, "image/png")
	return ctx.Send(png)
}
