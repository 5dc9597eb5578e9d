package controllers

import (
	"errors"
	"strings"

	"fleetops/controllers/helpers"
	"fleetops/dto"
	"fleetops/models"
	"fleetops/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RateController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewRateController(db *gorm.DB, log *zap.Logger) *RateController {
	return &RateController{DB: db, Log: log}
}

type rateInput struct {
	Type       string           `json:"type" validate:"required,max=40"`
	Zone       *string          `json:"zone" validate:"omitempty,max=40"`
	FixedCPM   *decimal.Decimal `json:"fixedCPM"`
	WageCPM    *decimal.Decimal `json:"wageCPM"`
	AddOnsCPM  *decimal.Decimal `json:"addOnsCPM"`
	RollingCPM *decimal.Decimal `json:"rollingCPM"`
}

type quoteInput struct {
	RateID     *uint            `json:"rateId"`
	Miles      *decimal.Decimal `json:"miles"`
	FixedCPM   *decimal.Decimal `json:"fixedCPM"`
	WageCPM    *decimal.Decimal `json:"wageCPM"`
	AddOnsCPM  *decimal.Decimal `json:"addOnsCPM"`
	RollingCPM *decimal.Decimal `json:"rollingCPM"`
	Revenue    *decimal.Decimal `json:"revenue"`
}

// amount reads an optional non-negative decimal; absent means zero.
func amount(details *helpers.ValidationDetails, field string, v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	if v.IsNegative() {
		details.AddField(field, "Must be greater than or equal to 0")
	}
	return *v
}

func (c *RateController) Create(ctx *fiber.Ctx) error {
	var input rateInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.Type = strings.TrimSpace(input.Type)
	input.Zone = trimOptional(input.Zone)

	details := helpers.Validate(input)
	if details == nil {
		details = helpers.NewValidationDetails()
	}
	rate := models.Rate{
		Type:       input.Type,
		Zone:       input.Zone,
		FixedCPM:   amount(details, "fixedCPM", input.FixedCPM),
		WageCPM:    amount(details, "wageCPM", input.WageCPM),
		AddOnsCPM:  amount(details, "addOnsCPM", input.AddOnsCPM),
		RollingCPM: amount(details, "rollingCPM", input.RollingCPM),
		CreatedBy:  helpers.CurrentUserID(ctx),
	}
	if !details.Empty() {
		return helpers.ValidationFailed(ctx, details)
	}

	if err := c.DB.WithContext(ctx.UserContext()).Create(&rate).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to create rate", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "rate": dto.RateDTO(rate)})
}

func (c *RateController) GetAll(ctx *fiber.Ctx) error {
	var rates []models.Rate
	query := c.DB.WithContext(ctx.UserContext()).Order("type asc").Order("id asc")
	if rateType := ctx.Query("type"); rateType != "" {
		query = query.Where("type = ?", rateType)
	}
	if err := query.Find(&rates).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to list rates", err)
	}
	out := make([]dto.Object, len(rates))
	for i, r := range rates {
		out[i] = dto.RateDTO(r)
	}
	return ctx.JSON(fiber.Map{"ok": true, "rates": out})
}

func (c *RateController) GetByID(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	var rate models.Rate
	if err := c.DB.WithContext(ctx.UserContext()).First(&rate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NotFound(ctx, "Rate")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to load rate", err)
	}
	return ctx.JSON(fiber.Map{"ok": true, "rate": dto.RateDTO(rate)})
}

// Quote prices a run without storing anything. With rateId the stored
// components are used and inline components are ignored.
func (c *RateController) Quote(ctx *fiber.Ctx) error {
	var input quoteInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}

	details := helpers.NewValidationDetails()
	if input.Miles == nil {
		details.AddField("miles", "Required")
	}
	costIn := services.CostInput{
		Miles:      amount(details, "miles", input.Miles),
		FixedCPM:   amount(details, "fixedCPM", input.FixedCPM),
		WageCPM:    amount(details, "wageCPM", input.WageCPM),
		AddOnsCPM:  amount(details, "addOnsCPM", input.AddOnsCPM),
		RollingCPM: amount(details, "rollingCPM", input.RollingCPM),
	}
	if input.Revenue != nil {
		costIn.Revenue = *input.Revenue
	}
	if !details.Empty() {
		return helpers.ValidationFailed(ctx, details)
	}

	if input.RateID != nil {
		var rate models.Rate
		if err := c.DB.WithContext(ctx.UserContext()).First(&rate, *input.RateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NotFound(ctx, "Rate")
			}
			return helpers.ServerError(ctx, c.Log, "Failed to load rate", err)
		}
		costIn = services.CostInputFromRate(&rate, costIn.Miles, costIn.Revenue)
	}

	out := dto.Object{{Key: "ok", Value: true}}
	return ctx.JSON(append(out, dto.CostDTO(services.CalcCost(costIn))...))
}
