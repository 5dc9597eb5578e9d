package controllers

import (
	"errors"
	"strings"

	"fleetops/controllers/helpers"
	"fleetops/dto"
	"fleetops/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DriverController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewDriverController(db *gorm.DB, log *zap.Logger) *DriverController {
	return &DriverController{DB: db, Log: log}
}

type driverInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	HomeBase *string `json:"homeBase" validate:"omitempty,max=120"`
	Active   *bool   `json:"active"`
}

func (in *driverInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.HomeBase = trimOptional(in.HomeBase)
}

func (c *DriverController) Create(ctx *fiber.Ctx) error {
	var input driverInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.normalize()
	if details := helpers.Validate(input); details != nil {
		return helpers.ValidationFailed(ctx, details)
	}

	driver := models.Driver{
		Name:      input.Name,
		HomeBase:  input.HomeBase,
		Active:    activeOrDefault(input.Active, true),
		CreatedBy: helpers.CurrentUserID(ctx),
	}
	if err := c.DB.WithContext(ctx.UserContext()).Create(&driver).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to create driver", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "driver": dto.DriverDTO(driver)})
}

func (c *DriverController) Update(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	var input driverInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.normalize()
	if details := helpers.Validate(input); details != nil {
		return helpers.ValidationFailed(ctx, details)
	}

	db := c.DB.WithContext(ctx.UserContext())
	var driver models.Driver
	if err := db.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NotFound(ctx, "Driver")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to load driver", err)
	}

	err := db.Model(&driver).Updates(map[string]interface{}{
		"name":       input.Name,
		"home_base":  input.HomeBase,
		"active":     activeOrDefault(input.Active, driver.Active),
		"updated_by": helpers.CurrentUserID(ctx),
	}).Error
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to update driver", err)
	}

	return ctx.JSON(fiber.Map{"ok": true})
}

func (c *DriverController) GetAll(ctx *fiber.Ctx) error {
	var drivers []models.Driver
	query := c.DB.WithContext(ctx.UserContext()).Order("name asc")
	if active := ctx.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if err := query.Find(&drivers).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to list drivers", err)
	}

	out := make([]dto.Object, len(drivers))
	for i, d := range drivers {
		out[i] = dto.DriverDTO(d)
	}
	return ctx.JSON(fiber.Map{"ok": true, "drivers": out})
}

func (c *DriverController) GetByID(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	var driver models.Driver
	if err := c.DB.WithContext(ctx.UserContext()).First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NotFound(ctx, "Driver")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to load driver", err)
	}
	return ctx.JSON(fiber.Map{"ok": true, "driver": dto.DriverDTO(driver)})
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func activeOrDefault(active *bool, fallback bool) bool {
	if active == nil {
		return fallback
	}
	return *active
}
