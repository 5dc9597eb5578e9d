package controllers

import (
	"errors"
	"strings"

	"fleetops/controllers/helpers"
	"fleetops/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthController struct {
	Log     *zap.Logger
	Service *services.UserService
}

func NewAuthController(log *zap.Logger, service *services.UserService) *AuthController {
	return &AuthController{Log: log, Service: service}
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input loginInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.Username = strings.TrimSpace(input.Username)
	if details := helpers.Validate(input); details != nil {
		return helpers.ValidationFailed(ctx, details)
	}

	token, user, err := c.Service.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Log.Info("Login rejected", zap.String("username", input.Username))
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return helpers.ServerError(ctx, c.Log, "Login failed", err)
	}

	return ctx.JSON(fiber.Map{
		"ok":    true,
		"token": token,
		"user":  fiber.Map{"id": user.ID, "username": user.Username, "name": user.Name},
	})
}

// Health reports whether the database answers.
func Health(db *gorm.DB) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.UserContext())
		}
		if err != nil {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false, "error": err.Error()})
		}
		return ctx.JSON(fiber.Map{"ok": true})
	}
}
