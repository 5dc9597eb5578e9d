// Package helpers holds the request/response plumbing shared by controllers.
package helpers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ValidationFailed(ctx *fiber.Ctx, details *ValidationDetails) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Validation failed",
		"details": details,
	})
}

// InvalidBody answers a body that could not be decoded at all.
func InvalidBody(ctx *fiber.Ctx, err error) error {
	details := NewValidationDetails()
	details.AddForm(err.Error())
	return ValidationFailed(ctx, details)
}

func BadRequest(ctx *fiber.Ctx, msg string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func NotFound(ctx *fiber.Ctx, what string) error {
	return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
}

func ServerError(ctx *fiber.Ctx, log *zap.Logger, msg string, err error) error {
	log.Error(msg, zap.Error(err), zap.String("path", ctx.Path()))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// CurrentUserID is the authenticated caller, or 0 when auth is disabled.
func CurrentUserID(ctx *fiber.Ctx) int {
	if id, ok := ctx.Locals("userID").(float64); ok {
		return int(id)
	}
	return 0
}

// ParamID reads a positive :id path parameter.
func ParamID(ctx *fiber.Ctx) (uint, bool) {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
