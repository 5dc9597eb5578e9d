package routes

import (
	"fleetops/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router, deps Dependencies) {
	authController := controllers.NewAuthController(deps.Log, deps.Users)

	api := router.Group("/auth")
	api.Post("/login", authController.Login)
}
