package routes

import (
	"fleetops/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupTripRoutes(router fiber.Router, deps Dependencies) {
	tripController := controllers.NewTripController(deps.DB, deps.Log, deps.QRBaseURL)

	api := router.Group("/trips")
	api.Post("/", tripController.Create)
	api.Get("/:id", tripController.GetByID)
	api.Get("/:id/qrcode", tripController.QRCode)
	api.Post("/:id/recalc", tripController.Recalc)
}
