package routes

import (
	"fleetops/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(router fiber.Router, deps Dependencies) {
	eventController := controllers.NewEventController(deps.DB, deps.Log, deps.Notifier)

	api := router.Group("/events")
	api.Get("/", eventController.GetAll)
	api.Post("/", eventController.Create)
}

func SetupOcrRoutes(router fiber.Router, deps Dependencies) {
	ocrController := controllers.NewOcrController(deps.DB, deps.Log, deps.Ocr)

	router.Post("/ocr/order", ocrController.ParseOrder)
}
