package routes

import (
	"fleetops/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupOrderRoutes(router fiber.Router, deps Dependencies) {
	orderController := controllers.NewOrderController(deps.DB, deps.Log)

	api := router.Group("/orders")
	api.Post("/", orderController.Create)
	api.Get("/", orderController.GetAll)
	api.Get("/export", orderController.Export)
	api.Get("/:id", orderController.GetByID)
}
