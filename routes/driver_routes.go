package routes

import (
	"fleetops/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupDriverRoutes(router fiber.Router, deps Dependencies) {
	driverController := controllers.NewDriverController(deps.DB, deps.Log)

	api := router.Group("/drivers")
	api.Post("/", driverController.Create)
	api.Get("/", driverController.GetAll)
	api.Get("/:id", driverController.GetByID)
	api.Put("/:id", driverController.Update)
}
