package routes

import (
	"fleetops/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupUnitRoutes(router fiber.Router, deps Dependencies) {
	unitController := controllers.NewUnitController(deps.DB, deps.Log)

	api := router.Group("/units")
	api.Post("/", unitController.Create)
	api.Get("/", unitController.GetAll)
	api.Post("/import", unitController.Import)
	api.Put("/:id", unitController.Update)
}
