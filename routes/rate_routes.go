package routes

import (
	"fleetops/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupRateRoutes(router fiber.Router, deps Dependencies) {
	rateController := controllers.NewRateController(deps.DB, deps.Log)

	api := router.Group("/rates")
	api.Post("/", rateController.Create)
	api.Get("/", rateController.GetAll)
	api.Post("/quote", rateController.Quote)
	api.Get("/:id", rateController.GetByID)
}
