package routes

import (
	"epi-compliance-backend/search/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitSearchRoutes(app *fiber.App, controller *controllers.SearchController) {
	api := app.Group("/api/v1/search")

	api.Get("/colaboradores", controller.SearchColaboradoresController)
}
