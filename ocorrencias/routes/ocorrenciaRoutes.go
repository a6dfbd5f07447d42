package routes

import (
	"epi-compliance-backend/ocorrencias/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitOcorrenciaRoutes(app *fiber.App, controller *controllers.OcorrenciaController) {
	api := app.Group("/api/v1/ocorrencias")

	api.Post("/import", controller.ImportOcorrencias)
}
