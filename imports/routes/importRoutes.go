package routes

import (
	"epi-compliance-backend/imports/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitImportRoutes(app *fiber.App, controller *controllers.ImportController) {
	api := app.Group("/api/v1/epi")

	api.Post("/imports", controller.UploadSpreadsheet)
	api.Get("/imports/:jobId", controller.GetImportJob)
	api.Get("/imports/:jobId/items", controller.ListImportItems)
}
