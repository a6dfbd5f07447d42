package routes

import (
	"epi-compliance-backend/dashboards/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitDashboardRoutes(app *fiber.App, controller *controllers.DashboardController) {
	api := app.Group("/api/v1/epi")

	api.Get("/dashboard/status-resumo", controller.StatusResumo)
	api.Get("/dashboard/top-lojas-vencidos", controller.TopLojasVencidos)
	api.Get("/colaboradores/resumo", controller.ColaboradoresResumo)
	api.Get("/filters", controller.Filters)
}
