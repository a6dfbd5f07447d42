package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"epi-compliance-backend/dashboards/repositories"
	"epi-compliance-backend/dashboards/services"
	"epi-compliance-backend/utils/pagination"
)

type DashboardController struct {
	service *services.DashboardService
}

func NewDashboardController(service *services.DashboardService) *DashboardController {
	return &DashboardController{service: service}
}

func filtersFromQuery(c *fiber.Ctx) repositories.DashboardFilters {
	return repositories.DashboardFilters{
		Loja:      c.Query("loja"),
		Consultor: c.Query("consultor"),
	}
}

func (dc *DashboardController) StatusResumo(c *fiber.Ctx) error {
	rows, err := dc.service.StatusResumo(c.Context(), filtersFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao montar o resumo de status",
		})
	}
	return c.JSON(fiber.Map{
		"data": rows,
	})
}

func (dc *DashboardController) TopLojasVencidos(c *fiber.Ctx) error {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	rows, err := dc.service.TopLojasVencidos(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao montar o ranking de lojas",
		})
	}
	return c.JSON(fiber.Map{
		"data": rows,
	})
}

func (dc *DashboardController) Filters(c *fiber.Ctx) error {
	options, err := dc.service.FilterOptions(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao listar os filtros",
		})
	}
	return c.JSON(options)
}

func (dc *DashboardController) ColaboradoresResumo(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	limit := params.PageSize
	offset := (params.Page - 1) * params.PageSize
	result, err := dc.service.ColaboradoresResumo(c.Context(), filtersFromQuery(c), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao montar o resumo de colaboradores",
		})
	}
	return c.JSON(pagination.NewPaginatedResponse(c, result.Rows, result.Total, params))
}
