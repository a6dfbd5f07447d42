package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"epi-compliance-backend/search/repositories"
)

type SearchController struct {
	repo *repositories.SearchRepository
}

func NewSearchController(repo *repositories.SearchRepository) *SearchController {
	return &SearchController{repo: repo}
}

func (sc *SearchController) SearchColaboradoresController(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query is required",
		})
	}

	size := 20
	if raw := ctx.Query("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			size = parsed
		}
	}

	results, err := sc.repo.SearchColaboradores(query, size)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	var matches []interface{}
	for _, hit := range results.Hits {
		matches = append(matches, hit.Fields)
	}

	return ctx.JSON(fiber.Map{
		"results": matches,
		"total":   results.Total,
	})
}
