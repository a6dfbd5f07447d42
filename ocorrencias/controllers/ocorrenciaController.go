package controllers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"epi-compliance-backend/config"
	"epi-compliance-backend/ocorrencias/repositories"
	"epi-compliance-backend/ocorrencias/services"
)

type OcorrenciaController struct {
	repo repositories.OcorrenciaRepositoryInterface
}

func NewOcorrenciaController(repo repositories.OcorrenciaRepositoryInterface) *OcorrenciaController {
	return &OcorrenciaController{repo: repo}
}

// ImportOcorrencias ingests the incident workbook. Rows are upserted by
// identity hash, so re-sending the same file is safe.
func (oc *OcorrenciaController) ImportOcorrencias(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Campo 'file' é obrigatório",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Não foi possível abrir o arquivo enviado",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Não foi possível ler o arquivo enviado",
		})
	}

	parsed, err := services.ParseWorkbook(data)
	if err != nil {
		if errors.Is(err, services.ErrNoSheets) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Planilha sem abas",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	written, err := oc.repo.UpsertOcorrencias(parsed.Records)
	if err != nil {
		config.Logger.Error("Falha ao gravar ocorrências",
			zap.String("sheet", parsed.Sheet),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao gravar ocorrências",
		})
	}

	config.Logger.Info("Importação de ocorrências concluída",
		zap.String("sheet", parsed.Sheet),
		zap.Int("total_rows", parsed.TotalRows),
		zap.Int("written", written),
		zap.Int("failed", parsed.Failed))

	return c.JSON(fiber.Map{
		"sheet":               parsed.Sheet,
		"total_rows":          parsed.TotalRows,
		"inserted_or_updated": written,
		"failed":              parsed.Failed,
		"mapped":              parsed.Mapped,
		"sample_error":        parsed.SampleError,
	})
}
