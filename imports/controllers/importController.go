package controllers

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"epi-compliance-backend/config"
	"epi-compliance-backend/imports/repositories"
	"epi-compliance-backend/imports/services"
	"epi-compliance-backend/imports/workers"
	"epi-compliance-backend/utils"
	"epi-compliance-backend/utils/pagination"
)

type ImportController struct {
	repo        *repositories.ImportRepository
	asynqClient *asynq.Client
	redisClient *redis.Client
}

func NewImportController(repo *repositories.ImportRepository, asynqClient *asynq.Client, redisClient *redis.Client) *ImportController {
	return &ImportController{
		repo:        repo,
		asynqClient: asynqClient,
		redisClient: redisClient,
	}
}

// UploadSpreadsheet receives the compliance workbook and runs the import
// synchronously; follow-up work (dashboards cache, search index, error
// report) is queued.
func (ic *ImportController) UploadSpreadsheet(c *fiber.Ctx) error {
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

	notifyEmail := c.FormValue("notify_email")

	pipeline := services.NewImportPipeline(ic.repo, ic.repo, ic.repo)
	job, err := pipeline.Run(fileHeader.Filename, data)
	if err != nil {
		if job == nil {
			// The file never produced a job: planilha ilegível ou vazia.
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha na fase em lote da importação",
			"jobId": job.ID,
		})
	}

	ic.afterImport(job.ID, job.ErrorCount, notifyEmail)

	return c.JSON(fiber.Map{
		"jobId": job.ID,
	})
}

// afterImport queues the post-import side effects. None of them affect the
// upload response; failures are only logged.
func (ic *ImportController) afterImport(jobID uuid.UUID, errorCount int, notifyEmail string) {
	if err := utils.InvalidateCache(context.Background(), ic.redisClient, utils.DashboardCacheResource); err != nil {
		config.Logger.Error("Falha ao invalidar cache de dashboards", zap.Error(err))
	}

	if task, err := workers.NewReindexColaboradoresTask(); err == nil {
		if _, err := ic.asynqClient.Enqueue(task); err != nil {
			config.Logger.Error("Falha ao enfileirar reindexação", zap.Error(err))
		}
	}

	if errorCount > 0 && notifyEmail != "" {
		task, err := workers.NewImportErrorReportTask(jobID, notifyEmail)
		if err != nil {
			config.Logger.Error("Falha ao montar tarefa de relatório de erros", zap.Error(err))
			return
		}
		if _, err := ic.asynqClient.Enqueue(task); err != nil {
			config.Logger.Error("Falha ao enfileirar relatório de erros",
				zap.String("job_id", jobID.String()),
				zap.Error(err))
		}
	}
}

// GetImportJob returns the live counters of one import run.
func (ic *ImportController) GetImportJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "jobId inválido",
		})
	}

	job, err := ic.repo.GetJob(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Importação não encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao consultar a importação",
		})
	}

	return c.JSON(fiber.Map{
		"id":          job.ID,
		"filename":    job.Filename,
		"total":       job.TotalRows,
		"processed":   job.Processed,
		"ok":          job.OkCount,
		"errors":      job.ErrorCount,
		"status":      job.Status,
		"finished_at": job.FinishedAt,
	})
}

// ListImportItems pages through the per-row audit records of one run.
func (ic *ImportController) ListImportItems(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "jobId inválido",
		})
	}

	if _, err := ic.repo.GetJob(jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Importação não encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao consultar a importação",
		})
	}

	limit, offset := pagination.ParseLimitOffset(c)
	items, total, err := ic.repo.ListItems(jobID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao listar itens da importação",
		})
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": total,
	})
}
