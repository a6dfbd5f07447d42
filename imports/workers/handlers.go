package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"epi-compliance-backend/config"
	"epi-compliance-backend/db/models"
	"epi-compliance-backend/imports/repositories"
	searchrepos "epi-compliance-backend/search/repositories"
	"epi-compliance-backend/utils"
)

// TaskHandler processes the queued follow-ups of an import run.
type TaskHandler struct {
	ledger   repositories.LedgerStore
	catalogs repositories.CatalogStore
	search   searchrepos.SearchRepositoryInterface
}

func NewTaskHandler(ledger repositories.LedgerStore, catalogs repositories.CatalogStore, search searchrepos.SearchRepositoryInterface) *TaskHandler {
	return &TaskHandler{ledger: ledger, catalogs: catalogs, search: search}
}

var errorReportHeaders = []string{
	"Linha", "Motivo", "Colaborador", "Loja", "Consultor", "EPI", "Status EPI", "Status Geral",
}

// HandleImportErrorReport builds an xlsx with every rejected row of the job
// and mails it to the requester.
func (h *TaskHandler) HandleImportErrorReport(ctx context.Context, t *asynq.Task) error {
	var payload ImportErrorReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decoding payload: %v: %w", err, asynq.SkipRetry)
	}
	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", payload.JobID, asynq.SkipRetry)
	}

	job, err := h.ledger.GetJob(jobID)
	if err != nil {
		return fmt.Errorf("loading job: %w", err)
	}
	items, err := h.ledger.ListErrorItems(jobID)
	if err != nil {
		return fmt.Errorf("loading error items: %w", err)
	}
	if len(items) == 0 {
		config.Logger.Info("No error items for job, skipping report",
			zap.String("job_id", jobID.String()))
		return nil
	}

	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		message := ""
		if item.Message != nil {
			message = *item.Message
		}
		rows = append(rows, []interface{}{
			item.RowNumber, message, item.Colaborador, item.Loja,
			item.Consultor, item.EpiNome, item.EpiStatusRaw, item.StatusGeralRaw,
		})
	}

	webPath, err := utils.GenerateExcel("erros_importacao_epi", errorReportHeaders, rows)
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	attachmentPath := "." + webPath

	title := fmt.Sprintf("Relatório de erros da importação %s", job.Filename)
	message := fmt.Sprintf(
		"A importação do arquivo %s terminou com %d linha(s) rejeitada(s) de %d processada(s).\n\n"+
			"O relatório completo segue em anexo e também pode ser baixado em: %s",
		job.Filename, job.ErrorCount, job.Processed, utils.GenerateDownloadLink(webPath))

	if err := utils.SendEmail(payload.Email, message, title, attachmentPath); err != nil {
		return fmt.Errorf("sending report email: %w", err)
	}

	logEntry := &models.EmailLog{
		ID:             uuid.New(),
		Recipient:      payload.Email,
		Subject:        title,
		Message:        message,
		SentAt:         time.Now(),
		AttachmentPath: attachmentPath,
	}
	if err := h.ledger.LogEmailSent(logEntry); err != nil {
		config.Logger.Error("Failed to record sent email", zap.Error(err))
	}

	config.Logger.Info("Import error report sent",
		zap.String("job_id", jobID.String()),
		zap.String("recipient", payload.Email),
		zap.Int("rows", len(rows)))
	return nil
}

// HandleReindexColaboradores rebuilds the colaborador search index from the
// current catalog.
func (h *TaskHandler) HandleReindexColaboradores(ctx context.Context, t *asynq.Task) error {
	colaboradores, err := h.catalogs.LoadColaboradores()
	if err != nil {
		return fmt.Errorf("loading colaboradores: %w", err)
	}
	if err := h.search.IndexExistingColaboradores(colaboradores); err != nil {
		return fmt.Errorf("indexing colaboradores: %w", err)
	}
	return nil
}

// NewWorkerServer wires the task handlers into an asynq server bound to the
// same Redis the client enqueues on.
func NewWorkerServer(redisAddr string, handler *TaskHandler) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeImportErrorReport, handler.HandleImportErrorReport)
	mux.HandleFunc(TypeReindexColaboradores, handler.HandleReindexColaboradores)
	return srv, mux
}
