package workers

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeImportErrorReport    = "report:import_errors"
	TypeReindexColaboradores = "search:reindex_colaboradores"
)

type ImportErrorReportPayload struct {
	JobID string `json:"job_id"`
	Email string `json:"email"`
}

// NewImportErrorReportTask queues the "email the rejected rows" follow-up of
// an import run.
func NewImportErrorReportTask(jobID uuid.UUID, email string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImportErrorReportPayload{
		JobID: jobID.String(),
		Email: email,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportErrorReport, payload, asynq.MaxRetry(3)), nil
}

// NewReindexColaboradoresTask queues a full rebuild of the colaborador
// search index. The task carries no payload; the worker reads current
// database state.
func NewReindexColaboradoresTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeReindexColaboradores, nil, asynq.MaxRetry(2)), nil
}
