package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ImportJobRunning = "running"
	ImportJobDone    = "done"

	ImportItemOK    = "ok"
	ImportItemError = "error"
)

// ImportJob tracks one spreadsheet import run. Counters are updated after
// every processed row so a polling client can render live progress.
type ImportJob struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	Filename   string     `json:"filename"`
	TotalRows  int        `gorm:"default:0" json:"total_rows"`
	Processed  int        `gorm:"default:0" json:"processed"`
	OkCount    int        `gorm:"default:0" json:"ok_count"`
	ErrorCount int        `gorm:"default:0" json:"error_count"`
	Status     string     `gorm:"not null;default:'running'" json:"status"`
	StartedAt  time.Time  `gorm:"autoCreateTime" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// ImportItem is the append-only per-row audit record of an import run.
type ImportItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	JobID          uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	RowNumber      int       `gorm:"not null;index" json:"row_number"`
	Status         string    `gorm:"not null" json:"status"`
	Message        *string   `json:"message"`
	Colaborador    string    `json:"colaborador"`
	Loja           string    `json:"loja"`
	Consultor      string    `json:"consultor"`
	EpiNome        string    `json:"epi_nome"`
	EpiStatusRaw   string    `json:"epi_status_raw"`
	StatusGeralRaw string    `json:"status_geral_raw"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ImportJob) TableName() string  { return "import_job" }
func (ImportItem) TableName() string { return "import_item" }
