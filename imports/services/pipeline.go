package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"epi-compliance-backend/config"
	"epi-compliance-backend/db/models"
	"epi-compliance-backend/imports/repositories"
)

const (
	linkBatchSize         = 500
	statusUpdateBatchSize = 200
)

// ImportPipeline runs one spreadsheet through parse, normalize, catalog
// resolution, reconciliation and the ledger. Build a fresh pipeline per
// upload; the resolver caches are scoped to a single run.
type ImportPipeline struct {
	catalogs repositories.CatalogStore
	links    repositories.LinkStore
	ledger   repositories.LedgerStore
}

func NewImportPipeline(catalogs repositories.CatalogStore, links repositories.LinkStore, ledger repositories.LedgerStore) *ImportPipeline {
	return &ImportPipeline{catalogs: catalogs, links: links, ledger: ledger}
}

// Run imports one workbook. Errors before the job row exists (unreadable
// file, missing sheet) return with a nil job. Once the job exists, row-level
// problems are recorded as error items and never abort the run; a failure in
// the batch phase aborts and leaves the job in "running" so operators can
// spot the stall.
func (p *ImportPipeline) Run(filename string, data []byte) (*models.ImportJob, error) {
	rows, err := ReadWorkbook(data)
	if err != nil {
		return nil, err
	}

	job := &models.ImportJob{
		ID:        uuid.New(),
		Filename:  filename,
		TotalRows: len(rows),
		Status:    models.ImportJobRunning,
		StartedAt: time.Now(),
	}
	if err := p.ledger.CreateJob(job); err != nil {
		return nil, fmt.Errorf("criando job de importação: %w", err)
	}

	config.Logger.Info("Importação iniciada",
		zap.String("job_id", job.ID.String()),
		zap.String("filename", filename),
		zap.Int("total_rows", len(rows)))

	records := p.normalizeRows(job, rows)

	if err := p.applyBatch(job, records); err != nil {
		config.Logger.Error("Fase em lote da importação falhou",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
		return job, err
	}

	if err := p.ledger.FinishJob(job.ID); err != nil {
		return job, err
	}
	job.Status = models.ImportJobDone

	config.Logger.Info("Importação concluída",
		zap.String("job_id", job.ID.String()),
		zap.Int("ok", job.OkCount),
		zap.Int("errors", job.ErrorCount))
	return job, nil
}

// normalizeRows walks the sheet top to bottom, carrying identity cells down,
// and writes one ledger item per row. A row the ledger itself refuses is
// counted as an error item too.
func (p *ImportPipeline) normalizeRows(job *models.ImportJob, rows []SpreadsheetRow) []*ParsedRecord {
	fill := &ForwardFillState{}
	var records []*ParsedRecord

	for _, row := range rows {
		rec, rej := NormalizeRow(row, fill)

		var item models.ImportItem
		if rej != nil {
			job.ErrorCount++
			msg := rej.Reason
			item = models.ImportItem{
				ID:             uuid.New(),
				JobID:          job.ID,
				RowNumber:      rej.RowNumber,
				Status:         models.ImportItemError,
				Message:        &msg,
				Colaborador:    rej.Nome,
				Loja:           rej.Loja,
				Consultor:      rej.Consultor,
				EpiNome:        rej.Epi,
				EpiStatusRaw:   rej.EpiStatus,
				StatusGeralRaw: rej.StatusGeral,
			}
		} else {
			job.OkCount++
			records = append(records, rec)
			item = models.ImportItem{
				ID:             uuid.New(),
				JobID:          job.ID,
				RowNumber:      rec.RowNumber,
				Status:         models.ImportItemOK,
				Colaborador:    rec.Nome,
				Loja:           rec.Loja,
				Consultor:      rec.Consultor,
				EpiNome:        rec.Epi,
				EpiStatusRaw:   rec.EpiStatus,
				StatusGeralRaw: rec.StatusGeral,
			}
		}
		job.Processed++

		if err := p.ledger.AppendItem(&item); err != nil {
			config.Logger.Error("Falha ao registrar item da importação",
				zap.String("job_id", job.ID.String()),
				zap.Int("row", row.Number),
				zap.Error(err))
		}
		if err := p.ledger.UpdateJobProgress(job.ID, job.Processed, job.OkCount, job.ErrorCount); err != nil {
			config.Logger.Error("Falha ao atualizar progresso do job",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	}
	return records
}

// applyBatch runs the strictly ordered batch phase: grow the catalogs, reload
// them, then write status updates and links. Any step failing stops the rest;
// the catalogs never reference rows that were not persisted first.
func (p *ImportPipeline) applyBatch(job *models.ImportJob, records []*ParsedRecord) error {
	resolver := NewCatalogResolver(p.catalogs)
	if err := resolver.Load(); err != nil {
		return fmt.Errorf("carregando catálogos: %w", err)
	}

	var statusGeralNames, statusEpiNames, epiNames []string
	for _, rec := range records {
		if rec.StatusGeral != "" {
			statusGeralNames = append(statusGeralNames, rec.StatusGeral)
		}
		if rec.EpiStatus != "" {
			statusEpiNames = append(statusEpiNames, rec.EpiStatus)
		}
		epiNames = append(epiNames, rec.Epi)
	}

	if err := resolver.EnsureStatusGeralKinds(statusGeralNames); err != nil {
		return fmt.Errorf("catalogando status geral: %w", err)
	}
	if err := resolver.EnsureStatusEpiKinds(statusEpiNames); err != nil {
		return fmt.Errorf("catalogando status de EPI: %w", err)
	}
	if err := resolver.EnsureEpis(epiNames); err != nil {
		return fmt.Errorf("catalogando EPIs: %w", err)
	}
	if err := resolver.EnsureColaboradores(records); err != nil {
		return fmt.Errorf("catalogando colaboradores: %w", err)
	}

	updates := BuildStatusGeralUpdates(records, resolver)
	for start := 0; start < len(updates); start += statusUpdateBatchSize {
		end := start + statusUpdateBatchSize
		if end > len(updates) {
			end = len(updates)
		}
		if err := p.links.UpdateColaboradorStatuses(updates[start:end]); err != nil {
			return fmt.Errorf("atualizando status geral: %w", err)
		}
	}

	links := BuildLinkSet(records, resolver)
	for start := 0; start < len(links); start += linkBatchSize {
		end := start + linkBatchSize
		if end > len(links) {
			end = len(links)
		}
		if err := p.links.UpsertLinks(links[start:end]); err != nil {
			return fmt.Errorf("gravando vínculos colaborador-EPI: %w", err)
		}
	}
	return nil
}
