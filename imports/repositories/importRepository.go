package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"epi-compliance-backend/db/models"
)

const loadPageSize = 500

// ColaboradorStatusUpdate sets a collaborator's general status as of a date.
type ColaboradorStatusUpdate struct {
	ColaboradorID uuid.UUID
	StatusGeralID uuid.UUID
	DataStatus    string
}

// CatalogStore persists and reloads the four reference catalogs. Inserts are
// insert-if-absent: rows whose identity already exists are skipped, never
// updated.
type CatalogStore interface {
	InsertStatusGeralKinds(kinds []models.StatusGeralKind) error
	InsertStatusEpiKinds(kinds []models.StatusEpiKind) error
	InsertEpis(epis []models.EpiItem) error
	InsertColaboradores(colaboradores []models.Colaborador) error
	LoadStatusGeralKinds() ([]models.StatusGeralKind, error)
	LoadStatusEpiKinds() ([]models.StatusEpiKind, error)
	LoadEpis() ([]models.EpiItem, error)
	LoadColaboradores() ([]models.Colaborador, error)
}

// LinkStore persists collaborator status updates and collaborator-EPI links.
type LinkStore interface {
	UpdateColaboradorStatuses(updates []ColaboradorStatusUpdate) error
	UpsertLinks(links []models.ColaboradorEpi) error
}

// LedgerStore records import jobs and their per-row items.
type LedgerStore interface {
	CreateJob(job *models.ImportJob) error
	AppendItem(item *models.ImportItem) error
	UpdateJobProgress(jobID uuid.UUID, processed, okCount, errorCount int) error
	FinishJob(jobID uuid.UUID) error
	GetJob(jobID uuid.UUID) (*models.ImportJob, error)
	ListItems(jobID uuid.UUID, limit, offset int) ([]models.ImportItem, int64, error)
	ListErrorItems(jobID uuid.UUID) ([]models.ImportItem, error)
	LogEmailSent(log *models.EmailLog) error
}

type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (r *ImportRepository) InsertStatusGeralKinds(kinds []models.StatusGeralKind) error {
	if len(kinds) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized"}},
		DoNothing: true,
	}).Create(&kinds).Error
}

func (r *ImportRepository) InsertStatusEpiKinds(kinds []models.StatusEpiKind) error {
	if len(kinds) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized"}},
		DoNothing: true,
	}).Create(&kinds).Error
}

func (r *ImportRepository) InsertEpis(epis []models.EpiItem) error {
	if len(epis) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized"}},
		DoNothing: true,
	}).Create(&epis).Error
}

func (r *ImportRepository) InsertColaboradores(colaboradores []models.Colaborador) error {
	if len(colaboradores) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nome"}, {Name: "loja"}, {Name: "consultor"}},
		DoNothing: true,
	}).Create(&colaboradores).Error
}

func (r *ImportRepository) LoadStatusGeralKinds() ([]models.StatusGeralKind, error) {
	var all []models.StatusGeralKind
	for offset := 0; ; offset += loadPageSize {
		var page []models.StatusGeralKind
		if err := r.db.Order("normalized").Limit(loadPageSize).Offset(offset).Find(&page).Error; err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < loadPageSize {
			return all, nil
		}
	}
}

func (r *ImportRepository) LoadStatusEpiKinds() ([]models.StatusEpiKind, error) {
	var all []models.StatusEpiKind
	for offset := 0; ; offset += loadPageSize {
		var page []models.StatusEpiKind
		if err := r.db.Order("normalized").Limit(loadPageSize).Offset(offset).Find(&page).Error; err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < loadPageSize {
			return all, nil
		}
	}
}

func (r *ImportRepository) LoadEpis() ([]models.EpiItem, error) {
	var all []models.EpiItem
	for offset := 0; ; offset += loadPageSize {
		var page []models.EpiItem
		if err := r.db.Order("normalized").Limit(loadPageSize).Offset(offset).Find(&page).Error; err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < loadPageSize {
			return all, nil
		}
	}
}

func (r *ImportRepository) LoadColaboradores() ([]models.Colaborador, error) {
	var all []models.Colaborador
	for offset := 0; ; offset += loadPageSize {
		var page []models.Colaborador
		if err := r.db.Order("nome, loja, consultor").Limit(loadPageSize).Offset(offset).Find(&page).Error; err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < loadPageSize {
			return all, nil
		}
	}
}

func (r *ImportRepository) UpdateColaboradorStatuses(updates []ColaboradorStatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			err := tx.Model(&models.Colaborador{}).
				Where("id = ?", u.ColaboradorID).
				Updates(map[string]interface{}{
					"status_geral_id": u.StatusGeralID,
					"data_status":     u.DataStatus,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ImportRepository) UpsertLinks(links []models.ColaboradorEpi) error {
	if len(links) == 0 {
		return nil
	}
	// GREATEST ignores NULL operands in Postgres, which gives the null-safe
	// "keep the later date" behavior without a CASE expression.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "colaborador_id"}, {Name: "epi_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status_epi_id": gorm.Expr("excluded.status_epi_id"),
			"proximo_fornecimento": gorm.Expr(
				"GREATEST(colaborador_epi.proximo_fornecimento, excluded.proximo_fornecimento)"),
			"ativo":      true,
			"updated_at": time.Now(),
		}),
	}).Create(&links).Error
}

func (r *ImportRepository) CreateJob(job *models.ImportJob) error {
	return r.db.Create(job).Error
}

func (r *ImportRepository) AppendItem(item *models.ImportItem) error {
	return r.db.Create(item).Error
}

func (r *ImportRepository) UpdateJobProgress(jobID uuid.UUID, processed, okCount, errorCount int) error {
	return r.db.Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"processed":   processed,
			"ok_count":    okCount,
			"error_count": errorCount,
		}).Error
}

func (r *ImportRepository) FinishJob(jobID uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":      models.ImportJobDone,
			"finished_at": now,
		}).Error
}

func (r *ImportRepository) GetJob(jobID uuid.UUID) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := r.db.First(&job, "id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ImportRepository) ListItems(jobID uuid.UUID, limit, offset int) ([]models.ImportItem, int64, error) {
	var total int64
	if err := r.db.Model(&models.ImportItem{}).Where("job_id = ?", jobID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.ImportItem
	err := r.db.Where("job_id = ?", jobID).
		Order("row_number").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ImportRepository) ListErrorItems(jobID uuid.UUID) ([]models.ImportItem, error) {
	var items []models.ImportItem
	err := r.db.Where("job_id = ? AND status = ?", jobID, models.ImportItemError).
		Order("row_number").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ImportRepository) LogEmailSent(log *models.EmailLog) error {
	return r.db.Create(log).Error
}
