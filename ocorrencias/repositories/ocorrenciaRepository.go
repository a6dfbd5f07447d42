package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"epi-compliance-backend/db/models"
)

const upsertChunkSize = 800

type OcorrenciaRepository struct {
	db *gorm.DB
}

type OcorrenciaRepositoryInterface interface {
	UpsertOcorrencias(records []models.Ocorrencia) (int, error)
	CountOcorrencias() (int64, error)
}

func NewOcorrenciaRepository(db *gorm.DB) (*OcorrenciaRepository, OcorrenciaRepositoryInterface) {
	repo := &OcorrenciaRepository{db: db}
	return repo, repo
}

// UpsertOcorrencias writes records in chunks, keyed by the identity hash:
// an existing hash has its row updated in place. Returns the number of rows
// written.
func (r *OcorrenciaRepository) UpsertOcorrencias(records []models.Ocorrencia) (int, error) {
	written := 0
	for start := 0; start < len(records); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]
		err := r.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "hash"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"data", "horario", "ts", "unidade", "area", "natureza_lesao",
				"descricao", "nome", "consultor", "data_admissao", "periodo",
				"dia_semana_txt", "dias", "meses", "anos", "operacao",
				"estacao_maquina", "situacao_geradora", "parte_corpo",
				"agente_causador", "dias_afastamento", "extra_json", "updated_at",
			}),
		}).Create(&chunk).Error
		if err != nil {
			return written, err
		}
		written += len(chunk)
	}
	return written, nil
}

func (r *OcorrenciaRepository) CountOcorrencias() (int64, error) {
	var total int64
	err := r.db.Model(&models.Ocorrencia{}).Count(&total).Error
	return total, err
}
