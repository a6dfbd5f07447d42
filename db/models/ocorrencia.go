package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Ocorrencia is one workplace incident row imported from the incident
// spreadsheet. The sha256 hash of the identity columns deduplicates
// re-imports of the same event.
type Ocorrencia struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	Ocorrencia       *string        `json:"ocorrencia"`
	Data             *string        `gorm:"type:date;index" json:"data"`
	Horario          *string        `gorm:"type:time" json:"horario"`
	Ts               *string        `json:"ts"`
	Unidade          *string        `gorm:"index" json:"unidade"`
	Area             *string        `json:"area"`
	NaturezaLesao    *string        `json:"natureza_lesao"`
	Descricao        *string        `gorm:"type:text" json:"descricao"`
	Nome             *string        `json:"nome"`
	Consultor        *string        `gorm:"index" json:"consultor"`
	DataAdmissao     *string        `gorm:"type:date" json:"data_admissao"`
	Periodo          *string        `json:"periodo"`
	DiaSemanaTxt     *string        `json:"dia_semana_txt"`
	Dias             *int           `json:"dias"`
	Meses            *int           `json:"meses"`
	Anos             *int           `json:"anos"`
	Operacao         *string        `json:"operacao"`
	EstacaoMaquina   *string        `json:"estacao_maquina"`
	SituacaoGeradora *string        `json:"situacao_geradora"`
	ParteCorpo       *string        `json:"parte_corpo"`
	AgenteCausador   *string        `json:"agente_causador"`
	DiasAfastamento  *int           `json:"dias_afastamento"`
	Hash             string         `gorm:"unique;not null;index" json:"hash"`
	ExtraJSON        datatypes.JSON `json:"extra_json"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Ocorrencia) TableName() string { return "ocorrencias" }
