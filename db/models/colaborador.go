package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EpiItem is the equipment catalog ("Luva", "Bota", ...), keyed by the
// normalized name.
type EpiItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Nome       string    `gorm:"not null" json:"nome"`
	Normalized string    `gorm:"unique;not null;index" json:"normalized"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Colaborador is one employee tracked for EPI compliance. The composite
// (nome, loja, consultor) identifies a collaborator across imports; the
// general status is mutated by later imports, everything else is written once.
type Colaborador struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	Nome          string     `gorm:"not null;index;uniqueIndex:idx_colaborador_identity" json:"nome"`
	Loja          string     `gorm:"index;uniqueIndex:idx_colaborador_identity" json:"loja"`
	Consultor     string     `gorm:"index;uniqueIndex:idx_colaborador_identity" json:"consultor"`
	Cargo         *string    `json:"cargo"`
	StatusGeralID *uuid.UUID `gorm:"type:uuid;index" json:"status_geral_id"`
	DataStatus    *string    `gorm:"type:date" json:"data_status"`

	StatusGeral *StatusGeralKind `gorm:"foreignKey:StatusGeralID" json:"status_geral,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ColaboradorEpi links one piece of equipment to one collaborator. Unique per
// (colaborador_id, epi_id); re-imports replace the status and keep the later
// next-supply date.
type ColaboradorEpi struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	ColaboradorID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_colaborador_epi" json:"colaborador_id"`
	EpiID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_colaborador_epi" json:"epi_id"`
	StatusEpiID          *uuid.UUID `gorm:"type:uuid;index" json:"status_epi_id"`
	ProximoFornecimento  *string    `gorm:"type:date" json:"proximo_fornecimento"`
	Ativo                bool       `gorm:"default:true" json:"ativo"`

	Colaborador *Colaborador   `gorm:"foreignKey:ColaboradorID" json:"colaborador,omitempty"`
	Epi         *EpiItem       `gorm:"foreignKey:EpiID" json:"epi,omitempty"`
	StatusEpi   *StatusEpiKind `gorm:"foreignKey:StatusEpiID" json:"status_epi,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EpiItem) TableName() string        { return "epi_item" }
func (Colaborador) TableName() string    { return "colaborador" }
func (ColaboradorEpi) TableName() string { return "colaborador_epi" }
