package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusGeralKind is the catalog of collaborator-level compliance states
// (e.g. "Em dia", "Vencido"). Rows are only ever inserted; the severity and
// color assigned at creation time are never re-evaluated.
type StatusGeralKind struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Normalized string    `gorm:"unique;not null;index" json:"normalized"`
	Severity   int       `gorm:"not null" json:"severity"`
	ColorHex   string    `gorm:"not null" json:"color_hex"`
	IsApt      *bool     `json:"is_apt"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// StatusEpiKind is the catalog of per-equipment compliance states.
type StatusEpiKind struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Normalized string    `gorm:"unique;not null;index" json:"normalized"`
	Severity   int       `gorm:"not null" json:"severity"`
	ColorHex   string    `gorm:"not null" json:"color_hex"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StatusGeralKind) TableName() string { return "status_geral_kind" }
func (StatusEpiKind) TableName() string   { return "status_epi_kind" }
