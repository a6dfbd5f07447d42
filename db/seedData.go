package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"epi-compliance-backend/db/models"
	"epi-compliance-backend/imports/services"
	"epi-compliance-backend/utils"
)

// canonical status names observed across the compliance sheets. Imports add
// any others on the fly; seeding just guarantees the dashboards have the
// well-known buckets from day one.
var statusGeralSeed = []string{"Vencido", "Pendente", "Futuro", "Em dia"}

var statusEpiSeed = []string{"Vencido", "Pendente", "OK"}

// SeedStatusKinds inserts the well-known status catalog entries, skipping any
// that already exist.
func SeedStatusKinds(db *gorm.DB) error {
	for _, name := range statusGeralSeed {
		normalized := utils.NormalizeKey(name)
		var existing models.StatusGeralKind
		err := db.Where("normalized = ?", normalized).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		traits := services.ClassifyStatusName(name)
		isApt := traits.IsApt
		kind := models.StatusGeralKind{
			ID:         uuid.New(),
			Name:       name,
			Normalized: normalized,
			Severity:   traits.Severity,
			ColorHex:   traits.ColorHex,
			IsApt:      &isApt,
		}
		if err := db.Create(&kind).Error; err != nil {
			return err
		}
	}

	for _, name := range statusEpiSeed {
		normalized := utils.NormalizeKey(name)
		var existing models.StatusEpiKind
		err := db.Where("normalized = ?", normalized).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		traits := services.ClassifyStatusName(name)
		kind := models.StatusEpiKind{
			ID:         uuid.New(),
			Name:       name,
			Normalized: normalized,
			Severity:   traits.Severity,
			ColorHex:   traits.ColorHex,
		}
		if err := db.Create(&kind).Error; err != nil {
			return err
		}
	}
	return nil
}
