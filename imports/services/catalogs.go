package services

import (
	"strings"

	"github.com/google/uuid"

	"epi-compliance-backend/db/models"
	"epi-compliance-backend/imports/repositories"
	"epi-compliance-backend/utils"
)

// StatusTraits are the presentation attributes derived from a status name.
type StatusTraits struct {
	Severity int
	ColorHex string
	IsApt    bool
}

// ClassifyStatusName derives severity, display color and aptitude from a
// status name. Matching runs on the normalized key, so "Vencido", "VENCIDOS"
// and "vencido há 30 dias" all classify alike.
func ClassifyStatusName(name string) StatusTraits {
	key := utils.NormalizeKey(name)
	switch {
	case strings.Contains(key, "VENCID"):
		return StatusTraits{Severity: 10, ColorHex: "#ef4444", IsApt: false}
	case strings.Contains(key, "PENDEN"):
		return StatusTraits{Severity: 50, ColorHex: "#facc15", IsApt: false}
	case strings.Contains(key, "FUTUR"):
		return StatusTraits{Severity: 60, ColorHex: "#60a5fa", IsApt: true}
	default:
		return StatusTraits{Severity: 100, ColorHex: "#22c55e", IsApt: true}
	}
}

// ColaboradorKey is the composite identity used to resolve collaborators.
func ColaboradorKey(nome, loja, consultor string) string {
	return utils.NormalizeKey(nome) + "|" + utils.NormalizeKey(loja) + "|" + utils.NormalizeKey(consultor)
}

// CatalogResolver maintains in-memory lookup maps over the four reference
// catalogs. Ensure* methods insert missing entries and reload the affected
// catalog so that concurrent imports always resolve against database truth.
type CatalogResolver struct {
	store repositories.CatalogStore

	statusGeral   map[string]uuid.UUID
	statusEpi     map[string]uuid.UUID
	epis          map[string]uuid.UUID
	colaboradores map[string]uuid.UUID
}

func NewCatalogResolver(store repositories.CatalogStore) *CatalogResolver {
	return &CatalogResolver{
		store:         store,
		statusGeral:   map[string]uuid.UUID{},
		statusEpi:     map[string]uuid.UUID{},
		epis:          map[string]uuid.UUID{},
		colaboradores: map[string]uuid.UUID{},
	}
}

// Load refreshes all four lookup maps from the store.
func (c *CatalogResolver) Load() error {
	if err := c.reloadStatusGeral(); err != nil {
		return err
	}
	if err := c.reloadStatusEpi(); err != nil {
		return err
	}
	if err := c.reloadEpis(); err != nil {
		return err
	}
	return c.reloadColaboradores()
}

func (c *CatalogResolver) reloadStatusGeral() error {
	kinds, err := c.store.LoadStatusGeralKinds()
	if err != nil {
		return err
	}
	m := make(map[string]uuid.UUID, len(kinds))
	for _, k := range kinds {
		m[k.Normalized] = k.ID
	}
	c.statusGeral = m
	return nil
}

func (c *CatalogResolver) reloadStatusEpi() error {
	kinds, err := c.store.LoadStatusEpiKinds()
	if err != nil {
		return err
	}
	m := make(map[string]uuid.UUID, len(kinds))
	for _, k := range kinds {
		m[k.Normalized] = k.ID
	}
	c.statusEpi = m
	return nil
}

func (c *CatalogResolver) reloadEpis() error {
	epis, err := c.store.LoadEpis()
	if err != nil {
		return err
	}
	m := make(map[string]uuid.UUID, len(epis))
	for _, e := range epis {
		m[e.Normalized] = e.ID
	}
	c.epis = m
	return nil
}

func (c *CatalogResolver) reloadColaboradores() error {
	colaboradores, err := c.store.LoadColaboradores()
	if err != nil {
		return err
	}
	m := make(map[string]uuid.UUID, len(colaboradores))
	for _, col := range colaboradores {
		m[ColaboradorKey(col.Nome, col.Loja, col.Consultor)] = col.ID
	}
	c.colaboradores = m
	return nil
}

// EnsureStatusGeralKinds inserts any status names not yet cataloged, with
// traits classified from the name, then reloads the catalog.
func (c *CatalogResolver) EnsureStatusGeralKinds(names []string) error {
	var missing []models.StatusGeralKind
	seen := map[string]bool{}
	for _, name := range names {
		key := utils.NormalizeKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := c.statusGeral[key]; ok {
			continue
		}
		traits := ClassifyStatusName(name)
		isApt := traits.IsApt
		missing = append(missing, models.StatusGeralKind{
			ID:         uuid.New(),
			Name:       name,
			Normalized: key,
			Severity:   traits.Severity,
			ColorHex:   traits.ColorHex,
			IsApt:      &isApt,
		})
	}
	if len(missing) == 0 {
		return nil
	}
	if err := c.store.InsertStatusGeralKinds(missing); err != nil {
		return err
	}
	return c.reloadStatusGeral()
}

// EnsureStatusEpiKinds is the per-item counterpart of EnsureStatusGeralKinds;
// item statuses carry no aptitude flag.
func (c *CatalogResolver) EnsureStatusEpiKinds(names []string) error {
	var missing []models.StatusEpiKind
	seen := map[string]bool{}
	for _, name := range names {
		key := utils.NormalizeKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := c.statusEpi[key]; ok {
			continue
		}
		traits := ClassifyStatusName(name)
		missing = append(missing, models.StatusEpiKind{
			ID:         uuid.New(),
			Name:       name,
			Normalized: key,
			Severity:   traits.Severity,
			ColorHex:   traits.ColorHex,
		})
	}
	if len(missing) == 0 {
		return nil
	}
	if err := c.store.InsertStatusEpiKinds(missing); err != nil {
		return err
	}
	return c.reloadStatusEpi()
}

func (c *CatalogResolver) EnsureEpis(names []string) error {
	var missing []models.EpiItem
	seen := map[string]bool{}
	for _, name := range names {
		key := utils.NormalizeKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := c.epis[key]; ok {
			continue
		}
		missing = append(missing, models.EpiItem{
			ID:         uuid.New(),
			Nome:       name,
			Normalized: key,
		})
	}
	if len(missing) == 0 {
		return nil
	}
	if err := c.store.InsertEpis(missing); err != nil {
		return err
	}
	return c.reloadEpis()
}

// EnsureColaboradores inserts collaborators absent from the catalog, keyed by
// the nome|loja|consultor composite. Only the first record per identity in
// file order contributes the insert payload.
func (c *CatalogResolver) EnsureColaboradores(records []*ParsedRecord) error {
	var missing []models.Colaborador
	seen := map[string]bool{}
	for _, rec := range records {
		key := ColaboradorKey(rec.Nome, rec.Loja, rec.Consultor)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := c.colaboradores[key]; ok {
			continue
		}
		missing = append(missing, models.Colaborador{
			ID:        uuid.New(),
			Nome:      rec.Nome,
			Loja:      rec.Loja,
			Consultor: rec.Consultor,
			Cargo:     rec.Cargo,
		})
	}
	if len(missing) == 0 {
		return nil
	}
	if err := c.store.InsertColaboradores(missing); err != nil {
		return err
	}
	return c.reloadColaboradores()
}

func (c *CatalogResolver) StatusGeralID(name string) (uuid.UUID, bool) {
	id, ok := c.statusGeral[utils.NormalizeKey(name)]
	return id, ok
}

func (c *CatalogResolver) StatusEpiID(name string) (uuid.UUID, bool) {
	id, ok := c.statusEpi[utils.NormalizeKey(name)]
	return id, ok
}

func (c *CatalogResolver) EpiID(name string) (uuid.UUID, bool) {
	id, ok := c.epis[utils.NormalizeKey(name)]
	return id, ok
}

func (c *CatalogResolver) ColaboradorID(nome, loja, consultor string) (uuid.UUID, bool) {
	id, ok := c.colaboradores[ColaboradorKey(nome, loja, consultor)]
	return id, ok
}
