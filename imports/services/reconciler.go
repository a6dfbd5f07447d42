package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"epi-compliance-backend/db/models"
	"epi-compliance-backend/imports/repositories"
)

// BuildStatusGeralUpdates collapses the file's per-row general statuses into
// one update per collaborator. Later rows win, matching how the sheets are
// maintained (the most recent assessment is appended last). Rows whose
// collaborator or status cannot be resolved are skipped.
func BuildStatusGeralUpdates(records []*ParsedRecord, resolver *CatalogResolver) []repositories.ColaboradorStatusUpdate {
	today := time.Now().Format("2006-01-02")

	byColaborador := map[uuid.UUID]uuid.UUID{}
	var order []uuid.UUID
	for _, rec := range records {
		if rec.StatusGeral == "" {
			continue
		}
		colID, ok := resolver.ColaboradorID(rec.Nome, rec.Loja, rec.Consultor)
		if !ok {
			continue
		}
		statusID, ok := resolver.StatusGeralID(rec.StatusGeral)
		if !ok {
			continue
		}
		if _, seen := byColaborador[colID]; !seen {
			order = append(order, colID)
		}
		byColaborador[colID] = statusID
	}

	updates := make([]repositories.ColaboradorStatusUpdate, 0, len(order))
	for _, colID := range order {
		updates = append(updates, repositories.ColaboradorStatusUpdate{
			ColaboradorID: colID,
			StatusGeralID: byColaborador[colID],
			DataStatus:    today,
		})
	}
	return updates
}

type linkKey struct {
	colaboradorID uuid.UUID
	epiID         uuid.UUID
}

// BuildLinkSet collapses the file's rows into one link per collaborador-EPI
// pair. The status follows the last row for the pair; the supply date keeps
// the maximum across rows, where any date beats no date (ISO dates compare
// correctly as strings). Rows referencing unresolvable catalog entries are
// skipped without error. Output order is deterministic.
func BuildLinkSet(records []*ParsedRecord, resolver *CatalogResolver) []models.ColaboradorEpi {
	type linkState struct {
		statusEpiID *uuid.UUID
		proximo     *string
	}

	set := map[linkKey]*linkState{}
	for _, rec := range records {
		colID, ok := resolver.ColaboradorID(rec.Nome, rec.Loja, rec.Consultor)
		if !ok {
			continue
		}
		epiID, ok := resolver.EpiID(rec.Epi)
		if !ok {
			continue
		}

		key := linkKey{colaboradorID: colID, epiID: epiID}
		state, exists := set[key]
		if !exists {
			state = &linkState{}
			set[key] = state
		}

		if rec.EpiStatus != "" {
			if statusID, ok := resolver.StatusEpiID(rec.EpiStatus); ok {
				id := statusID
				state.statusEpiID = &id
			}
		}
		state.proximo = maxISODate(state.proximo, rec.ProximoFornecimento)
	}

	keys := make([]linkKey, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].colaboradorID != keys[j].colaboradorID {
			return keys[i].colaboradorID.String() < keys[j].colaboradorID.String()
		}
		return keys[i].epiID.String() < keys[j].epiID.String()
	})

	links := make([]models.ColaboradorEpi, 0, len(keys))
	for _, key := range keys {
		state := set[key]
		links = append(links, models.ColaboradorEpi{
			ID:                  uuid.New(),
			ColaboradorID:       key.colaboradorID,
			EpiID:               key.epiID,
			StatusEpiID:         state.statusEpiID,
			ProximoFornecimento: state.proximo,
			Ativo:               true,
		})
	}
	return links
}

// maxISODate returns the later of two optional ISO dates; a present date
// always beats nil.
func maxISODate(a, b *string) *string {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *b > *a {
		return b
	}
	return a
}
