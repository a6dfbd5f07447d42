package repositories

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"

	"epi-compliance-backend/config"
	"epi-compliance-backend/db/models"
	bleveindex "epi-compliance-backend/search/services"
)

const colaboradorIndex = "colaboradores"

type SearchRepository struct {
	indexer *bleveindex.IndexingService
}

type SearchRepositoryInterface interface {
	IndexSingleColaborador(colaborador models.Colaborador) error
	IndexExistingColaboradores(colaboradores []models.Colaborador) error
	DeleteColaborador(colaboradorID string) error
	SearchColaboradores(queryString string, size int) (*bleve.SearchResult, error)
	GetColaboradorDocument(id string) (interface{}, error)
}

func NewSearchRepository(indexer *bleveindex.IndexingService) (*SearchRepository, SearchRepositoryInterface) {
	repo := &SearchRepository{indexer: indexer}
	return repo, repo
}

func colaboradorDoc(colaborador models.Colaborador) map[string]interface{} {
	doc := map[string]interface{}{
		"id":        colaborador.ID.String(),
		"nome":      colaborador.Nome,
		"loja":      colaborador.Loja,
		"consultor": colaborador.Consultor,
	}
	if colaborador.Cargo != nil {
		doc["cargo"] = *colaborador.Cargo
	}
	if colaborador.DataStatus != nil {
		doc["data_status"] = *colaborador.DataStatus
	}
	return doc
}

func (r *SearchRepository) IndexSingleColaborador(colaborador models.Colaborador) error {
	err := r.indexer.IndexDocument(colaboradorIndex, colaborador.ID.String(), colaboradorDoc(colaborador))
	if err != nil {
		config.Logger.Error("Failed to index colaborador into Bleve",
			zap.String("colaborador_id", colaborador.ID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *SearchRepository) IndexExistingColaboradores(colaboradores []models.Colaborador) error {
	if len(colaboradores) == 0 {
		config.Logger.Info("No colaboradores to index into Bleve.")
		return nil
	}

	docs := make(map[string]interface{}, len(colaboradores))
	for _, colaborador := range colaboradores {
		docs[colaborador.ID.String()] = colaboradorDoc(colaborador)
	}

	if err := r.indexer.BulkIndexDocuments(colaboradorIndex, docs); err != nil {
		config.Logger.Error("Failed to bulk index colaboradores into Bleve", zap.Error(err))
		return err
	}
	config.Logger.Info("Successfully bulk indexed colaboradores into Bleve", zap.Int("count", len(docs)))
	return nil
}

func (r *SearchRepository) DeleteColaborador(colaboradorID string) error {
	return r.indexer.DeleteDocument(colaboradorIndex, colaboradorID)
}

func (r *SearchRepository) SearchColaboradores(queryString string, size int) (*bleve.SearchResult, error) {
	queryString = strings.TrimSpace(strings.ToLower(queryString))

	booleanQuery := bleve.NewBooleanQuery()

	// Exact matches first
	exactMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"nome", "loja", "consultor"} {
		termQuery := bleve.NewTermQuery(queryString)
		termQuery.SetField(field)
		termQuery.SetBoost(6.0)
		exactMatch.AddShould(termQuery)
	}

	// Phrase matches
	phraseMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"nome", "cargo", "consultor"} {
		phraseQuery := bleve.NewMatchPhraseQuery(queryString)
		phraseQuery.SetField(field)
		phraseQuery.SetBoost(5.0)
		phraseMatch.AddShould(phraseQuery)
	}

	// Fuzzy matching tolerates the typos common in sheet-sourced names
	fuzzyMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"nome", "cargo", "consultor"} {
		fuzzyQuery := bleve.NewFuzzyQuery(queryString)
		fuzzyQuery.SetField(field)
		fuzzyQuery.SetFuzziness(2)
		fuzzyQuery.SetBoost(3.0)
		fuzzyMatch.AddShould(fuzzyQuery)
	}

	// Prefix matching for incremental typing
	prefixMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"nome", "loja", "consultor"} {
		prefixQuery := bleve.NewPrefixQuery(queryString)
		prefixQuery.SetField(field)
		prefixQuery.SetBoost(2.0)
		prefixMatch.AddShould(prefixQuery)
	}

	booleanQuery.AddShould(exactMatch)
	booleanQuery.AddShould(phraseMatch)
	booleanQuery.AddShould(fuzzyMatch)
	booleanQuery.AddShould(prefixMatch)

	return r.indexer.SearchIndex(colaboradorIndex, booleanQuery, size)
}

func (r *SearchRepository) GetColaboradorDocument(id string) (interface{}, error) {
	return r.indexer.GetDocument(colaboradorIndex, id)
}
