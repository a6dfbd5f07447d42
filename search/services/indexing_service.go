package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

type IndexingServiceInterface interface {
	IndexDocument(indexName, id string, document interface{}) error
	BulkIndexDocuments(indexName string, documents map[string]interface{}) error
	DeleteDocument(indexName, id string) error
	SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error)
	GetDocument(indexName, id string) (interface{}, error)
	IndexExists(indexName string) (bool, error)
	DeleteIndex(indexName string) error
}

// IndexingService owns the on-disk bleve indexes, one per index name under
// basePath. Indexes are opened lazily and kept open for the process lifetime.
type IndexingService struct {
	indexes  map[string]bleve.Index
	logger   *zap.Logger
	basePath string
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	return &IndexingService{
		indexes:  make(map[string]bleve.Index),
		logger:   logger,
		basePath: basePath,
	}
}

func (s *IndexingService) getOrCreateIndex(indexName string) (bleve.Index, error) {
	if idx, ok := s.indexes[indexName]; ok {
		return idx, nil
	}

	fullPath := fmt.Sprintf("%s/%s.bleve", s.basePath, indexName)
	mapping := bleve.NewIndexMapping()

	idx, err := bleve.Open(fullPath)
	if err != nil {
		idx, err = bleve.New(fullPath, mapping)
		if err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", fullPath, err)
		}
	}

	s.indexes[indexName] = idx
	return idx, nil
}

func (s *IndexingService) IndexDocument(indexName, id string, document interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}
	return idx.Index(id, document)
}

func (s *IndexingService) BulkIndexDocuments(indexName string, documents map[string]interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			s.logger.Error("Could not add document to batch",
				zap.String("index", indexName),
				zap.String("id", id),
				zap.Error(err))
			continue
		}
	}
	return idx.Batch(batch)
}

func (s *IndexingService) DeleteDocument(indexName, id string) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}
	return idx.Delete(id)
}

// SearchIndex runs a query and requests all stored fields back with the hits.
func (s *IndexingService) SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return nil, err
	}

	searchRequest := bleve.NewSearchRequestOptions(q, size, 0, false)
	searchRequest.Fields = []string{"*"}
	return idx.Search(searchRequest)
}

func (s *IndexingService) GetDocument(indexName, id string) (interface{}, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return nil, err
	}

	q := bleve.NewDocIDQuery([]string{id})
	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = []string{"*"}

	result, err := idx.Search(req)
	if err != nil {
		return nil, err
	}
	if len(result.Hits) == 0 {
		return nil, fmt.Errorf("document %s not found in index %s", id, indexName)
	}
	return result.Hits[0].Fields, nil
}

func (s *IndexingService) IndexExists(indexName string) (bool, error) {
	fullPath := filepath.Join(s.basePath, indexName+".bleve")
	_, err := os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// DeleteIndex closes and removes the index files so the next access starts
// from an empty index.
func (s *IndexingService) DeleteIndex(indexName string) error {
	if idx, ok := s.indexes[indexName]; ok {
		if err := idx.Close(); err != nil {
			s.logger.Warn("Could not close index before delete",
				zap.String("index", indexName),
				zap.Error(err))
		}
		delete(s.indexes, indexName)
	}

	fullPath := filepath.Join(s.basePath, strings.TrimSpace(indexName)+".bleve")
	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("failed to delete index %s: %w", fullPath, err)
	}
	return nil
}
