package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"epi-compliance-backend/config"
	"epi-compliance-backend/dashboards/repositories"
	"epi-compliance-backend/utils"
)

// cacheTTL bounds staleness between an import and cache invalidation racing.
const cacheTTL = 5 * time.Minute

// DashboardService serves the compliance aggregates through a Redis
// read-through cache. Keys carry the query-hash of the filters, so
// invalidation can sweep the whole resource prefix after an import.
type DashboardService struct {
	repo        repositories.DashboardRepositoryInterface
	redisClient *redis.Client
}

func NewDashboardService(repo repositories.DashboardRepositoryInterface, redisClient *redis.Client) *DashboardService {
	return &DashboardService{repo: repo, redisClient: redisClient}
}

func (s *DashboardService) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.redisClient == nil {
		return false
	}
	raw, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (s *DashboardService) toCache(ctx context.Context, key string, value interface{}) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		config.Logger.Warn("Failed to cache dashboard payload",
			zap.String("key", key),
			zap.Error(err))
	}
}

func (s *DashboardService) StatusResumo(ctx context.Context, filters repositories.DashboardFilters) ([]repositories.StatusResumoRow, error) {
	key := utils.GenerateQueryHash(utils.DashboardCacheResource, map[string]string{
		"view":      "status_resumo",
		"loja":      filters.Loja,
		"consultor": filters.Consultor,
	})

	var rows []repositories.StatusResumoRow
	if s.fromCache(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.StatusResumo(filters)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, rows)
	return rows, nil
}

func (s *DashboardService) TopLojasVencidos(ctx context.Context, limit int) ([]repositories.LojaVencidosRow, error) {
	key := utils.GenerateQueryHash(utils.DashboardCacheResource, map[string]string{
		"view":  "top_lojas_vencidos",
		"limit": strconv.Itoa(limit),
	})

	var rows []repositories.LojaVencidosRow
	if s.fromCache(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.TopLojasVencidos(limit)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, rows)
	return rows, nil
}

// ColaboradoresResumoResult bundles the page and total, cached together.
type ColaboradoresResumoResult struct {
	Rows  []repositories.ColaboradorResumoRow `json:"rows"`
	Total int64                               `json:"total"`
}

// FilterOptions returns the dropdown values, cached like the aggregates.
func (s *DashboardService) FilterOptions(ctx context.Context) (*repositories.FilterOptions, error) {
	key := utils.GenerateQueryHash(utils.DashboardCacheResource, map[string]string{
		"view": "filters",
	})

	var options repositories.FilterOptions
	if s.fromCache(ctx, key, &options) {
		return &options, nil
	}

	fresh, err := s.repo.FilterOptions()
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, fresh)
	return fresh, nil
}

func (s *DashboardService) ColaboradoresResumo(ctx context.Context, filters repositories.DashboardFilters, limit, offset int) (*ColaboradoresResumoResult, error) {
	key := utils.GenerateQueryHash(utils.DashboardCacheResource, map[string]string{
		"view":      "colaboradores_resumo",
		"loja":      filters.Loja,
		"consultor": filters.Consultor,
		"limit":     strconv.Itoa(limit),
		"offset":    strconv.Itoa(offset),
	})

	var result ColaboradoresResumoResult
	if s.fromCache(ctx, key, &result) {
		return &result, nil
	}

	rows, total, err := s.repo.ColaboradoresResumo(filters, limit, offset)
	if err != nil {
		return nil, err
	}
	result = ColaboradoresResumoResult{Rows: rows, Total: total}
	s.toCache(ctx, key, result)
	return &result, nil
}
