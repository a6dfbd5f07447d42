package services

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap"

	"epi-compliance-backend/config"
	"epi-compliance-backend/dashboards/repositories"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type fakeDashboardRepo struct {
	statusCalls int
}

func (f *fakeDashboardRepo) StatusResumo(filters repositories.DashboardFilters) ([]repositories.StatusResumoRow, error) {
	f.statusCalls++
	return []repositories.StatusResumoRow{
		{Status: "Vencido", Severity: 10, ColorHex: "#ef4444", Value: 3},
	}, nil
}

func (f *fakeDashboardRepo) FilterOptions() (*repositories.FilterOptions, error) {
	return &repositories.FilterOptions{
		Lojas:       []string{"LJ01"},
		Consultores: []string{"Carlos"},
		Status:      []string{"Vencido", "OK"},
	}, nil
}

func (f *fakeDashboardRepo) TopLojasVencidos(limit int) ([]repositories.LojaVencidosRow, error) {
	return []repositories.LojaVencidosRow{{Loja: "LJ01", Vencidos: 2}}, nil
}

func (f *fakeDashboardRepo) ColaboradoresResumo(filters repositories.DashboardFilters, limit, offset int) ([]repositories.ColaboradorResumoRow, int64, error) {
	return []repositories.ColaboradorResumoRow{{Nome: "Ana"}}, 1, nil
}

func TestStatusResumoWithoutCache(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := NewDashboardService(repo, nil)

	rows, err := svc.StatusResumo(context.Background(), repositories.DashboardFilters{Loja: "LJ01"})
	if err != nil {
		t.Fatalf("StatusResumo: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != "Vencido" {
		t.Fatalf("rows = %+v", rows)
	}

	// Without Redis every call is a repository hit.
	if _, err := svc.StatusResumo(context.Background(), repositories.DashboardFilters{Loja: "LJ01"}); err != nil {
		t.Fatalf("StatusResumo: %v", err)
	}
	if repo.statusCalls != 2 {
		t.Fatalf("repo calls = %d, want 2", repo.statusCalls)
	}
}

func TestFilterOptionsPassThrough(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardRepo{}, nil)
	options, err := svc.FilterOptions(context.Background())
	if err != nil {
		t.Fatalf("FilterOptions: %v", err)
	}
	if len(options.Lojas) != 1 || len(options.Status) != 2 {
		t.Fatalf("options = %+v", options)
	}
}

func TestColaboradoresResumoBundlesTotal(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardRepo{}, nil)
	result, err := svc.ColaboradoresResumo(context.Background(), repositories.DashboardFilters{}, 10, 0)
	if err != nil {
		t.Fatalf("ColaboradoresResumo: %v", err)
	}
	if result.Total != 1 || len(result.Rows) != 1 {
		t.Fatalf("result = %+v", result)
	}
}
