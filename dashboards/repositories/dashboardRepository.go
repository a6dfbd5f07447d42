package repositories

import (
	"gorm.io/gorm"

	"epi-compliance-backend/db/models"
)

// StatusResumoRow is one slice of the compliance donut: an EPI status and how
// many active links currently hold it.
type StatusResumoRow struct {
	Status   string `json:"status"`
	Severity int    `json:"severity"`
	ColorHex string `json:"color_hex"`
	Value    int64  `json:"value"`
}

// LojaVencidosRow ranks a store by expired active links.
type LojaVencidosRow struct {
	Loja     string `json:"loja"`
	Vencidos int64  `json:"vencidos"`
}

// ColaboradorResumoRow is one line of the per-collaborator compliance table.
type ColaboradorResumoRow struct {
	ID         string  `json:"id"`
	Nome       string  `json:"nome"`
	Loja       string  `json:"loja"`
	Consultor  string  `json:"consultor"`
	Cargo      *string `json:"cargo"`
	Status     *string `json:"status"`
	ColorHex   *string `json:"color_hex"`
	DataStatus *string `json:"data_status"`
	TotalEpis  int64   `json:"total_epis"`
	Vencidos   int64   `json:"vencidos"`
	Pendentes  int64   `json:"pendentes"`
}

// FilterOptions are the distinct values the dashboard filter dropdowns offer.
type FilterOptions struct {
	Lojas       []string `json:"lojas"`
	Consultores []string `json:"consultores"`
	Status      []string `json:"status"`
}

// DashboardFilters narrow every aggregate to one store and/or consultant.
type DashboardFilters struct {
	Loja      string
	Consultor string
}

type DashboardRepository struct {
	db *gorm.DB
}

type DashboardRepositoryInterface interface {
	StatusResumo(filters DashboardFilters) ([]StatusResumoRow, error)
	TopLojasVencidos(limit int) ([]LojaVencidosRow, error)
	ColaboradoresResumo(filters DashboardFilters, limit, offset int) ([]ColaboradorResumoRow, int64, error)
	FilterOptions() (*FilterOptions, error)
}

func NewDashboardRepository(db *gorm.DB) (*DashboardRepository, DashboardRepositoryInterface) {
	repo := &DashboardRepository{db: db}
	return repo, repo
}

func applyColaboradorFilters(query *gorm.DB, filters DashboardFilters) *gorm.DB {
	if filters.Loja != "" {
		query = query.Where("colaborador.loja = ?", filters.Loja)
	}
	if filters.Consultor != "" {
		query = query.Where("colaborador.consultor = ?", filters.Consultor)
	}
	return query
}

// StatusResumo counts active collaborator-EPI links per EPI status kind,
// ordered by ascending severity (worst first).
func (r *DashboardRepository) StatusResumo(filters DashboardFilters) ([]StatusResumoRow, error) {
	query := r.db.Model(&models.ColaboradorEpi{}).
		Select("status_epi_kind.name AS status, status_epi_kind.severity, status_epi_kind.color_hex, COUNT(colaborador_epi.id) AS value").
		Joins("JOIN status_epi_kind ON status_epi_kind.id = colaborador_epi.status_epi_id").
		Joins("JOIN colaborador ON colaborador.id = colaborador_epi.colaborador_id AND colaborador.deleted_at IS NULL").
		Where("colaborador_epi.ativo")
	query = applyColaboradorFilters(query, filters)

	var rows []StatusResumoRow
	err := query.
		Group("status_epi_kind.name, status_epi_kind.severity, status_epi_kind.color_hex").
		Order("status_epi_kind.severity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopLojasVencidos ranks stores by the number of active links whose EPI
// status classifies as expired.
func (r *DashboardRepository) TopLojasVencidos(limit int) ([]LojaVencidosRow, error) {
	var rows []LojaVencidosRow
	err := r.db.Model(&models.ColaboradorEpi{}).
		Select("colaborador.loja, COUNT(colaborador_epi.id) AS vencidos").
		Joins("JOIN status_epi_kind ON status_epi_kind.id = colaborador_epi.status_epi_id").
		Joins("JOIN colaborador ON colaborador.id = colaborador_epi.colaborador_id AND colaborador.deleted_at IS NULL").
		Where("colaborador_epi.ativo AND status_epi_kind.normalized LIKE ?", "%VENCID%").
		Group("colaborador.loja").
		Order("vencidos DESC, colaborador.loja").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

const linkCountExpr = `(SELECT COUNT(*) FROM colaborador_epi ce
	JOIN status_epi_kind sk ON sk.id = ce.status_epi_id
	WHERE ce.colaborador_id = colaborador.id AND ce.ativo AND sk.normalized LIKE ?)`

// ColaboradoresResumo pages the per-collaborator table: general status plus
// active link counts, total and broken down by expired/pending.
func (r *DashboardRepository) ColaboradoresResumo(filters DashboardFilters, limit, offset int) ([]ColaboradorResumoRow, int64, error) {
	var total int64
	countQuery := applyColaboradorFilters(r.db.Model(&models.Colaborador{}), filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyColaboradorFilters(r.db.Model(&models.Colaborador{}), filters)
	var rows []ColaboradorResumoRow
	err := query.
		Select(`colaborador.id, colaborador.nome, colaborador.loja, colaborador.consultor, colaborador.cargo,
			status_geral_kind.name AS status, status_geral_kind.color_hex, colaborador.data_status,
			(SELECT COUNT(*) FROM colaborador_epi ce WHERE ce.colaborador_id = colaborador.id AND ce.ativo) AS total_epis,
			`+linkCountExpr+` AS vencidos,
			`+linkCountExpr+` AS pendentes`,
			"%VENCID%", "%PENDEN%").
		Joins("LEFT JOIN status_geral_kind ON status_geral_kind.id = colaborador.status_geral_id").
		Order("colaborador.nome").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FilterOptions lists the distinct values available for dashboard filtering.
func (r *DashboardRepository) FilterOptions() (*FilterOptions, error) {
	options := &FilterOptions{}

	err := r.db.Model(&models.Colaborador{}).
		Distinct("loja").
		Order("loja").
		Pluck("loja", &options.Lojas).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Colaborador{}).
		Distinct("consultor").
		Order("consultor").
		Pluck("consultor", &options.Consultores).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.StatusEpiKind{}).
		Order("severity").
		Pluck("name", &options.Status).Error
	if err != nil {
		return nil, err
	}

	return options, nil
}
