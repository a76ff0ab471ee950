package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
)

type DashboardService struct {
	db core.DbClient
}

func NewDashboardService(db core.DbClient) *DashboardService {
	return &DashboardService{db: db}
}

type Estadisticas struct {
	TotalCasos          int             `json:"total_casos"`
	TotalClientes       int             `json:"total_clientes"`
	AlertasCriticas     int             `json:"alertas_criticas"`
	CasosPorEstatus     map[string]int  `json:"casos_por_estatus"`
	CasosRecientes      []models.Caso   `json:"casos_recientes"`
	ProximosVencimiento []models.Alerta `json:"proximos_vencimientos"`
}

// Resumen aggregates the firm-wide KPIs shown on the landing dashboard.
// The queries are independent so they run concurrently.
func (s *DashboardService) Resumen(ctx context.Context) (*Estadisticas, error) {
	stats := &Estadisticas{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalCasos, err = s.db.CountCasos(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalClientes, err = s.db.CountClientes(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.AlertasCriticas, err = s.db.CountAlertasCriticas(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.CasosPorEstatus, err = s.db.EstatusDistribucion(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.CasosRecientes, err = s.db.ListCasosRecientes(ctx, 5)
		return err
	})
	g.Go(func() (err error) {
		ahora := time.Now()
		stats.ProximosVencimiento, err = s.db.ListAlertasProximas(ctx, ahora, ahora.AddDate(0, 0, 15))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
