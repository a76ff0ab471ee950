package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

// AlertaService owns procedural-deadline alerts: manual CRUD plus the
// materialization of AI-detected deadline candidates during ingestion.
type AlertaService struct {
	db  core.DbClient
	log *logger.Logger
}

var _ core.DeadlineMaterializer = (*AlertaService)(nil)

func NewAlertaService(db core.DbClient, log *logger.Logger) *AlertaService {
	return &AlertaService{db: db, log: log}
}

type NuevaAlerta struct {
	Titulo           string                 `json:"titulo"`
	Descripcion      string                 `json:"descripcion"`
	FechaVencimiento time.Time              `json:"fecha_vencimiento"`
	Prioridad        models.PrioridadAlerta `json:"prioridad"`
	CasoID           string                 `json:"caso_id"`
	DocumentoID      string                 `json:"documento_id"`
}

// Crear registers a manual alert after checking the case exists.
func (s *AlertaService) Crear(ctx context.Context, datos NuevaAlerta) (*models.Alerta, error) {
	caso, err := s.db.GetCasoByID(ctx, datos.CasoID)
	if err != nil {
		return nil, err
	}
	if caso == nil {
		return nil, fmt.Errorf("el caso especificado no existe")
	}

	alerta := &models.Alerta{
		ID:                uuid.NewString(),
		Titulo:            datos.Titulo,
		Descripcion:       datos.Descripcion,
		FechaVencimiento:  datos.FechaVencimiento,
		Prioridad:         models.ParsePrioridad(string(datos.Prioridad)),
		CasoID:            caso.ID,
		DocumentoOrigenID: datos.DocumentoID,
	}
	if err := s.db.CreateAlerta(ctx, alerta); err != nil {
		return nil, err
	}
	return alerta, nil
}

// CrearDesdePlazos materializes AI-detected deadline candidates into alerts
// for the document's case. Per candidate: the due date must parse as an ISO
// calendar date or the candidate is skipped (never failing the batch), the
// priority is coerced onto the enum, and the description gains a provenance
// suffix naming the source file. Purely additive: reprocessing the same
// document creates a second set of alerts.
func (s *AlertaService) CrearDesdePlazos(ctx context.Context, plazos []models.PlazoDetectado, doc *models.Documento) (int, int, error) {
	var creadas, omitidas int
	for _, plazo := range plazos {
		vencimiento, err := time.Parse("2006-01-02", plazo.FechaVencimiento)
		if err != nil {
			s.log.Warn("plazo con fecha inválida omitido",
				"documento", doc.ID, "titulo", plazo.Titulo, "fecha", plazo.FechaVencimiento)
			omitidas++
			continue
		}

		alerta := &models.Alerta{
			ID:                uuid.NewString(),
			Titulo:            plazo.Titulo,
			Descripcion:       fmt.Sprintf("%s (Detectado del archivo: %s)", plazo.Descripcion, doc.NombreArchivo),
			FechaVencimiento:  vencimiento,
			Prioridad:         models.ParsePrioridad(plazo.Prioridad),
			CasoID:            doc.CasoID,
			DocumentoOrigenID: doc.ID,
		}
		if err := s.db.CreateAlerta(ctx, alerta); err != nil {
			return creadas, omitidas, fmt.Errorf("crear alerta %q: %w", plazo.Titulo, err)
		}
		creadas++
	}
	return creadas, omitidas, nil
}

func (s *AlertaService) PorCaso(ctx context.Context, casoID string) ([]models.Alerta, error) {
	return s.db.ListAlertasByCaso(ctx, casoID)
}

// Urgentes returns incomplete alerts due within the given window, most
// urgent first. Used by the dashboard.
func (s *AlertaService) Urgentes(ctx context.Context, horas int) ([]models.Alerta, error) {
	if horas <= 0 {
		horas = 48
	}
	return s.db.ListAlertasUrgentes(ctx, time.Duration(horas)*time.Hour)
}

func (s *AlertaService) Completar(ctx context.Context, id string) error {
	return s.db.MarkAlertaCompletada(ctx, id)
}

func (s *AlertaService) Eliminar(ctx context.Context, id string) error {
	return s.db.DeleteAlerta(ctx, id)
}
