package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

func docDeIngesta() *models.Documento {
	return &models.Documento{
		ID:            "doc-7",
		CasoID:        "caso-3",
		NombreArchivo: "emplazamiento.pdf",
	}
}

func TestCrearDesdePlazosSkipsInvalidDates(t *testing.T) {
	db := newFakeDB()
	svc := NewAlertaService(db, logger.NewNop())

	plazos := []models.PlazoDetectado{
		{Titulo: "Octava franca", Descripcion: "Comparecencia", FechaVencimiento: "2026-09-05", Prioridad: "alta"},
		{Titulo: "Plazo fantasma", Descripcion: "fecha rota", FechaVencimiento: "el martes que viene", Prioridad: "alta"},
		{Titulo: "Apelación", Descripcion: "30 días", FechaVencimiento: "2026-09-27", Prioridad: "critica"},
		{Titulo: "Otro roto", Descripcion: "", FechaVencimiento: "2026-13-45", Prioridad: "baja"},
	}

	creadas, omitidas, err := svc.CrearDesdePlazos(context.Background(), plazos, docDeIngesta())
	require.NoError(t, err)
	assert.Equal(t, 2, creadas)
	assert.Equal(t, 2, omitidas)
	require.Len(t, db.alertas, 2)

	assert.Equal(t, "Octava franca", db.alertas[0].Titulo)
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), db.alertas[0].FechaVencimiento)
	assert.Equal(t, models.PrioridadCritica, db.alertas[1].Prioridad)
}

func TestCrearDesdePlazosProvenance(t *testing.T) {
	db := newFakeDB()
	svc := NewAlertaService(db, logger.NewNop())

	plazos := []models.PlazoDetectado{
		{Titulo: "Casación", Descripcion: "Recurso ante la SCJ", FechaVencimiento: "2026-10-01"},
	}
	_, _, err := svc.CrearDesdePlazos(context.Background(), plazos, docDeIngesta())
	require.NoError(t, err)

	require.Len(t, db.alertas, 1)
	a := db.alertas[0]
	assert.Equal(t, "Recurso ante la SCJ (Detectado del archivo: emplazamiento.pdf)", a.Descripcion)
	assert.Equal(t, "caso-3", a.CasoID)
	assert.Equal(t, "doc-7", a.DocumentoOrigenID)
	// unrecognized priority collapses to the default
	assert.Equal(t, models.PrioridadMedia, a.Prioridad)
}

func TestCrearDesdePlazosIsAdditive(t *testing.T) {
	db := newFakeDB()
	svc := NewAlertaService(db, logger.NewNop())

	plazos := []models.PlazoDetectado{
		{Titulo: "Audiencia", Descripcion: "Primera audiencia", FechaVencimiento: "2026-09-15", Prioridad: "alta"},
	}
	for i := 0; i < 2; i++ {
		_, _, err := svc.CrearDesdePlazos(context.Background(), plazos, docDeIngesta())
		require.NoError(t, err)
	}
	// reprocessing duplicates rather than deduplicating; cleanup is manual
	assert.Len(t, db.alertas, 2)
}

func TestCrearDesdePlazosStopsOnPersistenceError(t *testing.T) {
	db := newFakeDB()
	db.crearAlertaErr = errors.New("db caída")
	svc := NewAlertaService(db, logger.NewNop())

	plazos := []models.PlazoDetectado{
		{Titulo: "Audiencia", FechaVencimiento: "2026-09-15"},
	}
	creadas, _, err := svc.CrearDesdePlazos(context.Background(), plazos, docDeIngesta())
	require.Error(t, err)
	assert.Equal(t, 0, creadas)
}

func TestCrearAlertaManualRequiresCaso(t *testing.T) {
	db := newFakeDB()
	svc := NewAlertaService(db, logger.NewNop())

	_, err := svc.Crear(context.Background(), NuevaAlerta{
		Titulo:           "Depósito de escrito",
		CasoID:           "no-existe",
		FechaVencimiento: time.Now().AddDate(0, 0, 3),
	})
	require.Error(t, err)

	db.casos["caso-3"] = &models.Caso{ID: "caso-3"}
	alerta, err := svc.Crear(context.Background(), NuevaAlerta{
		Titulo:           "Depósito de escrito",
		CasoID:           "caso-3",
		FechaVencimiento: time.Now().AddDate(0, 0, 3),
		Prioridad:        "urgentísima",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PrioridadMedia, alerta.Prioridad)
	assert.Empty(t, alerta.DocumentoOrigenID)
}
