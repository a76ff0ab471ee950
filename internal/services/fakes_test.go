package services

import (
	"context"
	"time"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
)

// fakeDB implements the slices of core.DbClient the service tests exercise.
// The embedded interface panics on anything a test did not stub, so an
// unexpected call fails loudly.
type fakeDB struct {
	core.DbClient

	casos    map[string]*models.Caso
	clientes map[string]*models.Cliente
	alertas  []models.Alerta

	crearAlertaErr error
	totalCasos     int

	porNotificar []models.Alerta
	notificadas  []string
	completadas  []string

	expedientes map[string]string

	documentos map[string]*models.Documento
	estados    []models.EstadoDocumento
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		casos:       map[string]*models.Caso{},
		clientes:    map[string]*models.Cliente{},
		expedientes: map[string]string{},
		documentos:  map[string]*models.Documento{},
	}
}

func (f *fakeDB) GetCasoByID(_ context.Context, id string) (*models.Caso, error) {
	return f.casos[id], nil
}

func (f *fakeDB) GetClienteByID(_ context.Context, id string) (*models.Cliente, error) {
	return f.clientes[id], nil
}

func (f *fakeDB) CreateCaso(_ context.Context, c *models.Caso) error {
	f.casos[c.ID] = c
	f.totalCasos++
	return nil
}

func (f *fakeDB) CountCasos(context.Context) (int, error) {
	return f.totalCasos, nil
}

func (f *fakeDB) UpdateCasoExpediente(_ context.Context, id, numero string) error {
	f.expedientes[id] = numero
	return nil
}

func (f *fakeDB) CreateDocumento(_ context.Context, d *models.Documento) error {
	f.documentos[d.ID] = d
	return nil
}

func (f *fakeDB) GetDocumentoByID(_ context.Context, id string) (*models.Documento, error) {
	return f.documentos[id], nil
}

func (f *fakeDB) UpdateDocumentoEstado(_ context.Context, id string, estado models.EstadoDocumento) error {
	f.estados = append(f.estados, estado)
	if d := f.documentos[id]; d != nil {
		d.Estado = estado
	}
	return nil
}

func (f *fakeDB) GetClienteByDocumentoIdentidad(_ context.Context, documento string) (*models.Cliente, error) {
	for _, c := range f.clientes {
		if c.DocumentoIdentidad == documento {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CreateCliente(_ context.Context, c *models.Cliente) error {
	f.clientes[c.ID] = c
	return nil
}

func (f *fakeDB) CreateAlerta(_ context.Context, a *models.Alerta) error {
	if f.crearAlertaErr != nil {
		return f.crearAlertaErr
	}
	f.alertas = append(f.alertas, *a)
	return nil
}

func (f *fakeDB) ListAlertasPorNotificar(_ context.Context, _ time.Time) ([]models.Alerta, error) {
	return f.porNotificar, nil
}

func (f *fakeDB) MarkAlertaNotificada(_ context.Context, id string) error {
	f.notificadas = append(f.notificadas, id)
	return nil
}

func (f *fakeDB) MarkAlertaCompletada(_ context.Context, id string) error {
	f.completadas = append(f.completadas, id)
	return nil
}

// fakeLLMBase gives analyzer fakes no-op defaults so each test only overrides
// the method it cares about.
type fakeLLMBase struct{}

func (fakeLLMBase) AnalyzeLegalText(context.Context, string) (string, error) { return "", nil }
func (fakeLLMBase) DetectDeadlines(context.Context, string, time.Time) ([]models.PlazoDetectado, error) {
	return nil, nil
}
func (fakeLLMBase) AnswerWithContext(context.Context, string, string) (string, error) {
	return "", nil
}
func (fakeLLMBase) ConsultaGeneral(context.Context, string) (string, error) { return "", nil }
func (fakeLLMBase) DraftLegalBrief(context.Context, string, string, string) (string, error) {
	return "", nil
}
