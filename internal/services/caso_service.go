package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
)

type CasoService struct {
	db core.DbClient
}

func NewCasoService(db core.DbClient) *CasoService {
	return &CasoService{db: db}
}

type NuevoCaso struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Tribunales  string `json:"tribunales"`
	ClienteID   string `json:"cliente_id"`
}

// Crear opens a new expediente for an existing client and assigns it its
// official file number: EXP-<year>-<zero-padded sequence>.
func (s *CasoService) Crear(ctx context.Context, datos NuevoCaso) (*models.Caso, error) {
	cliente, err := s.db.GetClienteByID(ctx, datos.ClienteID)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, fmt.Errorf("el cliente especificado no existe")
	}

	caso := &models.Caso{
		ID:          uuid.NewString(),
		Titulo:      datos.Titulo,
		Descripcion: datos.Descripcion,
		Tribunales:  datos.Tribunales,
		Estatus:     "Abierto",
		ClienteID:   cliente.ID,
	}
	if err := s.db.CreateCaso(ctx, caso); err != nil {
		return nil, err
	}

	total, err := s.db.CountCasos(ctx)
	if err != nil {
		return nil, err
	}
	caso.NumeroExpediente = fmt.Sprintf("EXP-%d-%04d", time.Now().Year(), total)
	if err := s.db.UpdateCasoExpediente(ctx, caso.ID, caso.NumeroExpediente); err != nil {
		return nil, err
	}
	caso.Cliente = cliente
	return caso, nil
}

func (s *CasoService) Todos(ctx context.Context) ([]models.Caso, error) {
	casos, err := s.db.ListCasos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range casos {
		if cl, err := s.db.GetClienteByID(ctx, casos[i].ClienteID); err == nil {
			casos[i].Cliente = cl
		}
	}
	return casos, nil
}

// PorID returns a case with its client, documents and alerts attached.
func (s *CasoService) PorID(ctx context.Context, id string) (*models.Caso, error) {
	caso, err := s.db.GetCasoByID(ctx, id)
	if err != nil || caso == nil {
		return caso, err
	}

	if caso.Cliente, err = s.db.GetClienteByID(ctx, caso.ClienteID); err != nil {
		return nil, err
	}
	if caso.Documentos, err = s.db.ListDocumentosByCaso(ctx, id); err != nil {
		return nil, err
	}
	if caso.Alertas, err = s.db.ListAlertasByCaso(ctx, id); err != nil {
		return nil, err
	}
	return caso, nil
}
