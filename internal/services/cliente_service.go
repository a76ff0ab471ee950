package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
)

type ClienteService struct {
	db core.DbClient
}

func NewClienteService(db core.DbClient) *ClienteService {
	return &ClienteService{db: db}
}

type NuevoCliente struct {
	Nombre             string `json:"nombre"`
	DocumentoIdentidad string `json:"documento_identidad"`
	TipoPersona        string `json:"tipo_persona"`
	Email              string `json:"email"`
	Telefono           string `json:"telefono"`
	Direccion          string `json:"direccion"`
}

// Crear registers a client, rejecting duplicate cedula/RNC numbers.
func (s *ClienteService) Crear(ctx context.Context, datos NuevoCliente) (*models.Cliente, error) {
	if datos.DocumentoIdentidad != "" {
		existente, err := s.db.GetClienteByDocumentoIdentidad(ctx, datos.DocumentoIdentidad)
		if err != nil {
			return nil, err
		}
		if existente != nil {
			return nil, fmt.Errorf("ya existe un cliente registrado con este documento de identidad")
		}
	}

	tipo := datos.TipoPersona
	if tipo == "" {
		tipo = "Fisica"
	}

	cliente := &models.Cliente{
		ID:                 uuid.NewString(),
		Nombre:             datos.Nombre,
		DocumentoIdentidad: datos.DocumentoIdentidad,
		TipoPersona:        tipo,
		Email:              datos.Email,
		Telefono:           datos.Telefono,
		Direccion:          datos.Direccion,
	}
	if err := s.db.CreateCliente(ctx, cliente); err != nil {
		return nil, err
	}
	return cliente, nil
}

func (s *ClienteService) Todos(ctx context.Context) ([]models.Cliente, error) {
	return s.db.ListClientes(ctx)
}

func (s *ClienteService) PorID(ctx context.Context, id string) (*models.Cliente, error) {
	return s.db.GetClienteByID(ctx, id)
}
