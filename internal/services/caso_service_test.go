package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eymatos/jurisia/internal/models"
)

func TestCrearCasoAssignsExpediente(t *testing.T) {
	db := newFakeDB()
	db.clientes["cli-1"] = &models.Cliente{ID: "cli-1", Nombre: "Juana Pérez"}
	svc := NewCasoService(db)

	caso, err := svc.Crear(context.Background(), NuevoCaso{
		Titulo:    "Demanda laboral",
		ClienteID: "cli-1",
	})
	require.NoError(t, err)

	esperado := fmt.Sprintf("EXP-%d-0001", time.Now().Year())
	assert.Equal(t, esperado, caso.NumeroExpediente)
	assert.Equal(t, esperado, db.expedientes[caso.ID])
	assert.Equal(t, "Abierto", caso.Estatus)
	require.NotNil(t, caso.Cliente)
	assert.Equal(t, "Juana Pérez", caso.Cliente.Nombre)

	segundo, err := svc.Crear(context.Background(), NuevoCaso{Titulo: "Cobro de pesos", ClienteID: "cli-1"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("EXP-%d-0002", time.Now().Year()), segundo.NumeroExpediente)
}

func TestCrearCasoRequiresCliente(t *testing.T) {
	svc := NewCasoService(newFakeDB())
	_, err := svc.Crear(context.Background(), NuevoCaso{Titulo: "Sin cliente", ClienteID: "nadie"})
	require.Error(t, err)
}
