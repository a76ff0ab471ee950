package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearClienteRejectsDuplicateDocumento(t *testing.T) {
	db := newFakeDB()
	svc := NewClienteService(db)

	primero, err := svc.Crear(context.Background(), NuevoCliente{
		Nombre:             "Juana Pérez",
		DocumentoIdentidad: "001-1234567-8",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fisica", primero.TipoPersona)

	_, err = svc.Crear(context.Background(), NuevoCliente{
		Nombre:             "Otra Persona",
		DocumentoIdentidad: "001-1234567-8",
	})
	require.Error(t, err)
}

func TestCrearClienteSinDocumentoNoChecaDuplicados(t *testing.T) {
	db := newFakeDB()
	svc := NewClienteService(db)

	for i := 0; i < 2; i++ {
		_, err := svc.Crear(context.Background(), NuevoCliente{Nombre: "Anónimo"})
		require.NoError(t, err)
	}
	assert.Len(t, db.clientes, 2)
}
