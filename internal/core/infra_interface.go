package core

import (
	"context"
	"time"

	"github.com/eymatos/jurisia/internal/models"
)

// DbClient defines every persistence operation the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a
// specific DB, and so tests can substitute an in-memory fake.
type DbClient interface {
	// usuarios
	CreateUsuario(ctx context.Context, u *models.Usuario) error
	GetUsuarioByEmail(ctx context.Context, email string) (*models.Usuario, error)
	TouchUltimaConexion(ctx context.Context, id string) error

	// clientes
	CreateCliente(ctx context.Context, c *models.Cliente) error
	GetClienteByID(ctx context.Context, id string) (*models.Cliente, error)
	GetClienteByDocumentoIdentidad(ctx context.Context, documento string) (*models.Cliente, error)
	ListClientes(ctx context.Context) ([]models.Cliente, error)
	CountClientes(ctx context.Context) (int, error)

	// casos
	CreateCaso(ctx context.Context, c *models.Caso) error
	UpdateCasoExpediente(ctx context.Context, id, numeroExpediente string) error
	GetCasoByID(ctx context.Context, id string) (*models.Caso, error)
	ListCasos(ctx context.Context) ([]models.Caso, error)
	ListCasosRecientes(ctx context.Context, limit int) ([]models.Caso, error)
	CountCasos(ctx context.Context) (int, error)
	EstatusDistribucion(ctx context.Context) (map[string]int, error)

	// documentos
	CreateDocumento(ctx context.Context, d *models.Documento) error
	GetDocumentoByID(ctx context.Context, id string) (*models.Documento, error)
	ListDocumentosByCaso(ctx context.Context, casoID string) ([]models.Documento, error)
	SearchDocumentos(ctx context.Context, casoID, termino string) ([]models.Documento, error)
	UpdateDocumentoTexto(ctx context.Context, id, texto string) error
	UpdateDocumentoResumen(ctx context.Context, id, resumen string) error
	UpdateDocumentoVectorID(ctx context.Context, id, vectorID string) error
	UpdateDocumentoEstado(ctx context.Context, id string, estado models.EstadoDocumento) error
	ResetDocumentosEnProceso(ctx context.Context) ([]string, error)

	// chunks (vector index)
	UpsertChunks(ctx context.Context, chunks []models.DocumentoChunk) error
	SearchChunks(ctx context.Context, queryVec []float32, casoID string, topK int) ([]models.Coincidencia, error)

	// alertas
	CreateAlerta(ctx context.Context, a *models.Alerta) error
	ListAlertasByCaso(ctx context.Context, casoID string) ([]models.Alerta, error)
	ListAlertasUrgentes(ctx context.Context, horizonte time.Duration) ([]models.Alerta, error)
	ListAlertasProximas(ctx context.Context, desde, hasta time.Time) ([]models.Alerta, error)
	ListAlertasPorNotificar(ctx context.Context, hasta time.Time) ([]models.Alerta, error)
	MarkAlertaCompletada(ctx context.Context, id string) error
	MarkAlertaNotificada(ctx context.Context, id string) error
	DeleteAlerta(ctx context.Context, id string) error
	CountAlertasCriticas(ctx context.Context) (int, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
