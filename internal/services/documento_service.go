package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/eymatos/jurisia/internal/config"
	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

// DocumentoService handles the synchronous half of a document's life: the
// upload that stores the file and its record, and the queries over what the
// asynchronous pipeline has produced so far.
type DocumentoService struct {
	db      core.DbClient
	objects core.ObjectClient
	queue   core.Enqueuer
	bucket  string
	log     *logger.Logger
}

func NewDocumentoService(db core.DbClient, objects core.ObjectClient, queue core.Enqueuer, cfg *config.Config, log *logger.Logger) *DocumentoService {
	return &DocumentoService{db: db, objects: objects, queue: queue, bucket: cfg.BucketName, log: log}
}

// Subir stores the file in object storage, persists the Documento in estado
// pendiente and hands it to the pipeline. The caller gets the record back
// immediately; text, summary and vectors arrive asynchronously.
func (s *DocumentoService) Subir(ctx context.Context, casoID, nombreArchivo, mimetype string, data []byte) (*models.Documento, error) {
	caso, err := s.db.GetCasoByID(ctx, casoID)
	if err != nil {
		return nil, err
	}
	if caso == nil {
		return nil, fmt.Errorf("el caso especificado no existe")
	}

	id := uuid.NewString()
	key := path.Join("casos", casoID, id+"_"+nombreArchivo)
	url, err := s.objects.UploadFile(ctx, s.bucket, key, data, mimetype)
	if err != nil {
		return nil, fmt.Errorf("subir archivo: %w", err)
	}

	doc := &models.Documento{
		ID:            id,
		CasoID:        casoID,
		NombreArchivo: nombreArchivo,
		RutaURL:       url,
		TipoMimetype:  mimetype,
		Estado:        models.EstadoPendiente,
		FechaSubida:   time.Now(),
	}
	if err := s.db.CreateDocumento(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(doc.ID); err != nil {
		// The record exists and can be requeued later, so a full queue is
		// reported but does not undo the upload.
		s.log.Error("no se pudo encolar el documento", "documento", doc.ID, "error", err)
		return doc, fmt.Errorf("documento guardado pero no encolado: %w", err)
	}
	return doc, nil
}

func (s *DocumentoService) PorCaso(ctx context.Context, casoID string) ([]models.Documento, error) {
	return s.db.ListDocumentosByCaso(ctx, casoID)
}

func (s *DocumentoService) PorID(ctx context.Context, id string) (*models.Documento, error) {
	return s.db.GetDocumentoByID(ctx, id)
}

// Buscar does a plain-text search over filenames, extracted text and
// summaries of a case's documents.
func (s *DocumentoService) Buscar(ctx context.Context, casoID, termino string) ([]models.Documento, error) {
	return s.db.SearchDocumentos(ctx, casoID, termino)
}

// Reprocesar puts a terminal document back on the queue. In-flight documents
// are rejected so two workers never process the same file concurrently.
func (s *DocumentoService) Reprocesar(ctx context.Context, id string) (*models.Documento, error) {
	doc, err := s.db.GetDocumentoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("el documento no existe")
	}

	switch doc.Estado {
	case models.EstadoProcesado, models.EstadoFalloExtraccion, models.EstadoFalloIndexacion, models.EstadoPendiente:
	default:
		return nil, fmt.Errorf("el documento está siendo procesado (estado %s)", doc.Estado)
	}

	if err := s.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoPendiente); err != nil {
		return nil, err
	}
	doc.Estado = models.EstadoPendiente
	if err := s.queue.Enqueue(doc.ID); err != nil {
		return nil, fmt.Errorf("encolar reproceso: %w", err)
	}
	return doc, nil
}
