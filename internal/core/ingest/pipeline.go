package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/core/objectstore"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

// Pipeline is the asynchronous document processor. Uploads enqueue a document
// id; a fixed pool of workers drains the queue and runs each document through
// extraction, summarization, indexing and deadline detection, persisting the
// stage transitions so progress survives a restart.
type Pipeline struct {
	db        core.DbClient
	objects   core.ObjectClient
	extractor core.TextExtractor
	llm       core.LegalAnalyzer
	indexer   core.VectorIndexer
	alertas   core.DeadlineMaterializer
	log       *logger.Logger

	jobs    chan string
	workers int
	wg      sync.WaitGroup
}

var _ core.Enqueuer = (*Pipeline)(nil)

type Deps struct {
	DB        core.DbClient
	Objects   core.ObjectClient
	Extractor core.TextExtractor
	LLM       core.LegalAnalyzer
	Indexer   core.VectorIndexer
	Alertas   core.DeadlineMaterializer
	Logger    *logger.Logger
}

func NewPipeline(d Deps, workers, queueSize int) *Pipeline {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pipeline{
		db:        d.DB,
		objects:   d.Objects,
		extractor: d.Extractor,
		llm:       d.LLM,
		indexer:   d.Indexer,
		alertas:   d.Alertas,
		log:       d.Logger,
		jobs:      make(chan string, queueSize),
		workers:   workers,
	}
}

// Enqueue schedules a document without blocking the HTTP request that
// triggered it. A full queue is an error the caller reports to the user.
func (p *Pipeline) Enqueue(documentoID string) error {
	select {
	case p.jobs <- documentoID:
		return nil
	default:
		return fmt.Errorf("cola de ingestión llena")
	}
}

// Start recovers documents stranded by a previous run and then launches the
// worker pool. Workers exit when ctx is cancelled; Wait blocks until they do.
func (p *Pipeline) Start(ctx context.Context) {
	p.recuperarInconclusos(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.log.Info("pipeline de ingestión iniciado", "workers", p.workers, "cola", cap(p.jobs))
}

// recuperarInconclusos re-enqueues every document left in a non-terminal
// state. The queue lives in memory, so a crash or restart mid-pipeline would
// otherwise strand those documents in an in-flight estado with no worker ever
// picking them up again.
func (p *Pipeline) recuperarInconclusos(ctx context.Context) {
	ids, err := p.db.ResetDocumentosEnProceso(ctx)
	if err != nil {
		p.log.Error("no se pudieron recuperar documentos inconclusos", "error", err)
		return
	}
	for _, id := range ids {
		if err := p.Enqueue(id); err != nil {
			p.log.Warn("documento inconcluso no encolado", "documento", id, "error", err)
		}
	}
	if len(ids) > 0 {
		p.log.Info("documentos inconclusos reencolados", "cantidad", len(ids))
	}
}

func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) worker(ctx context.Context, n int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-p.jobs:
			p.procesarSeguro(ctx, id)
		}
	}
}

// procesarSeguro isolates one document: a panic while processing it is
// logged and the worker keeps draining the queue.
func (p *Pipeline) procesarSeguro(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("pánico procesando documento", "documento", id, "panic", r)
		}
	}()

	inicio := time.Now()
	if err := p.ProcessOne(ctx, id); err != nil {
		p.log.Error("procesamiento falló", "documento", id, "error", err)
		return
	}
	p.log.Info("documento procesado", "documento", id, "duración", time.Since(inicio).String())
}

// ProcessOne runs the full pipeline for one stored document. Extraction and
// indexing failures are terminal (the document lands in a fallo_* state);
// summarization and deadline detection degrade without stopping the run.
func (p *Pipeline) ProcessOne(ctx context.Context, id string) error {
	doc, err := p.db.GetDocumentoByID(ctx, id)
	if err != nil {
		return fmt.Errorf("cargar documento: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("documento %s no existe", id)
	}

	// 1. extraction
	if err := p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoExtrayendo); err != nil {
		return err
	}
	bucket, key := objectstore.ParseURL(doc.RutaURL)
	data, err := p.objects.GetFile(ctx, bucket, key)
	if err != nil {
		_ = p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoFalloExtraccion)
		return fmt.Errorf("descargar archivo: %w", err)
	}
	texto, err := p.extractor.Extract(ctx, data, doc.NombreArchivo, doc.TipoMimetype)
	if err != nil {
		_ = p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoFalloExtraccion)
		return fmt.Errorf("extraer texto: %w", err)
	}
	if err := p.db.UpdateDocumentoTexto(ctx, doc.ID, texto); err != nil {
		return err
	}

	// 2. summary; a model failure stores the degraded message and moves on
	if err := p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoResumiendo); err != nil {
		return err
	}
	resumen, err := p.llm.AnalyzeLegalText(ctx, texto)
	if err != nil {
		p.log.Warn("resumen degradado", "documento", doc.ID, "error", err)
	}
	if err := p.db.UpdateDocumentoResumen(ctx, doc.ID, resumen); err != nil {
		return err
	}

	// 3. vector indexing
	if err := p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoIndexando); err != nil {
		return err
	}
	vectorID, err := p.indexer.IndexDocument(ctx, doc, texto)
	if err != nil {
		_ = p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoFalloIndexacion)
		return fmt.Errorf("indexar documento: %w", err)
	}
	if err := p.db.UpdateDocumentoVectorID(ctx, doc.ID, vectorID); err != nil {
		return err
	}

	// 4. deadline detection; a failure here means no alerts, not a failed document
	if err := p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoDetectandoPlazos); err != nil {
		return err
	}
	// relative deadlines ("en 10 días") resolve against the moment of
	// detection, so a reprocess weeks after upload still computes them right
	plazos, err := p.llm.DetectDeadlines(ctx, texto, time.Now())
	if err != nil {
		p.log.Warn("detección de plazos falló", "documento", doc.ID, "error", err)
		plazos = nil
	}
	if len(plazos) > 0 {
		creadas, omitidas, err := p.alertas.CrearDesdePlazos(ctx, plazos, doc)
		if err != nil {
			p.log.Warn("materialización de alertas incompleta", "documento", doc.ID, "error", err)
		}
		p.log.Info("plazos materializados", "documento", doc.ID, "creadas", creadas, "omitidas", omitidas)
	}

	return p.db.UpdateDocumentoEstado(ctx, doc.ID, models.EstadoProcesado)
}
