package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

type fakeDB struct {
	core.DbClient

	mu          sync.Mutex
	doc         *models.Documento
	estados     []models.EstadoDocumento
	texto       string
	resumen     string
	vector      string
	inconclusos []string
}

func (f *fakeDB) ResetDocumentosEnProceso(context.Context) ([]string, error) {
	return f.inconclusos, nil
}

func (f *fakeDB) ultimoEstado() models.EstadoDocumento {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.estados) == 0 {
		return ""
	}
	return f.estados[len(f.estados)-1]
}

func (f *fakeDB) GetDocumentoByID(_ context.Context, id string) (*models.Documento, error) {
	if f.doc != nil && f.doc.ID == id {
		return f.doc, nil
	}
	return nil, nil
}

func (f *fakeDB) UpdateDocumentoEstado(_ context.Context, _ string, estado models.EstadoDocumento) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.estados = append(f.estados, estado)
	return nil
}

func (f *fakeDB) UpdateDocumentoTexto(_ context.Context, _, texto string) error {
	f.texto = texto
	return nil
}

func (f *fakeDB) UpdateDocumentoResumen(_ context.Context, _, resumen string) error {
	f.resumen = resumen
	return nil
}

func (f *fakeDB) UpdateDocumentoVectorID(_ context.Context, _, vectorID string) error {
	f.vector = vectorID
	return nil
}

type fakeObjects struct {
	data []byte
	err  error
}

func (f *fakeObjects) UploadFile(context.Context, string, string, []byte, string) (string, error) {
	return "", errors.New("no usado")
}
func (f *fakeObjects) DeleteFile(context.Context, string, string) error { return nil }
func (f *fakeObjects) GetFile(context.Context, string, string) ([]byte, error) {
	return f.data, f.err
}

type fakeExtractor struct {
	texto string
	err   error
}

func (f *fakeExtractor) Extract(context.Context, []byte, string, string) (string, error) {
	return f.texto, f.err
}

type fakeLLM struct {
	resumen    string
	resumenErr error
	plazos     []models.PlazoDetectado
	plazosErr  error
	referencia time.Time
}

func (f *fakeLLM) AnalyzeLegalText(context.Context, string) (string, error) {
	return f.resumen, f.resumenErr
}
func (f *fakeLLM) DetectDeadlines(_ context.Context, _ string, referencia time.Time) ([]models.PlazoDetectado, error) {
	f.referencia = referencia
	return f.plazos, f.plazosErr
}
func (f *fakeLLM) AnswerWithContext(context.Context, string, string) (string, error) {
	return "", nil
}
func (f *fakeLLM) ConsultaGeneral(context.Context, string) (string, error) { return "", nil }
func (f *fakeLLM) DraftLegalBrief(context.Context, string, string, string) (string, error) {
	return "", nil
}

type fakeIndexer struct {
	err      error
	indexado string
}

func (f *fakeIndexer) IndexDocument(_ context.Context, doc *models.Documento, texto string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.indexado = texto
	return doc.ID, nil
}
func (f *fakeIndexer) Query(context.Context, string, string, int) ([]models.Coincidencia, error) {
	return nil, nil
}

type fakeMaterializer struct {
	recibidos []models.PlazoDetectado
	llamado   bool
}

func (f *fakeMaterializer) CrearDesdePlazos(_ context.Context, plazos []models.PlazoDetectado, _ *models.Documento) (int, int, error) {
	f.llamado = true
	f.recibidos = plazos
	return len(plazos), 0, nil
}

func documentoPendiente() *models.Documento {
	return &models.Documento{
		ID:            "doc-1",
		CasoID:        "caso-1",
		NombreArchivo: "demanda.pdf",
		RutaURL:       "https://jurisia-docs.s3.us-east-1.amazonaws.com/casos/caso-1/doc-1_demanda.pdf",
		TipoMimetype:  "application/pdf",
		Estado:        models.EstadoPendiente,
		FechaSubida:   time.Now(),
	}
}

type fixture struct {
	db      *fakeDB
	llm     *fakeLLM
	indexer *fakeIndexer
	alertas *fakeMaterializer
	p       *Pipeline
}

func newFixture(extractor *fakeExtractor, llm *fakeLLM, indexer *fakeIndexer) *fixture {
	db := &fakeDB{doc: documentoPendiente()}
	alertas := &fakeMaterializer{}
	p := NewPipeline(Deps{
		DB:        db,
		Objects:   &fakeObjects{data: []byte("pdf")},
		Extractor: extractor,
		LLM:       llm,
		Indexer:   indexer,
		Alertas:   alertas,
		Logger:    logger.NewNop(),
	}, 1, 4)
	return &fixture{db: db, llm: llm, indexer: indexer, alertas: alertas, p: p}
}

func TestProcessOneHappyPath(t *testing.T) {
	fx := newFixture(
		&fakeExtractor{texto: "texto de la demanda"},
		&fakeLLM{
			resumen: "Resumen ejecutivo del documento",
			plazos: []models.PlazoDetectado{
				{Titulo: "Octava franca", FechaVencimiento: "2026-09-05", Prioridad: "alta"},
			},
		},
		&fakeIndexer{},
	)

	require.NoError(t, fx.p.ProcessOne(context.Background(), "doc-1"))

	assert.Equal(t, []models.EstadoDocumento{
		models.EstadoExtrayendo,
		models.EstadoResumiendo,
		models.EstadoIndexando,
		models.EstadoDetectandoPlazos,
		models.EstadoProcesado,
	}, fx.db.estados)
	assert.Equal(t, "texto de la demanda", fx.db.texto)
	assert.Equal(t, "Resumen ejecutivo del documento", fx.db.resumen)
	assert.Equal(t, "doc-1", fx.db.vector)
	require.True(t, fx.alertas.llamado)
	assert.Len(t, fx.alertas.recibidos, 1)
}

func TestProcessOneExtractionFailureIsTerminal(t *testing.T) {
	fx := newFixture(
		&fakeExtractor{err: core.ErrOCRUnsupported},
		&fakeLLM{},
		&fakeIndexer{},
	)

	err := fx.p.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)

	assert.Equal(t, []models.EstadoDocumento{
		models.EstadoExtrayendo,
		models.EstadoFalloExtraccion,
	}, fx.db.estados)
	assert.Empty(t, fx.db.texto)
	assert.False(t, fx.alertas.llamado)
}

func TestProcessOneSummaryFailureDegrades(t *testing.T) {
	fx := newFixture(
		&fakeExtractor{texto: "texto"},
		&fakeLLM{
			resumen:    "No se pudo procesar el análisis de IA: timeout",
			resumenErr: errors.New("timeout"),
		},
		&fakeIndexer{},
	)

	require.NoError(t, fx.p.ProcessOne(context.Background(), "doc-1"))

	// the degraded message is persisted and the document still completes
	assert.Equal(t, "No se pudo procesar el análisis de IA: timeout", fx.db.resumen)
	assert.Equal(t, models.EstadoProcesado, fx.db.estados[len(fx.db.estados)-1])
}

func TestProcessOneIndexFailureStopsBeforeDeadlines(t *testing.T) {
	fx := newFixture(
		&fakeExtractor{texto: "texto"},
		&fakeLLM{resumen: "resumen"},
		&fakeIndexer{err: errors.New("embedder caído")},
	)

	err := fx.p.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)

	assert.Equal(t, models.EstadoFalloIndexacion, fx.db.estados[len(fx.db.estados)-1])
	assert.False(t, fx.alertas.llamado)
	assert.Empty(t, fx.db.vector)
}

func TestProcessOneDeadlineFailureStillCompletes(t *testing.T) {
	fx := newFixture(
		&fakeExtractor{texto: "texto"},
		&fakeLLM{resumen: "resumen", plazosErr: errors.New("json roto")},
		&fakeIndexer{},
	)

	require.NoError(t, fx.p.ProcessOne(context.Background(), "doc-1"))
	assert.Equal(t, models.EstadoProcesado, fx.db.estados[len(fx.db.estados)-1])
	assert.False(t, fx.alertas.llamado)
}

func TestProcessOneDownloadFailureIsExtractionFailure(t *testing.T) {
	db := &fakeDB{doc: documentoPendiente()}
	p := NewPipeline(Deps{
		DB:        db,
		Objects:   &fakeObjects{err: errors.New("s3 404")},
		Extractor: &fakeExtractor{},
		LLM:       &fakeLLM{},
		Indexer:   &fakeIndexer{},
		Alertas:   &fakeMaterializer{},
		Logger:    logger.NewNop(),
	}, 1, 4)

	err := p.ProcessOne(context.Background(), "doc-1")
	require.Error(t, err)
	assert.Equal(t, models.EstadoFalloExtraccion, db.estados[len(db.estados)-1])
}

func TestEnqueueRejectsWhenFull(t *testing.T) {
	p := NewPipeline(Deps{Logger: logger.NewNop()}, 1, 1)
	require.NoError(t, p.Enqueue("doc-1"))
	require.Error(t, p.Enqueue("doc-2"))
}

func TestStartRecoversStrandedDocuments(t *testing.T) {
	// a restart mid-pipeline leaves the document in an in-flight estado and
	// the queued job id gone; Start must pick it back up without operator help
	fx := newFixture(&fakeExtractor{texto: "texto"}, &fakeLLM{resumen: "r"}, &fakeIndexer{})
	fx.db.doc.Estado = models.EstadoResumiendo
	fx.db.inconclusos = []string{"doc-1"}

	ctx, cancel := context.WithCancel(context.Background())
	fx.p.Start(ctx)

	require.Eventually(t, func() bool {
		return fx.db.ultimoEstado() == models.EstadoProcesado
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	fx.p.Wait()
}

func TestDetectDeadlinesReferenceIsDetectionTime(t *testing.T) {
	llm := &fakeLLM{resumen: "r"}
	fx := newFixture(&fakeExtractor{texto: "responder en 10 días"}, llm, &fakeIndexer{})
	fx.db.doc.FechaSubida = time.Now().AddDate(0, 0, -30)

	require.NoError(t, fx.p.ProcessOne(context.Background(), "doc-1"))

	// relative deadlines must resolve against now, not the upload date
	assert.WithinDuration(t, time.Now(), llm.referencia, time.Minute)
	assert.True(t, llm.referencia.Sub(fx.db.doc.FechaSubida) > 24*time.Hour)
}

func TestWorkersDrainQueue(t *testing.T) {
	fx := newFixture(&fakeExtractor{texto: "texto"}, &fakeLLM{resumen: "r"}, &fakeIndexer{})

	ctx, cancel := context.WithCancel(context.Background())
	fx.p.Start(ctx)
	require.NoError(t, fx.p.Enqueue("doc-1"))

	require.Eventually(t, func() bool {
		return fx.db.ultimoEstado() == models.EstadoProcesado
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	fx.p.Wait()
}
