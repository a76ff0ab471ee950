package core

import (
	"context"
	"time"

	"github.com/eymatos/jurisia/internal/models"
)

// LegalAnalyzer is the hosted chat-completion model behind summarization,
// deadline detection, RAG answering and drafting. Implementations talk to a
// single provider; callers depend only on this shape.
type LegalAnalyzer interface {
	// AnalyzeLegalText produces the structured legal summary. Callers treat
	// a failure as a degraded summary, never as a pipeline abort.
	AnalyzeLegalText(ctx context.Context, texto string) (string, error)

	// DetectDeadlines extracts every explicit or computable deadline from the
	// text, resolving relative deadlines against referencia. An empty slice
	// is the "no deadlines found" signal.
	DetectDeadlines(ctx context.Context, texto string, referencia time.Time) ([]models.PlazoDetectado, error)

	// AnswerWithContext answers strictly from the supplied context fragments.
	AnswerWithContext(ctx context.Context, pregunta, contexto string) (string, error)

	// ConsultaGeneral answers a general legal question with no document context.
	ConsultaGeneral(ctx context.Context, pregunta string) (string, error)

	// DraftLegalBrief writes a first draft of a legal filing of the given type.
	DraftLegalBrief(ctx context.Context, tipo, contextoExpediente, clienteNombre string) (string, error)
}

// EmbeddingProvider turns texts into vectors. The indexer uses one provider
// for both indexing and querying so the two are always in the same space.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndexer stores a document's text as retrievable chunks and answers
// semantic queries, scoped to one case or across the whole firm.
type VectorIndexer interface {
	IndexDocument(ctx context.Context, doc *models.Documento, texto string) (string, error)
	Query(ctx context.Context, texto, casoID string, topK int) ([]models.Coincidencia, error)
}

// TextExtractor produces raw text from a stored file, choosing the parsing
// strategy from the declared media type.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, nombreArchivo, mimetype string) (string, error)
}

// DeadlineMaterializer converts detected deadline candidates into persisted
// alerts for the originating case and document.
type DeadlineMaterializer interface {
	CrearDesdePlazos(ctx context.Context, plazos []models.PlazoDetectado, doc *models.Documento) (creadas, omitidas int, err error)
}
