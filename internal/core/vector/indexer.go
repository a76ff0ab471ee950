package vector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

// IndexConfig tunes chunking and the placeholder fallback.
//
// ChunkSize / ChunkOverlap: rune window geometry (defaults 1000/200).
// EmbedDim: dimension of the placeholder vector used when the embedding
// provider returns no values.
// TopKCaso / TopKGlobal: result counts for scoped and firm-wide queries.
type IndexConfig struct {
	ChunkSize    int
	ChunkOverlap int
	EmbedDim     int
	TopKCaso     int
	TopKGlobal   int
}

func (c *IndexConfig) defaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap <= 0 || c.ChunkOverlap >= c.ChunkSize {
		// the fallback must stay below whatever size was configured, or the
		// chunker would silently drop the overlap entirely
		c.ChunkOverlap = c.ChunkSize / 5
	}
	if c.EmbedDim <= 0 {
		c.EmbedDim = 768
	}
	if c.TopKCaso <= 0 {
		c.TopKCaso = 7
	}
	if c.TopKGlobal <= 0 {
		c.TopKGlobal = 10
	}
}

// Indexer stores document text as embedded chunks and answers semantic
// queries. Indexing and querying share one EmbeddingProvider, which is what
// keeps retrieval meaningful.
type Indexer struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	cfg      IndexConfig
	log      *logger.Logger
}

var _ core.VectorIndexer = (*Indexer)(nil)

func NewIndexer(db core.DbClient, embedder core.EmbeddingProvider, cfg IndexConfig, log *logger.Logger) *Indexer {
	cfg.defaults()
	return &Indexer{db: db, embedder: embedder, cfg: cfg, log: log}
}

// IndexDocument splits texto, embeds every chunk and upserts the batch. Each
// chunk id is {documentID}_chunk_{n} so re-indexing a document overwrites its
// own records and never collides with another document's.
//
// When the embedding call reports missing vector values, the document is
// stored once more as a single record with a degenerate placeholder vector:
// similarity ranking on it is meaningless, but the metadata stays reachable
// through case-scoped filters. Any other failure propagates.
func (i *Indexer) IndexDocument(ctx context.Context, doc *models.Documento, texto string) (string, error) {
	fragmentos := SplitChunks(texto, i.cfg.ChunkSize, i.cfg.ChunkOverlap)
	if len(fragmentos) == 0 {
		fragmentos = []string{texto}
	}

	vectores, err := i.embedder.EmbedTexts(ctx, fragmentos)
	if err != nil {
		if isMissingVectors(err) {
			i.log.Warn("embedding returned no values, indexing with placeholder vector",
				"documento", doc.ID)
			return i.indexPlaceholder(ctx, doc, texto)
		}
		return "", fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectores) != len(fragmentos) {
		return "", fmt.Errorf("embed chunks: got %d vectors for %d fragments", len(vectores), len(fragmentos))
	}

	chunks := make([]models.DocumentoChunk, 0, len(fragmentos))
	for n, frag := range fragmentos {
		chunks = append(chunks, models.DocumentoChunk{
			ID:            fmt.Sprintf("%s_chunk_%d", doc.ID, n),
			DocumentoID:   doc.ID,
			CasoID:        doc.CasoID,
			NombreArchivo: doc.NombreArchivo,
			ChunkIndex:    n,
			Contenido:     frag,
			Embedding:     vectores[n],
		})
	}

	if err := i.db.UpsertChunks(ctx, chunks); err != nil {
		return "", fmt.Errorf("upsert chunks: %w", err)
	}

	i.log.Info("documento indexado", "documento", doc.ID, "fragmentos", len(chunks))
	return doc.ID, nil
}

func (i *Indexer) indexPlaceholder(ctx context.Context, doc *models.Documento, texto string) (string, error) {
	placeholder := make([]float32, i.cfg.EmbedDim)
	for n := range placeholder {
		placeholder[n] = 0.00001
	}

	chunk := models.DocumentoChunk{
		ID:            fmt.Sprintf("%s_chunk_0", doc.ID),
		DocumentoID:   doc.ID,
		CasoID:        doc.CasoID,
		NombreArchivo: doc.NombreArchivo,
		ChunkIndex:    0,
		Contenido:     texto,
		Embedding:     placeholder,
	}
	if err := i.db.UpsertChunks(ctx, []models.DocumentoChunk{chunk}); err != nil {
		return "", fmt.Errorf("upsert placeholder chunk: %w", err)
	}
	return doc.ID, nil
}

func isMissingVectors(err error) bool {
	return errors.Is(err, core.ErrMissingVectors) ||
		strings.Contains(err.Error(), "values")
}

// Query embeds texto with the same provider used for indexing and returns
// the ranked matches. casoID == "" widens the search across the whole index
// with a larger topK; otherwise results are filtered to that case.
func (i *Indexer) Query(ctx context.Context, texto, casoID string, topK int) ([]models.Coincidencia, error) {
	if topK <= 0 {
		if casoID == "" {
			topK = i.cfg.TopKGlobal
		} else {
			topK = i.cfg.TopKCaso
		}
	}

	vectores, err := i.embedder.EmbedTexts(ctx, []string{texto})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectores) == 0 || len(vectores[0]) == 0 {
		return nil, core.ErrMissingVectors
	}

	return i.db.SearchChunks(ctx, vectores[0], casoID, topK)
}
