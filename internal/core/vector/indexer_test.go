package vector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

type fakeEmbedder struct {
	err      error
	dim      int
	llamadas [][]string
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.llamadas = append(f.llamadas, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, f.dim)
		out[i][0] = float32(i + 1)
	}
	return out, nil
}

// fakeChunkStore implements only the vector-side of the db client; the
// embedded interface panics on anything else, which is what we want in a test.
type fakeChunkStore struct {
	core.DbClient
	upserted  [][]models.DocumentoChunk
	upsertErr error

	searchCasoID string
	searchTopK   int
	resultados   []models.Coincidencia
}

func (f *fakeChunkStore) UpsertChunks(_ context.Context, chunks []models.DocumentoChunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, chunks)
	return nil
}

func (f *fakeChunkStore) SearchChunks(_ context.Context, _ []float32, casoID string, topK int) ([]models.Coincidencia, error) {
	f.searchCasoID = casoID
	f.searchTopK = topK
	return f.resultados, nil
}

func docDePrueba() *models.Documento {
	return &models.Documento{
		ID:            "doc-1",
		CasoID:        "caso-9",
		NombreArchivo: "demanda.pdf",
	}
}

func TestIndexDocumentChunkIdentity(t *testing.T) {
	db := &fakeChunkStore{}
	emb := &fakeEmbedder{dim: 8}
	idx := NewIndexer(db, emb, IndexConfig{ChunkSize: 100, ChunkOverlap: 20, EmbedDim: 8}, logger.NewNop())

	texto := strings.Repeat("t", 250)
	ref, err := idx.IndexDocument(context.Background(), docDePrueba(), texto)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", ref)

	require.Len(t, db.upserted, 1)
	chunks := db.upserted[0]
	require.Len(t, chunks, 4) // ceil(250/80)
	for n, c := range chunks {
		assert.Equal(t, fmt.Sprintf("doc-1_chunk_%d", n), c.ID)
		assert.Equal(t, "caso-9", c.CasoID)
		assert.Equal(t, "demanda.pdf", c.NombreArchivo)
		assert.Equal(t, n, c.ChunkIndex)
		assert.Len(t, c.Embedding, 8)
	}
}

func TestIndexDocumentPlaceholderOnMissingVectors(t *testing.T) {
	for nombre, embErr := range map[string]error{
		"sentinel":       core.ErrMissingVectors,
		"provider-shape": errors.New(`invalid embedding: missing "values" field`),
	} {
		t.Run(nombre, func(t *testing.T) {
			db := &fakeChunkStore{}
			emb := &fakeEmbedder{err: embErr}
			idx := NewIndexer(db, emb, IndexConfig{ChunkSize: 100, ChunkOverlap: 20, EmbedDim: 16}, logger.NewNop())

			texto := strings.Repeat("t", 250)
			ref, err := idx.IndexDocument(context.Background(), docDePrueba(), texto)
			require.NoError(t, err)
			assert.Equal(t, "doc-1", ref)

			require.Len(t, db.upserted, 1)
			require.Len(t, db.upserted[0], 1)
			chunk := db.upserted[0][0]
			assert.Equal(t, "doc-1_chunk_0", chunk.ID)
			assert.Equal(t, texto, chunk.Contenido)
			require.Len(t, chunk.Embedding, 16)
			for _, v := range chunk.Embedding {
				assert.InDelta(t, 0.00001, v, 1e-9)
			}
		})
	}
}

func TestIndexConfigOverlapFallbackStaysBelowSize(t *testing.T) {
	// an overlap >= size must fall back to a fraction of the configured size,
	// not a fixed value that could itself exceed a small ChunkSize
	db := &fakeChunkStore{}
	emb := &fakeEmbedder{dim: 4}
	idx := NewIndexer(db, emb, IndexConfig{ChunkSize: 50, ChunkOverlap: 200}, logger.NewNop())

	runes := make([]rune, 120)
	for i := range runes {
		runes[i] = rune('a' + i%26)
	}
	texto := string(runes)
	_, err := idx.IndexDocument(context.Background(), docDePrueba(), texto)
	require.NoError(t, err)

	// effective overlap 50/5 = 10, so the second window starts at rune 40
	require.Len(t, db.upserted, 1)
	chunks := db.upserted[0]
	require.Len(t, chunks, 3)
	assert.Equal(t, texto[40:90], chunks[1].Contenido)
	assert.Equal(t, chunks[0].Contenido[40:], chunks[1].Contenido[:10])
}

func TestIndexDocumentOtherEmbedErrorPropagates(t *testing.T) {
	db := &fakeChunkStore{}
	emb := &fakeEmbedder{err: errors.New("rate limited")}
	idx := NewIndexer(db, emb, IndexConfig{}, logger.NewNop())

	_, err := idx.IndexDocument(context.Background(), docDePrueba(), "texto cualquiera")
	require.Error(t, err)
	assert.Empty(t, db.upserted)
}

func TestQueryScopeDefaults(t *testing.T) {
	db := &fakeChunkStore{resultados: []models.Coincidencia{{DocumentoID: "doc-1"}}}
	emb := &fakeEmbedder{dim: 8}
	idx := NewIndexer(db, emb, IndexConfig{}, logger.NewNop())

	_, err := idx.Query(context.Background(), "¿cuál es el plazo?", "caso-9", 0)
	require.NoError(t, err)
	assert.Equal(t, "caso-9", db.searchCasoID)
	assert.Equal(t, 7, db.searchTopK)

	_, err = idx.Query(context.Background(), "¿cuál es el plazo?", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "", db.searchCasoID)
	assert.Equal(t, 10, db.searchTopK)
}

func TestQuerySharesEmbedderWithIndexing(t *testing.T) {
	db := &fakeChunkStore{}
	emb := &fakeEmbedder{dim: 4}
	idx := NewIndexer(db, emb, IndexConfig{ChunkSize: 50, ChunkOverlap: 10}, logger.NewNop())

	_, err := idx.IndexDocument(context.Background(), docDePrueba(), "texto corto")
	require.NoError(t, err)
	_, err = idx.Query(context.Background(), "pregunta", "caso-9", 3)
	require.NoError(t, err)

	require.Len(t, emb.llamadas, 2)
	assert.Equal(t, []string{"pregunta"}, emb.llamadas[1])
	assert.Equal(t, 3, db.searchTopK)
}
