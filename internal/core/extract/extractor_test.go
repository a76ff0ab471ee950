package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

type fakePDF struct {
	texto string
	err   error
}

func (f fakePDF) Parse(context.Context, []byte) (string, error) { return f.texto, f.err }

type fakeWord struct {
	texto string
	err   error
}

func (f fakeWord) Parse(context.Context, []byte) (string, error) { return f.texto, f.err }

type fakeOCR struct {
	texto   string
	err     error
	llamado bool
}

func (f *fakeOCR) Recognize(context.Context, []byte, string) (string, error) {
	f.llamado = true
	return f.texto, f.err
}

func newExtractor(pdf fakePDF, word fakeWord, ocr *fakeOCR) *Extractor {
	return NewExtractor(pdf, word, ocr, logger.NewNop())
}

func TestExtractPDFWithTextLayerSkipsOCR(t *testing.T) {
	ocr := &fakeOCR{}
	e := newExtractor(fakePDF{texto: "SENTENCIA CIVIL NO. 123-2026 del tribunal"}, fakeWord{}, ocr)

	texto, err := e.Extract(context.Background(), []byte("pdf"), "sentencia.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "SENTENCIA CIVIL NO. 123-2026 del tribunal", texto)
	assert.False(t, ocr.llamado)
}

func TestExtractScannedPDFFallsBackToOCR(t *testing.T) {
	// ten characters or fewer of native text means a scanned document
	ocr := &fakeOCR{texto: "texto reconocido por OCR"}
	e := newExtractor(fakePDF{texto: "  a1  "}, fakeWord{}, ocr)

	texto, err := e.Extract(context.Background(), []byte("pdf"), "escaneado.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "texto reconocido por OCR", texto)
	assert.True(t, ocr.llamado)
}

func TestExtractPDFParserErrorFallsBackToOCR(t *testing.T) {
	ocr := &fakeOCR{texto: "rescatado"}
	e := newExtractor(fakePDF{err: errors.New("pdf corrupto")}, fakeWord{}, ocr)

	texto, err := e.Extract(context.Background(), []byte("pdf"), "roto.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "rescatado", texto)
}

func TestExtractDocxNeverUsesOCR(t *testing.T) {
	ocr := &fakeOCR{}
	e := newExtractor(fakePDF{}, fakeWord{err: errors.New("docx ilegible")}, ocr)

	_, err := e.Extract(context.Background(), []byte("docx"), "contrato.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.Error(t, err)
	assert.False(t, ocr.llamado)
}

func TestExtractDocxByFilenameSuffix(t *testing.T) {
	ocr := &fakeOCR{}
	e := newExtractor(fakePDF{}, fakeWord{texto: "cláusulas del contrato"}, ocr)

	texto, err := e.Extract(context.Background(), []byte("docx"), "Contrato.DOCX", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "cláusulas del contrato", texto)
	assert.False(t, ocr.llamado)
}

func TestExtractImageGoesToOCR(t *testing.T) {
	ocr := &fakeOCR{texto: "acto de alguacil"}
	e := newExtractor(fakePDF{}, fakeWord{}, ocr)

	texto, err := e.Extract(context.Background(), []byte("img"), "acto.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "acto de alguacil", texto)
}

func TestExtractOCRRefusesDocxSuffix(t *testing.T) {
	// even if dispatch ever routes a .docx toward OCR, the engine guard holds
	ocr := &fakeOCR{}
	e := newExtractor(fakePDF{}, fakeWord{}, ocr)

	_, err := e.runOCR(context.Background(), []byte("docx"), "archivo.docx", "application/octet-stream")
	require.ErrorIs(t, err, core.ErrOCRUnsupported)
	assert.False(t, ocr.llamado)
}

func TestExtractOCRFailureIsFatal(t *testing.T) {
	ocr := &fakeOCR{err: errors.New("tesseract no disponible")}
	e := newExtractor(fakePDF{}, fakeWord{}, ocr)

	_, err := e.Extract(context.Background(), []byte("img"), "foto.jpg", "image/jpeg")
	require.Error(t, err)
}
