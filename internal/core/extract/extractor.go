package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

const (
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// A PDF text layer shorter than this after trimming is treated as
	// unusable (scanned pages often carry a few stray glyphs) and the file
	// goes through OCR instead.
	minPDFTextLen = 10
)

// PDFParser extracts the native text layer of a PDF.
type PDFParser interface {
	Parse(ctx context.Context, data []byte) (string, error)
}

// WordParser extracts the text of a .docx container.
type WordParser interface {
	Parse(ctx context.Context, data []byte) (string, error)
}

// OCREngine recognizes text in an image or scanned document.
type OCREngine interface {
	Recognize(ctx context.Context, data []byte, mimetype string) (string, error)
}

// Extractor dispatches a stored file to the right parsing strategy based on
// its declared media type, with OCR as the universal fallback.
type Extractor struct {
	pdf  PDFParser
	word WordParser
	ocr  OCREngine
	log  *logger.Logger
}

var _ core.TextExtractor = (*Extractor)(nil)

func NewExtractor(pdf PDFParser, word WordParser, ocr OCREngine, log *logger.Logger) *Extractor {
	return &Extractor{pdf: pdf, word: word, ocr: ocr, log: log}
}

// Extract returns the raw text of the file. Rules:
//
//   - PDF: native text layer first; an empty or sub-threshold result (or a
//     parser error) falls through to OCR on the same bytes.
//   - Word (.docx by mimetype or filename): native extraction only. OCR is
//     never attempted on a docx, it cannot parse an XML container.
//   - anything else: straight to OCR.
//
// An OCR failure is fatal for the document.
func (e *Extractor) Extract(ctx context.Context, data []byte, nombreArchivo, mimetype string) (string, error) {
	switch {
	case mimetype == mimePDF:
		texto, err := e.pdf.Parse(ctx, data)
		if err != nil {
			e.log.Warn("native pdf extraction failed, falling back to OCR",
				"archivo", nombreArchivo, "error", err)
			return e.runOCR(ctx, data, nombreArchivo, mimetype)
		}
		if len(strings.TrimSpace(texto)) > minPDFTextLen {
			return texto, nil
		}
		e.log.Info("pdf has no usable text layer, falling back to OCR", "archivo", nombreArchivo)
		return e.runOCR(ctx, data, nombreArchivo, mimetype)

	case mimetype == mimeDocx || strings.HasSuffix(strings.ToLower(nombreArchivo), ".docx"):
		texto, err := e.word.Parse(ctx, data)
		if err != nil {
			return "", fmt.Errorf("docx extraction: %w", err)
		}
		return texto, nil

	default:
		return e.runOCR(ctx, data, nombreArchivo, mimetype)
	}
}

func (e *Extractor) runOCR(ctx context.Context, data []byte, nombreArchivo, mimetype string) (string, error) {
	// Guard against ever handing a Word container to the OCR engine; it
	// would either hang or return garbage.
	if strings.HasSuffix(strings.ToLower(nombreArchivo), ".docx") {
		return "", core.ErrOCRUnsupported
	}

	texto, err := e.ocr.Recognize(ctx, data, mimetype)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return texto, nil
}
