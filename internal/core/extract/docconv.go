package extract

import (
	"bytes"
	"context"
	"fmt"

	"code.sajari.com/docconv"
)

// DocconvPDF parses the native text layer of a PDF via docconv (pdftotext).
type DocconvPDF struct{}

func (DocconvPDF) Parse(_ context.Context, data []byte) (string, error) {
	texto, _, err := docconv.ConvertPDF(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("docconv pdf: %w", err)
	}
	return texto, nil
}

// DocconvWord parses .docx containers natively.
type DocconvWord struct{}

func (DocconvWord) Parse(_ context.Context, data []byte) (string, error) {
	texto, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("docconv docx: %w", err)
	}
	return texto, nil
}

// DocconvOCR recognizes text in images and scanned files through docconv's
// tesseract integration. Language is fixed at construction; legal documents
// here are Spanish, so "spa" in production.
type DocconvOCR struct {
	Language string
}

func (o DocconvOCR) Recognize(_ context.Context, data []byte, mimetype string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), mimetype, false)
	if err != nil {
		return "", fmt.Errorf("docconv ocr (%s): %w", mimetype, err)
	}
	return res.Body, nil
}
