package core

import "errors"

var (
	// ErrOCRUnsupported marks a file the OCR engine must refuse outright,
	// such as a .docx container, instead of grinding on it forever.
	ErrOCRUnsupported = errors.New("ocr: unsupported input format")

	// ErrMissingVectors is returned when the embedding call produced no
	// usable vector values; the indexer reacts with a placeholder-vector
	// retry so metadata stays filterable.
	ErrMissingVectors = errors.New("embed: no vector values returned")
)
