package core

// Enqueuer hands a stored document off to the ingestion pipeline. The upload
// path depends on this instead of the pipeline itself so the HTTP layer and
// the worker pool stay decoupled.
type Enqueuer interface {
	// Enqueue schedules the document for processing. It returns an error when
	// the queue is full rather than blocking the caller.
	Enqueue(documentoID string) error
}
