package domain

import "errors"

var (
	// ErrNotIngested is returned when a query targets a document with
	// no persisted index and chunks.
	ErrNotIngested = errors.New("document not ingested")

	// ErrEmptyExtraction is returned when ingestion receives no usable
	// pages or chunks. No index is persisted in that case.
	ErrEmptyExtraction = errors.New("no extractable text in document")

	// ErrCorruptIndex is returned when the persisted index row count
	// does not match the persisted chunk count. Retrieval against such
	// a document would silently return wrong chunks.
	ErrCorruptIndex = errors.New("index rows and chunk metadata are out of sync")

	// ErrModelUnavailable is returned when an embedding or answering
	// backend is unreachable or unconfigured.
	ErrModelUnavailable = errors.New("model backend unavailable")
)
