package domain

import "context"

// DocumentStore persists one vector index plus its parallel chunk
// sequence per document. Implementations must write the pair
// atomically enough that a crash between the two halves is detectable:
// a partial write surfaces as ErrNotIngested or ErrCorruptIndex on
// load, never as silently mismatched data.
type DocumentStore interface {
	// SaveIndex replaces any previously stored state for the document.
	SaveIndex(ctx context.Context, documentID string, index *FlatIndex, chunks []Chunk) error

	// LoadIndex returns the stored index and chunks. It returns
	// ErrNotIngested when the document is unknown and ErrCorruptIndex
	// when the two halves disagree.
	LoadIndex(ctx context.Context, documentID string) (*FlatIndex, []Chunk, error)

	// DeleteDocument removes all stored state for the document.
	// Deleting an unknown document is not an error.
	DeleteDocument(ctx context.Context, documentID string) error
}
