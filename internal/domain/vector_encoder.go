package domain

import (
	"context"
)

// VectorEncoder defines the interface for generating embeddings.
// One fixed model is used per deployment; chunk and query embeddings
// must come from the same encoder.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
