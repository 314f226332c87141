package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa-orchestrator/internal/adapter/repository"
	"docqa-orchestrator/internal/domain"
)

// countingStore is an in-memory DocumentStore that counts loads.
type countingStore struct {
	indexes map[string]*domain.FlatIndex
	chunks  map[string][]domain.Chunk
	loads   int
}

func newCountingStore() *countingStore {
	return &countingStore{
		indexes: make(map[string]*domain.FlatIndex),
		chunks:  make(map[string][]domain.Chunk),
	}
}

func (s *countingStore) SaveIndex(_ context.Context, documentID string, index *domain.FlatIndex, chunks []domain.Chunk) error {
	s.indexes[documentID] = index
	s.chunks[documentID] = chunks
	return nil
}

func (s *countingStore) LoadIndex(_ context.Context, documentID string) (*domain.FlatIndex, []domain.Chunk, error) {
	s.loads++
	index, ok := s.indexes[documentID]
	if !ok {
		return nil, nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotIngested)
	}
	return index, s.chunks[documentID], nil
}

func (s *countingStore) DeleteDocument(_ context.Context, documentID string) error {
	delete(s.indexes, documentID)
	delete(s.chunks, documentID)
	return nil
}

func seedDocument(t *testing.T, store domain.DocumentStore, documentID string) {
	t.Helper()
	index := domain.NewFlatIndex(2)
	require.NoError(t, index.Add([]float32{1, 0}))
	chunks := []domain.Chunk{{ID: "p1_c0", Text: "seeded chunk text", Page: 1}}
	require.NoError(t, store.SaveIndex(context.Background(), documentID, index, chunks))
}

func TestCachedStore_SecondLoadHitsCache(t *testing.T) {
	inner := newCountingStore()
	cached, err := repository.NewCachedStore(inner, 4)
	require.NoError(t, err)

	seedDocument(t, cached, "doc-1")

	_, _, err = cached.LoadIndex(context.Background(), "doc-1")
	require.NoError(t, err)
	_, _, err = cached.LoadIndex(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.loads)
}

func TestCachedStore_SaveInvalidates(t *testing.T) {
	inner := newCountingStore()
	cached, err := repository.NewCachedStore(inner, 4)
	require.NoError(t, err)

	seedDocument(t, cached, "doc-1")
	_, _, err = cached.LoadIndex(context.Background(), "doc-1")
	require.NoError(t, err)

	// re-ingestion replaces the index; the next load must see it
	newIndex := domain.NewFlatIndex(2)
	require.NoError(t, newIndex.Add([]float32{0, 1}))
	require.NoError(t, cached.SaveIndex(context.Background(), "doc-1", newIndex,
		[]domain.Chunk{{ID: "p1_c0", Text: "replacement chunk text", Page: 1}}))

	index, chunks, err := cached.LoadIndex(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, index.Vector(0))
	assert.Equal(t, "replacement chunk text", chunks[0].Text)
	assert.Equal(t, 2, inner.loads)
}

func TestCachedStore_DeleteInvalidates(t *testing.T) {
	inner := newCountingStore()
	cached, err := repository.NewCachedStore(inner, 4)
	require.NoError(t, err)

	seedDocument(t, cached, "doc-1")
	_, _, err = cached.LoadIndex(context.Background(), "doc-1")
	require.NoError(t, err)

	require.NoError(t, cached.DeleteDocument(context.Background(), "doc-1"))

	_, _, err = cached.LoadIndex(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotIngested)
}

func TestCachedStore_ErrorsAreNotCached(t *testing.T) {
	inner := newCountingStore()
	cached, err := repository.NewCachedStore(inner, 4)
	require.NoError(t, err)

	_, _, err = cached.LoadIndex(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotIngested)

	seedDocument(t, cached, "missing")
	_, _, err = cached.LoadIndex(context.Background(), "missing")
	assert.NoError(t, err)
}
