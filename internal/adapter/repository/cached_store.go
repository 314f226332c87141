package repository

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"docqa-orchestrator/internal/domain"
)

type cacheEntry struct {
	index  *domain.FlatIndex
	chunks []domain.Chunk
}

// cachedStore keeps recently loaded indexes in memory so repeated
// questions against the same document skip the storage round trip.
// Saves and deletes invalidate the cached entry before hitting the
// underlying store, so a failed write never leaves a stale index
// visible.
type cachedStore struct {
	inner domain.DocumentStore
	cache *lru.Cache[string, cacheEntry]
}

// NewCachedStore wraps a DocumentStore with an LRU index cache holding
// up to size documents.
func NewCachedStore(inner domain.DocumentStore, size int) (domain.DocumentStore, error) {
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &cachedStore{inner: inner, cache: cache}, nil
}

func (s *cachedStore) SaveIndex(ctx context.Context, documentID string, index *domain.FlatIndex, chunks []domain.Chunk) error {
	s.cache.Remove(documentID)
	return s.inner.SaveIndex(ctx, documentID, index, chunks)
}

func (s *cachedStore) LoadIndex(ctx context.Context, documentID string) (*domain.FlatIndex, []domain.Chunk, error) {
	if entry, ok := s.cache.Get(documentID); ok {
		return entry.index, entry.chunks, nil
	}

	index, chunks, err := s.inner.LoadIndex(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Add(documentID, cacheEntry{index: index, chunks: chunks})
	return index, chunks, nil
}

func (s *cachedStore) DeleteDocument(ctx context.Context, documentID string) error {
	s.cache.Remove(documentID)
	return s.inner.DeleteDocument(ctx, documentID)
}
