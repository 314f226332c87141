package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"docqa-orchestrator/internal/domain"
)

// postgresStore persists document indexes in two tables: doc_indexes
// holds one row of index metadata per document and doc_chunks holds one
// row per chunk with its normalized embedding. Chunk rows are ordered
// by ordinal so the in-memory index can be rebuilt with row i matching
// chunk i.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a DocumentStore backed by PostgreSQL with
// the pgvector extension.
func NewPostgresStore(pool *pgxpool.Pool) domain.DocumentStore {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) SaveIndex(ctx context.Context, documentID string, index *domain.FlatIndex, chunks []domain.Chunk) error {
	if index.Rows() != len(chunks) {
		return fmt.Errorf("index rows (%d) do not match chunk count (%d)", index.Rows(), len(chunks))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Re-ingestion replaces the previous index atomically.
	if _, err := tx.Exec(ctx, `DELETE FROM doc_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM doc_indexes WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to clear previous index: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO doc_indexes (document_id, dimension, chunk_count, indexed_at)
		 VALUES ($1, $2, $3, now())`,
		documentID, index.Dim(), len(chunks),
	); err != nil {
		return fmt.Errorf("failed to insert index metadata: %w", err)
	}

	rows := make([][]interface{}, len(chunks))
	for i, chunk := range chunks {
		rows[i] = []interface{}{
			documentID,
			i,
			chunk.ID,
			chunk.Page,
			chunk.ChunkIndex,
			chunk.Text,
			pgvector.NewVector(index.Vector(i)),
		}
	}
	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"doc_chunks"},
		[]string{"document_id", "ordinal", "chunk_id", "page", "chunk_index", "content", "embedding"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("failed to bulk insert chunks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

func (s *postgresStore) LoadIndex(ctx context.Context, documentID string) (*domain.FlatIndex, []domain.Chunk, error) {
	var dimension, chunkCount int
	err := s.pool.QueryRow(ctx,
		`SELECT dimension, chunk_count FROM doc_indexes WHERE document_id = $1`,
		documentID,
	).Scan(&dimension, &chunkCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotIngested)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query index metadata: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT chunk_id, page, chunk_index, content, embedding
		 FROM doc_chunks
		 WHERE document_id = $1
		 ORDER BY ordinal ASC`,
		documentID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	index := domain.NewFlatIndex(dimension)
	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var embedding pgvector.Vector
		if err := rows.Scan(&c.ID, &c.Page, &c.ChunkIndex, &c.Text, &embedding); err != nil {
			return nil, nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Length = len(c.Text)
		if err := index.Add(embedding.Slice()); err != nil {
			return nil, nil, fmt.Errorf("document %s: %v: %w", documentID, err, domain.ErrCorruptIndex)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows error: %w", err)
	}

	if len(chunks) != chunkCount {
		return nil, nil, fmt.Errorf("document %s: expected %d chunks, found %d: %w",
			documentID, chunkCount, len(chunks), domain.ErrCorruptIndex)
	}
	return index, chunks, nil
}

func (s *postgresStore) DeleteDocument(ctx context.Context, documentID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM doc_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM doc_indexes WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to delete index metadata: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
