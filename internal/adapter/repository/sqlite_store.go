package repository

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"docqa-orchestrator/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS doc_indexes (
	document_id TEXT PRIMARY KEY,
	dimension   INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL,
	indexed_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS doc_chunks (
	document_id TEXT    NOT NULL,
	ordinal     INTEGER NOT NULL,
	chunk_id    TEXT    NOT NULL,
	page        INTEGER NOT NULL,
	chunk_index INTEGER NOT NULL,
	content     TEXT    NOT NULL,
	embedding   BLOB    NOT NULL,
	PRIMARY KEY (document_id, ordinal)
);
`

// sqliteStore is a single-file DocumentStore for deployments without a
// PostgreSQL instance. Embeddings are stored as little-endian float32
// blobs.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed
// DocumentStore at the given path.
func NewSQLiteStore(ctx context.Context, path string) (domain.DocumentStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent ingestion.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) SaveIndex(ctx context.Context, documentID string, index *domain.FlatIndex, chunks []domain.Chunk) error {
	if index.Rows() != len(chunks) {
		return fmt.Errorf("index rows (%d) do not match chunk count (%d)", index.Rows(), len(chunks))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_indexes WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear previous index: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO doc_indexes (document_id, dimension, chunk_count) VALUES (?, ?, ?)`,
		documentID, index.Dim(), len(chunks),
	); err != nil {
		return fmt.Errorf("failed to insert index metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO doc_chunks (document_id, ordinal, chunk_id, page, chunk_index, content, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx,
			documentID, i, chunk.ID, chunk.Page, chunk.ChunkIndex, chunk.Text,
			encodeVector(index.Vector(i)),
		); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

func (s *sqliteStore) LoadIndex(ctx context.Context, documentID string) (*domain.FlatIndex, []domain.Chunk, error) {
	var dimension, chunkCount int
	err := s.db.QueryRowContext(ctx,
		`SELECT dimension, chunk_count FROM doc_indexes WHERE document_id = ?`,
		documentID,
	).Scan(&dimension, &chunkCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotIngested)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query index metadata: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chunk_id, page, chunk_index, content, embedding
		 FROM doc_chunks
		 WHERE document_id = ?
		 ORDER BY ordinal ASC`,
		documentID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	index := domain.NewFlatIndex(dimension)
	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Page, &c.ChunkIndex, &c.Text, &blob); err != nil {
			return nil, nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Length = len(c.Text)
		vec, err := decodeVector(blob, dimension)
		if err != nil {
			return nil, nil, fmt.Errorf("document %s: %v: %w", documentID, err, domain.ErrCorruptIndex)
		}
		if err := index.Add(vec); err != nil {
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

func (s *sqliteStore) DeleteDocument(ctx context.Context, documentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_indexes WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to delete index metadata: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte, dimension int) ([]float32, error) {
	if len(blob) != 4*dimension {
		return nil, fmt.Errorf("embedding blob is %d bytes, expected %d", len(blob), 4*dimension)
	}
	vec := make([]float32, dimension)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}
