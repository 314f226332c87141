package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"
)

// IngestDocumentUsecase turns a document's extracted pages into a
// searchable vector index.
type IngestDocumentUsecase interface {
	// Ingest chunks, embeds and indexes the pages, replacing any prior
	// index for the document. It returns the number of indexed chunks.
	Ingest(ctx context.Context, documentID string, pages []domain.Page) (int, error)
}

type ingestDocumentUsecase struct {
	chunker domain.Chunker
	encoder domain.VectorEncoder
	store   domain.DocumentStore
	logger  *slog.Logger
}

// NewIngestDocumentUsecase creates the ingestion usecase.
func NewIngestDocumentUsecase(
	chunker domain.Chunker,
	encoder domain.VectorEncoder,
	store domain.DocumentStore,
	logger *slog.Logger,
) IngestDocumentUsecase {
	return &ingestDocumentUsecase{
		chunker: chunker,
		encoder: encoder,
		store:   store,
		logger:  logger,
	}
}

func (u *ingestDocumentUsecase) Ingest(ctx context.Context, documentID string, pages []domain.Page) (int, error) {
	if documentID == "" {
		return 0, fmt.Errorf("document id is required")
	}

	start := time.Now()

	var chunks []domain.Chunk
	for _, page := range pages {
		page.Text = domain.CleanPageText(page.Text)
		chunks = append(chunks, u.chunker.Chunk(page)...)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s: %w", documentID, domain.ErrEmptyExtraction)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := u.encoder.Encode(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed %d chunks for document %s: %w", len(chunks), documentID, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(embeddings))
	}
	if len(embeddings[0]) == 0 {
		return 0, fmt.Errorf("encoder returned zero-dimensional embeddings")
	}

	index := domain.NewFlatIndex(len(embeddings[0]))
	for i, vec := range embeddings {
		if err := index.Add(domain.Normalize(vec)); err != nil {
			return 0, fmt.Errorf("failed to index chunk %d: %w", i, err)
		}
	}

	// Row i of the index must describe chunks[i]; search results are
	// resolved by row number alone.
	if index.Rows() != len(chunks) {
		return 0, fmt.Errorf("index rows (%d) diverged from chunk count (%d): %w",
			index.Rows(), len(chunks), domain.ErrCorruptIndex)
	}

	if err := u.store.SaveIndex(ctx, documentID, index, chunks); err != nil {
		return 0, fmt.Errorf("failed to persist index for document %s: %w", documentID, err)
	}

	u.logger.Info("document_indexed",
		slog.String("document_id", documentID),
		slog.Int("page_count", len(pages)),
		slog.Int("chunk_count", len(chunks)),
		slog.Int("dimension", index.Dim()),
		slog.Duration("duration", time.Since(start)),
	)
	return len(chunks), nil
}
