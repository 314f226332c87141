package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"docqa-orchestrator/internal/domain"
)

// Search embeds every query variant, runs nearest-neighbor search per
// variant in parallel, and collects all hits at or above the score
// threshold. Hits are merged in variant order so the result sequence is
// deterministic regardless of goroutine scheduling. No deduplication
// happens here; the same chunk may appear once per variant.
func Search(
	ctx context.Context,
	sc *StageContext,
	encoder domain.VectorEncoder,
	logger *slog.Logger,
) error {
	if len(sc.Variants) == 0 {
		return fmt.Errorf("no query variants to search")
	}

	encodeStart := time.Now()
	embeddings, err := encoder.Encode(ctx, sc.Variants)
	if err != nil {
		return fmt.Errorf("failed to encode query variants: %w", err)
	}
	if len(embeddings) != len(sc.Variants) {
		return fmt.Errorf("expected %d embeddings, got %d", len(sc.Variants), len(embeddings))
	}

	logger.Info("variants_encoded",
		slog.String("retrieval_id", sc.RetrievalID),
		slog.Int("variant_count", len(sc.Variants)),
		slog.Int64("duration_ms", time.Since(encodeStart).Milliseconds()))

	// Query vectors get the same normalization as chunk vectors so
	// inner product stays equivalent to cosine similarity.
	for i := range embeddings {
		embeddings[i] = domain.Normalize(embeddings[i])
	}

	k := searchK(sc.TopK, sc.Intent.Complexity, sc.Index.Rows())

	searchStart := time.Now()
	perVariant := make([][]domain.IndexHit, len(sc.Variants))

	g, _ := errgroup.WithContext(ctx)
	for i := range sc.Variants {
		g.Go(func() error {
			perVariant[i] = sc.Index.Search(embeddings[i], k)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, variant := range sc.Variants {
		for _, hit := range perVariant[i] {
			if hit.Score < sc.ScoreThreshold {
				continue
			}
			sc.Hits = append(sc.Hits, domain.RetrievalHit{
				Chunk:         sc.Chunks[hit.Row],
				Score:         hit.Score,
				SourceVariant: variant,
			})
		}
	}

	logger.Info("variant_search_completed",
		slog.String("retrieval_id", sc.RetrievalID),
		slog.Int("variant_count", len(sc.Variants)),
		slog.Int("k", k),
		slog.Int("hit_count", len(sc.Hits)),
		slog.Int64("duration_ms", time.Since(searchStart).Milliseconds()))

	return nil
}

// searchK scales the per-variant candidate count with question
// complexity, capped at the document's chunk count.
func searchK(base int, complexity domain.Complexity, totalChunks int) int {
	k := base
	if complexity == domain.ComplexityComplex {
		k = base * 2
	}
	if k > totalChunks {
		k = totalChunks
	}
	return k
}
