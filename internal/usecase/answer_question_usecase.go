package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"
	"docqa-orchestrator/internal/usecase/synthesis"
)

// AnswerQuestionUsecase runs the full question pipeline: planning,
// retrieval, ranking, context assembly, synthesis and selection.
type AnswerQuestionUsecase interface {
	// Answer resolves a question against a previously ingested
	// document. It fails with domain.ErrNotIngested when the document
	// has no index; every other pipeline failure degrades into a
	// low-score Result.
	Answer(ctx context.Context, documentID, question string) (*Result, error)
}

type answerQuestionUsecase struct {
	store      domain.DocumentStore
	encoder    domain.VectorEncoder
	strategies []synthesis.Strategy
	cfg        RetrievalConfig
	logger     *slog.Logger
}

// NewAnswerQuestionUsecase creates the question-answering usecase.
// Strategies run in the given order; order decides ties during
// selection.
func NewAnswerQuestionUsecase(
	store domain.DocumentStore,
	encoder domain.VectorEncoder,
	strategies []synthesis.Strategy,
	cfg RetrievalConfig,
	logger *slog.Logger,
) AnswerQuestionUsecase {
	return &answerQuestionUsecase{
		store:      store,
		encoder:    encoder,
		strategies: strategies,
		cfg:        cfg,
		logger:     logger,
	}
}

func (u *answerQuestionUsecase) Answer(ctx context.Context, documentID, question string) (*Result, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}

	start := time.Now()

	index, chunks, err := u.store.LoadIndex(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotIngested) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load index for document %s: %w", documentID, err)
	}

	sc := &retrieval.StageContext{
		RetrievalID:     uuid.NewString(),
		DocumentID:      documentID,
		Question:        question,
		Index:           index,
		Chunks:          chunks,
		TopK:            u.cfg.TopK,
		ScoreThreshold:  u.cfg.ScoreThreshold,
		MaxCandidates:   u.cfg.MaxCandidates,
		MaxContextChars: u.cfg.MaxContextChars,
	}

	sc.Intent = retrieval.AnalyzeIntent(question)
	sc.Variants = retrieval.QueryVariants(question, sc.Intent)
	mainTerm := retrieval.ExtractMainTerm(question)

	if err := retrieval.Search(ctx, sc, u.encoder, u.logger); err != nil {
		u.logger.Warn("retrieval_failed",
			slog.String("retrieval_id", sc.RetrievalID),
			slog.String("document_id", documentID),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrModelUnavailable) {
			return modelUnavailableResult(), nil
		}
		return processingErrorResult(), nil
	}

	if len(sc.Hits) == 0 {
		u.logger.Info("no_retrieval_hits",
			slog.String("retrieval_id", sc.RetrievalID),
			slog.String("document_id", documentID),
			slog.Int("variant_count", len(sc.Variants)),
		)
		return noResultsResult(sc.Intent, mainTerm), nil
	}

	retrieval.RankAndDeduplicate(sc, u.logger)
	retrieval.AssembleContext(sc, u.logger)

	if len(sc.ContextText) < u.cfg.MinContextChars {
		u.logger.Info("insufficient_context",
			slog.String("retrieval_id", sc.RetrievalID),
			slog.String("document_id", documentID),
			slog.Int("context_chars", len(sc.ContextText)),
		)
		return insufficientContextResult(sc.Ranked), nil
	}

	in := synthesis.Input{
		Question: question,
		Context:  sc.ContextText,
		Intent:   sc.Intent,
		MainTerm: mainTerm,
		Ranked:   sc.Ranked,
	}
	candidates := synthesis.Collect(ctx, u.strategies, in, func(kind synthesis.Kind, err error) {
		u.logger.Warn("strategy_failed",
			slog.String("retrieval_id", sc.RetrievalID),
			slog.String("strategy", string(kind)),
			slog.String("error", err.Error()),
		)
	})
	if len(candidates) == 0 {
		u.logger.Info("synthesis_exhausted",
			slog.String("retrieval_id", sc.RetrievalID),
			slog.String("document_id", documentID),
			slog.Int("ranked_count", len(sc.Ranked)),
		)
		return synthesisFallbackResult(sc.Intent, mainTerm, sc.Ranked), nil
	}

	best := synthesis.SelectBest(candidates, sc.Intent)
	confidence := synthesis.Confidence(best.Text, sc.ContextText, sc.Ranked)
	answer := synthesis.Enhance(best.Text, sc.Ranked)
	sources := retrieval.SourcePages(sc, u.cfg.SourceHitCount)

	u.logger.Info("answer_generated",
		slog.String("retrieval_id", sc.RetrievalID),
		slog.String("document_id", documentID),
		slog.String("strategy", string(best.Strategy)),
		slog.Float64("confidence", confidence),
		slog.Int("candidate_count", len(candidates)),
		slog.Duration("duration", time.Since(start)),
	)

	return &Result{Answer: answer, Score: confidence, Sources: sources}, nil
}
