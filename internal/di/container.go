package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/adapter/httpapi"
	"docqa-orchestrator/internal/adapter/inference"
	"docqa-orchestrator/internal/adapter/repository"
	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/infra"
	"docqa-orchestrator/internal/infra/config"
	"docqa-orchestrator/internal/infra/httpclient"
	"docqa-orchestrator/internal/status"
	"docqa-orchestrator/internal/usecase"
	"docqa-orchestrator/internal/usecase/synthesis"
	"docqa-orchestrator/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the
// application.
type ApplicationComponents struct {
	Store   domain.DocumentStore
	Encoder domain.VectorEncoder

	IngestUsecase usecase.IngestDocumentUsecase
	AnswerUsecase usecase.AnswerQuestionUsecase

	Tracker *status.Tracker
	Worker  *worker.IngestWorker
	Handler *httpapi.Handler

	// Close releases storage resources; nil when the store owns none.
	Close func()
}

// NewApplicationComponents wires all dependencies from the config.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	var (
		store   domain.DocumentStore
		cleanup func()
	)
	switch cfg.StorageDriver {
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err := infra.NewPostgresDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store = repository.NewPostgresStore(pool)
		cleanup = pool.Close
	case "sqlite":
		s, err := repository.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}

	if cfg.IndexCacheSize > 0 {
		cached, err := repository.NewCachedStore(store, cfg.IndexCacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create index cache: %w", err)
		}
		store = cached
	}

	// Shared HTTP clients with connection pooling
	inferenceTimeout := time.Duration(cfg.InferenceTimeout) * time.Second
	embedderHTTP := httpclient.NewPooledClient(inferenceTimeout)
	extractorHTTP := httpclient.NewPooledClient(inferenceTimeout)

	encoder := inference.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel, inferenceTimeout, log, embedderHTTP)
	extractor := inference.NewSpanExtractorClient(cfg.ExtractorURL, cfg.ExtractorModel, inferenceTimeout, log, extractorHTTP)

	retrievalCfg := usecase.DefaultRetrievalConfig()
	if err := retrievalCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retrieval config: %w", err)
	}
	synthesisCfg := usecase.DefaultSynthesisConfig()
	if err := synthesisCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synthesis config: %w", err)
	}

	// Strategy order decides ties during candidate selection.
	strategies := []synthesis.Strategy{
		synthesis.NewDirectStrategy(extractor, synthesisCfg.DirectThreshold),
		synthesis.NewContextualStrategy(extractor, synthesisCfg.ContextualThreshold),
		synthesis.NewExtractiveStrategy(extractor, synthesisCfg.ExtractiveThreshold),
	}
	if cfg.GenerativeEnabled {
		generator := inference.NewOllamaGenerator(cfg.OllamaURL, cfg.GenerationModel, 2*inferenceTimeout)
		strategies = append(strategies, synthesis.NewGenerativeStrategy(generator, synthesisCfg.GenerativeMaxTokens))
		log.Info("generative_synthesis_enabled",
			slog.String("url", cfg.OllamaURL),
			slog.String("model", cfg.GenerationModel))
	}
	strategies = append(strategies, synthesis.NewCustomStrategy())

	chunker := domain.NewChunker()
	ingestUsecase := usecase.NewIngestDocumentUsecase(chunker, encoder, store, log)
	answerUsecase := usecase.NewAnswerQuestionUsecase(store, encoder, strategies, retrievalCfg, log)

	tracker := status.NewTracker()
	ingestWorker := worker.NewIngestWorker(ingestUsecase, tracker, log)
	handler := httpapi.NewHandler(answerUsecase, store, tracker, ingestWorker)

	return &ApplicationComponents{
		Store:         store,
		Encoder:       encoder,
		IngestUsecase: ingestUsecase,
		AnswerUsecase: answerUsecase,
		Tracker:       tracker,
		Worker:        ingestWorker,
		Handler:       handler,
		Close:         cleanup,
	}, nil
}
