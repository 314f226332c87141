package worker

import (
	"context"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/status"
	"docqa-orchestrator/internal/usecase"
)

const (
	defaultQueueSize = 64
	jobTimeout       = 5 * time.Minute
)

// IngestJob is one queued ingestion request.
type IngestJob struct {
	DocumentID string
	Pages      []domain.Page
}

// IngestWorker processes queued ingestion jobs one at a time on a
// background goroutine, reporting progress to the status tracker.
// Serial processing keeps embedding backend load bounded.
type IngestWorker struct {
	ingestUsecase usecase.IngestDocumentUsecase
	tracker       *status.Tracker
	logger        *slog.Logger
	jobs          chan IngestJob
	stopChan      chan struct{}
	doneChan      chan struct{}
}

// NewIngestWorker creates a worker with the default queue size.
func NewIngestWorker(
	ingestUsecase usecase.IngestDocumentUsecase,
	tracker *status.Tracker,
	logger *slog.Logger,
) *IngestWorker {
	return &IngestWorker{
		ingestUsecase: ingestUsecase,
		tracker:       tracker,
		logger:        logger,
		jobs:          make(chan IngestJob, defaultQueueSize),
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}
}

// Start launches the processing goroutine.
func (w *IngestWorker) Start() {
	w.logger.Info("ingest_worker_started")
	go w.run()
}

// Stop signals the worker to finish its current job and exit, then
// waits for it.
func (w *IngestWorker) Stop() {
	w.logger.Info("ingest_worker_stopping")
	close(w.stopChan)
	<-w.doneChan
}

// Enqueue adds a job to the queue. It returns false when the queue is
// full, which callers surface as back-pressure.
func (w *IngestWorker) Enqueue(job IngestJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

func (w *IngestWorker) run() {
	defer close(w.doneChan)
	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *IngestWorker) process(job IngestJob) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	w.tracker.MarkProcessing(job.DocumentID)
	w.logger.Info("ingest_job_started",
		slog.String("document_id", job.DocumentID),
		slog.Int("page_count", len(job.Pages)),
	)

	chunkCount, err := w.ingestUsecase.Ingest(ctx, job.DocumentID, job.Pages)
	if err != nil {
		w.tracker.MarkFailed(job.DocumentID, err.Error())
		w.logger.Warn("ingest_job_failed",
			slog.String("document_id", job.DocumentID),
			slog.String("error", err.Error()),
		)
		return
	}

	w.tracker.MarkCompleted(job.DocumentID, chunkCount)
	w.logger.Info("ingest_job_completed",
		slog.String("document_id", job.DocumentID),
		slog.Int("chunk_count", chunkCount),
	)
}
