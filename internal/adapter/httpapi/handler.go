package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/status"
	"docqa-orchestrator/internal/usecase"
	"docqa-orchestrator/internal/worker"
)

// Handler exposes the document question-answering API.
type Handler struct {
	answerUsecase usecase.AnswerQuestionUsecase
	store         domain.DocumentStore
	tracker       *status.Tracker
	ingestWorker  *worker.IngestWorker
}

// NewHandler creates the API handler.
func NewHandler(
	answerUsecase usecase.AnswerQuestionUsecase,
	store domain.DocumentStore,
	tracker *status.Tracker,
	ingestWorker *worker.IngestWorker,
) *Handler {
	return &Handler{
		answerUsecase: answerUsecase,
		store:         store,
		tracker:       tracker,
		ingestWorker:  ingestWorker,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/v1/documents/:id/ingest", h.IngestDocument)
	e.GET("/v1/documents/:id/status", h.DocumentStatus)
	e.DELETE("/v1/documents/:id", h.DeleteDocument)
	e.POST("/v1/qa/answer", h.AnswerQuestion)
}

// Health reports process liveness.
// (GET /health)
func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type pagePayload struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

type ingestRequest struct {
	Pages []pagePayload `json:"pages"`
}

// IngestDocument queues a document's extracted pages for indexing.
// (POST /v1/documents/:id/ingest)
func (h *Handler) IngestDocument(ctx echo.Context) error {
	documentID := ctx.Param("id")
	if documentID == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "missing document id"})
	}

	var req ingestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if len(req.Pages) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "pages are required"})
	}

	pages := make([]domain.Page, len(req.Pages))
	for i, p := range req.Pages {
		if p.Number <= 0 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "page numbers must be positive"})
		}
		pages[i] = domain.Page{Number: p.Number, Text: p.Text}
	}

	if !h.tracker.MarkPending(documentID) {
		return ctx.JSON(http.StatusConflict, map[string]string{
			"error": "document ingestion already in progress",
		})
	}
	if !h.ingestWorker.Enqueue(worker.IngestJob{DocumentID: documentID, Pages: pages}) {
		h.tracker.MarkFailed(documentID, "ingestion queue full")
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "ingestion queue full, retry later",
		})
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"document_id": documentID,
		"status":      string(status.StatePending),
	})
}

// DocumentStatus reports the ingestion state of a document.
// (GET /v1/documents/:id/status)
func (h *Handler) DocumentStatus(ctx echo.Context) error {
	documentID := ctx.Param("id")
	rec, ok := h.tracker.Get(documentID)
	if !ok {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "unknown document"})
	}
	return ctx.JSON(http.StatusOK, rec)
}

// DeleteDocument removes a document's index. Deleting an unknown
// document is a no-op.
// (DELETE /v1/documents/:id)
func (h *Handler) DeleteDocument(ctx echo.Context) error {
	documentID := ctx.Param("id")
	if err := h.store.DeleteDocument(ctx.Request().Context(), documentID); err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	h.tracker.Forget(documentID)
	return ctx.NoContent(http.StatusNoContent)
}

type answerRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
}

// AnswerQuestion resolves a question against an ingested document.
// (POST /v1/qa/answer)
func (h *Handler) AnswerQuestion(ctx echo.Context) error {
	var req answerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.DocumentID == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "document_id is required"})
	}
	if req.Question == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}

	result, err := h.answerUsecase.Answer(ctx.Request().Context(), req.DocumentID, req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrNotIngested) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "document has not been ingested",
			})
		}
		// a corrupt index means the stored state is unusable until the
		// document is re-ingested, so it reads as "not ready"
		if errors.Is(err, domain.ErrCorruptIndex) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "document index is not ready, re-ingest the document",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, result)
}
