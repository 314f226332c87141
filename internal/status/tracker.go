package status

import (
	"sync"
	"time"
)

// State is the lifecycle phase of one document's ingestion.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Record is the tracked ingestion state for one document.
type Record struct {
	DocumentID string    `json:"document_id"`
	State      State     `json:"state"`
	ChunkCount int       `json:"chunk_count,omitempty"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tracker keeps in-memory ingestion state per document. State is
// process-local; a restart forgets in-flight jobs, which then need to
// be re-submitted.
type Tracker struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]Record)}
}

// MarkPending records a freshly queued document. It returns false when
// the document is already pending or processing, so callers can reject
// duplicate submissions.
func (t *Tracker) MarkPending(documentID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.records[documentID]; ok {
		if rec.State == StatePending || rec.State == StateProcessing {
			return false
		}
	}
	t.records[documentID] = Record{
		DocumentID: documentID,
		State:      StatePending,
		UpdatedAt:  time.Now(),
	}
	return true
}

// MarkProcessing transitions a document to the processing state.
func (t *Tracker) MarkProcessing(documentID string) {
	t.set(Record{DocumentID: documentID, State: StateProcessing})
}

// MarkCompleted records a successful ingestion and its chunk count.
func (t *Tracker) MarkCompleted(documentID string, chunkCount int) {
	t.set(Record{DocumentID: documentID, State: StateCompleted, ChunkCount: chunkCount})
}

// MarkFailed records a failed ingestion with its error message.
func (t *Tracker) MarkFailed(documentID string, errMsg string) {
	t.set(Record{DocumentID: documentID, State: StateFailed, Error: errMsg})
}

// Get returns the record for a document, if any.
func (t *Tracker) Get(documentID string) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[documentID]
	return rec, ok
}

// Forget removes a document's record, typically after deletion.
func (t *Tracker) Forget(documentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, documentID)
}

func (t *Tracker) set(rec Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec.UpdatedAt = time.Now()
	t.records[rec.DocumentID] = rec
}
