package retrieval

import (
	"docqa-orchestrator/internal/domain"
)

// StageContext carries data between pipeline stages for one question.
type StageContext struct {
	// Input
	RetrievalID string
	DocumentID  string
	Question    string

	// Planning outputs
	Intent   domain.QuestionIntent
	Variants []string

	// Loaded document state (read-only)
	Index  *domain.FlatIndex
	Chunks []domain.Chunk

	// Retrieval outputs, in variant order
	Hits []domain.RetrievalHit

	// Ranking outputs
	Ranked []domain.RetrievalHit

	// Assembly outputs
	ContextText  string
	ContextPages []int

	// Config values (set once at init)
	TopK            int
	ScoreThreshold  float32
	MaxCandidates   int
	MaxContextChars int
}
