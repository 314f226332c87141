package synthesis

import (
	"context"

	"docqa-orchestrator/internal/domain"
)

// Kind tags which strategy produced an answer candidate.
type Kind string

const (
	KindDirect     Kind = "direct"
	KindContextual Kind = "contextual"
	KindExtractive Kind = "extractive"
	KindGenerative Kind = "generative"
	KindCustom     Kind = "custom"
)

// Candidate is one proposed answer. Candidates are ephemeral and only
// the selected one survives the request.
type Candidate struct {
	Text     string
	Strategy Kind
}

// Input is the shared material every strategy works from.
type Input struct {
	Question string
	Context  string
	Intent   domain.QuestionIntent
	// MainTerm is the extracted "what is X" term, empty when the
	// question does not match the pattern.
	MainTerm string
	Ranked   []domain.RetrievalHit
}

// MinCandidateLength filters out trivial outputs; anything this short
// is not a usable answer.
const MinCandidateLength = 10

// Strategy generates at most one answer candidate from the question
// and assembled context. Returning (nil, nil) means the strategy has
// no candidate, which is a legitimate outcome. Errors are aggregated
// by the caller and never abort the synthesis step.
type Strategy interface {
	Kind() Kind
	Generate(ctx context.Context, in Input) (*Candidate, error)
}

// Collect runs every strategy in order and gathers the non-trivial
// candidates. A failing strategy contributes nothing; it never fails
// the set.
func Collect(ctx context.Context, strategies []Strategy, in Input, onError func(Kind, error)) []Candidate {
	var candidates []Candidate
	for _, s := range strategies {
		cand, err := s.Generate(ctx, in)
		if err != nil {
			if onError != nil {
				onError(s.Kind(), err)
			}
			continue
		}
		if cand == nil || len(cand.Text) <= MinCandidateLength {
			continue
		}
		candidates = append(candidates, *cand)
	}
	return candidates
}
