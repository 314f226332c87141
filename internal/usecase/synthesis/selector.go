package synthesis

import (
	"fmt"
	"strings"
	"unicode"

	"docqa-orchestrator/internal/domain"
)

// MaxConfidence caps the reported confidence below 1.0 to reflect the
// heuristic nature of the score.
const MaxConfidence = 0.95

// SelectBest scores every candidate and returns the highest-scoring
// one. Equal scores resolve to the first-seen candidate. The caller
// guarantees at least one candidate.
func SelectBest(candidates []Candidate, intent domain.QuestionIntent) Candidate {
	best := candidates[0]
	bestScore := scoreCandidate(best.Text, intent)

	for _, cand := range candidates[1:] {
		if score := scoreCandidate(cand.Text, intent); score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best
}

// scoreCandidate rewards a reasonable answer length, question keyword
// presence and structural markers such as a grounding prefix or page
// citation.
func scoreCandidate(text string, intent domain.QuestionIntent) int {
	score := 0

	switch length := len(text); {
	case length >= 50 && length <= 500:
		score += 20
	case length >= 20 && length < 50:
		score += 10
	case length > 500:
		score += 15
	}

	lower := strings.ToLower(text)
	for _, kw := range intent.Keywords {
		if strings.Contains(lower, kw) {
			score += 5
		}
	}

	if strings.HasPrefix(text, "Based on") || strings.HasPrefix(text, "According to") || strings.HasPrefix(text, "The document") {
		score += 5
	}
	if hasPageCitation(text) {
		score += 3
	}

	return score
}

// Confidence computes the final answer confidence from the canonical
// length, source-diversity and context-size factors. It is monotonic
// in each factor and capped at MaxConfidence; it is not a calibrated
// probability.
func Confidence(answer, contextText string, ranked []domain.RetrievalHit) float64 {
	if len(answer) < 10 {
		return 0.0
	}

	confidence := 0.4

	switch length := len(answer); {
	case length >= 30 && length <= 300:
		confidence += 0.2
	case length > 300:
		confidence += 0.1
	}

	top := ranked
	if len(top) > 5 {
		top = top[:5]
	}
	uniquePages := make(map[int]bool)
	for _, hit := range top {
		uniquePages[hit.Chunk.Page] = true
	}
	diversity := 0.05 * float64(len(uniquePages))
	if diversity > 0.2 {
		diversity = 0.2
	}
	confidence += diversity

	if len(contextText) > 1000 {
		confidence += 0.1
	}

	if confidence > MaxConfidence {
		confidence = MaxConfidence
	}
	return confidence
}

// Enhance post-processes the chosen answer: a page-citation suffix when
// none is present and the source set is small, a capitalized first
// letter and terminal punctuation.
func Enhance(answer string, ranked []domain.RetrievalHit) string {
	if answer == "" {
		return answer
	}

	if !hasPageCitation(answer) && len(ranked) > 0 {
		top := ranked
		if len(top) > 3 {
			top = top[:3]
		}
		pageSet := make(map[int]bool)
		for _, hit := range top {
			pageSet[hit.Chunk.Page] = true
		}
		if len(pageSet) <= 3 {
			answer += fmt.Sprintf(" (Referenced from pages: %s)", joinPages(sortedPages(pageSet)))
		}
	}

	runes := []rune(answer)
	if !unicode.IsUpper(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
		answer = string(runes)
	}

	trimmed := strings.TrimSpace(answer)
	if !strings.HasSuffix(trimmed, ".") && !strings.HasSuffix(trimmed, "!") &&
		!strings.HasSuffix(trimmed, "?") && !strings.HasSuffix(trimmed, ":") {
		trimmed += "."
	}
	return trimmed
}

func hasPageCitation(text string) bool {
	return strings.Contains(text, "(Page") ||
		strings.Contains(text, "pages:") ||
		strings.Contains(text, "Referenced from")
}
