package synthesis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"docqa-orchestrator/internal/domain"
)

var (
	summaryKeySentenceMarkers = []string{"important", "key", "main", "significant", "conclude"}
	processSequenceMarkers    = []string{"step", "first", "second", "then", "next", "finally"}
)

// CustomStrategy covers the intent-specific heuristic generators:
// a compiled synopsis for summary questions, pattern scanning for
// definitions, sequencing-sentence collection for process questions,
// and a longest-sentence fallback for everything else. It needs no
// model backend, only the ranked hits.
type CustomStrategy struct{}

// NewCustomStrategy creates the heuristic strategy.
func NewCustomStrategy() *CustomStrategy {
	return &CustomStrategy{}
}

func (s *CustomStrategy) Kind() Kind { return KindCustom }

func (s *CustomStrategy) Generate(_ context.Context, in Input) (*Candidate, error) {
	var text string
	switch in.Intent.Kind() {
	case domain.IntentSummary:
		text = compileSummary(in.Ranked)
	case domain.IntentDefinition:
		text = scanDefinition(in.Ranked, in.MainTerm)
	case domain.IntentProcess:
		text = collectProcess(in.Ranked)
	default:
		text = longestSentence(in.Ranked)
	}

	if text == "" {
		return nil, nil
	}
	return &Candidate{Text: text, Strategy: KindCustom}, nil
}

// compileSummary joins marker-bearing sentences across the top chunks
// into a synopsis with page citations.
func compileSummary(ranked []domain.RetrievalHit) string {
	var keyPoints []string
	pointSeen := make(map[string]bool)
	pagesCovered := make(map[int]bool)

	hits := ranked
	if len(hits) > 6 {
		hits = hits[:6]
	}

	for _, hit := range hits {
		for _, sentence := range strings.Split(hit.Chunk.Text, ".") {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) <= 30 {
				continue
			}
			if !containsAnyMarker(strings.ToLower(sentence), summaryKeySentenceMarkers) {
				continue
			}
			if pointSeen[sentence] {
				continue
			}
			pointSeen[sentence] = true
			keyPoints = append(keyPoints, sentence)
			pagesCovered[hit.Chunk.Page] = true
		}
		if len(keyPoints) >= 5 {
			break
		}
	}

	if len(keyPoints) == 0 {
		return ""
	}
	if len(keyPoints) > 4 {
		keyPoints = keyPoints[:4]
	}
	return fmt.Sprintf("%s. (Information compiled from pages: %s)",
		strings.Join(keyPoints, ". "), joinPages(sortedPages(pagesCovered)))
}

// scanDefinition searches the top chunks for "<term> is/refers/means"
// patterns.
func scanDefinition(ranked []domain.RetrievalHit, term string) string {
	if term == "" {
		return ""
	}

	hits := ranked
	if len(hits) > 3 {
		hits = hits[:3]
	}

	patterns := []string{term + " is", term + " refers", term + " means"}
	for _, hit := range hits {
		lower := strings.ToLower(hit.Chunk.Text)
		if containsAnyMarker(lower, patterns) {
			snippet := hit.Chunk.Text
			if len(snippet) > 200 {
				snippet = snippet[:200] + "..."
			}
			return "Based on the document: " + snippet
		}
	}
	return ""
}

// collectProcess gathers chunks whose text carries sequencing words.
func collectProcess(ranked []domain.RetrievalHit) string {
	hits := ranked
	if len(hits) > 4 {
		hits = hits[:4]
	}

	var steps []string
	for _, hit := range hits {
		if containsAnyMarker(strings.ToLower(hit.Chunk.Text), processSequenceMarkers) {
			steps = append(steps, hit.Chunk.Text)
		}
	}
	if len(steps) == 0 {
		return ""
	}
	if len(steps) > 2 {
		steps = steps[:2]
	}
	return "Process information: " + strings.Join(steps, " ")
}

// longestSentence extracts the single longest sentence from the
// top-ranked chunk.
func longestSentence(ranked []domain.RetrievalHit) string {
	if len(ranked) == 0 {
		return ""
	}
	var best string
	for _, sentence := range strings.Split(ranked[0].Chunk.Text, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > len(best) {
			best = sentence
		}
	}
	return best
}

func containsAnyMarker(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func sortedPages(set map[int]bool) []int {
	pages := make([]int, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
