package retrieval

import (
	"log/slog"
	"sort"
	"strings"

	"docqa-orchestrator/internal/domain"
)

var (
	definitionMarkers = []string{"definition", "means", "refers to", "is defined as"}
	summaryMarkers    = []string{"overview", "summary", "key", "main", "important"}
	processMarkers    = []string{"step", "process", "method", "procedure"}
)

// keywordBoost is the additive score factor applied per keyword match.
const keywordBoost = 0.1

// RankAndDeduplicate merges hits across variants, keeps the best-scored
// occurrence of each chunk, applies intent-aware score adjustments and
// truncates to the bounded candidate set. Ordering among equal adjusted
// scores preserves first-seen order.
func RankAndDeduplicate(sc *StageContext, logger *slog.Logger) {
	seen := make(map[string]int, len(sc.Hits))
	var deduped []domain.RetrievalHit

	for _, hit := range sc.Hits {
		fp := hit.Chunk.Fingerprint()
		if pos, ok := seen[fp]; ok {
			if hit.Score > deduped[pos].Score {
				deduped[pos] = hit
			}
			continue
		}
		seen[fp] = len(deduped)
		deduped = append(deduped, hit)
	}

	for i := range deduped {
		deduped[i].Score = adjustScore(deduped[i], sc.Intent)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	if len(deduped) > sc.MaxCandidates {
		deduped = deduped[:sc.MaxCandidates]
	}
	sc.Ranked = deduped

	logger.Info("hits_ranked",
		slog.String("retrieval_id", sc.RetrievalID),
		slog.Int("raw_hits", len(sc.Hits)),
		slog.Int("ranked_hits", len(sc.Ranked)))
}

// adjustScore boosts chunks whose text carries markers aligned with the
// question intent, plus a per-match bonus for keyword overlap.
func adjustScore(hit domain.RetrievalHit, intent domain.QuestionIntent) float32 {
	text := strings.ToLower(hit.Chunk.Text)
	score := hit.Score

	switch {
	case intent.RequiresDefinition && containsAny(text, definitionMarkers):
		score *= 1.3
	case intent.RequiresSummary && containsAny(text, summaryMarkers):
		score *= 1.2
	case intent.RequiresProcess && containsAny(text, processMarkers):
		score *= 1.3
	}

	matches := 0
	for _, kw := range intent.Keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	if matches > 0 {
		score *= 1 + keywordBoost*float32(matches)
	}

	return score
}
