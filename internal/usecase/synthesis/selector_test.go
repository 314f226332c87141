package synthesis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/synthesis"
)

func TestSelectBest_PrefersWellSizedGroundedCandidates(t *testing.T) {
	intent := domain.QuestionIntent{RequiresSpecificFact: true, Keywords: []string{"revenue"}}
	candidates := []synthesis.Candidate{
		{Text: "tiny answer here", Strategy: synthesis.KindDirect},
		{Text: "Based on the document, revenue grew ten percent year over year.", Strategy: synthesis.KindCustom},
	}

	best := synthesis.SelectBest(candidates, intent)
	assert.Equal(t, synthesis.KindCustom, best.Strategy)
}

func TestSelectBest_TieGoesToFirstSeen(t *testing.T) {
	intent := domain.QuestionIntent{RequiresSpecificFact: true}
	candidates := []synthesis.Candidate{
		{Text: "an answer of comparable length and shape one", Strategy: synthesis.KindDirect},
		{Text: "an answer of comparable length and shape two", Strategy: synthesis.KindContextual},
	}

	best := synthesis.SelectBest(candidates, intent)
	assert.Equal(t, synthesis.KindDirect, best.Strategy)
}

func TestConfidence_ShortAnswersScoreZero(t *testing.T) {
	assert.Equal(t, 0.0, synthesis.Confidence("too short", "context", nil))
}

func TestConfidence_GrowsWithLengthDiversityAndContext(t *testing.T) {
	ranked := []domain.RetrievalHit{
		rankedHit(1, "chunk text a", 0.9),
		rankedHit(2, "chunk text b", 0.8),
		rankedHit(3, "chunk text c", 0.7),
	}
	bigContext := strings.Repeat("c", 1500)
	answer := "An answer in the preferred thirty-to-three-hundred character band."

	got := synthesis.Confidence(answer, bigContext, ranked)
	// 0.4 base + 0.2 length + 0.15 diversity + 0.1 context
	assert.InDelta(t, 0.85, got, 1e-9)
}

func TestConfidence_DiversityCapsAtFourPages(t *testing.T) {
	var ranked []domain.RetrievalHit
	for p := 1; p <= 5; p++ {
		ranked = append(ranked, rankedHit(p, "chunk", 0.9))
	}

	withFive := synthesis.Confidence("An answer in the preferred length band for confidence.", "short", ranked)
	withThree := synthesis.Confidence("An answer in the preferred length band for confidence.", "short", ranked[:3])
	assert.InDelta(t, withFive, withThree+0.05, 1e-9)
	// 5 distinct pages in the top 5 exceed the 0.2 diversity cap
	assert.InDelta(t, 0.8, withFive, 1e-9)
}

func TestConfidence_NeverExceedsCap(t *testing.T) {
	var ranked []domain.RetrievalHit
	for p := 1; p <= 5; p++ {
		ranked = append(ranked, rankedHit(p, "chunk", 0.9))
	}
	got := synthesis.Confidence(
		"An answer in the preferred thirty-to-three-hundred character band.",
		strings.Repeat("c", 2000),
		ranked,
	)
	assert.LessOrEqual(t, got, synthesis.MaxConfidence)
}

func TestEnhance_AppendsCitationWhenMissing(t *testing.T) {
	ranked := []domain.RetrievalHit{
		rankedHit(3, "chunk", 0.9),
		rankedHit(1, "chunk", 0.8),
	}

	out := synthesis.Enhance("the merger closed in May", ranked)
	assert.Contains(t, out, "(Referenced from pages: 1, 3)")
	assert.True(t, strings.HasPrefix(out, "The merger"))
	assert.True(t, strings.HasSuffix(out, "."))
}

func TestEnhance_KeepsExistingCitation(t *testing.T) {
	ranked := []domain.RetrievalHit{rankedHit(2, "chunk", 0.9)}

	out := synthesis.Enhance("Details appear in the appendix. (Information compiled from pages: 2)", ranked)
	assert.Equal(t, 1, strings.Count(out, "pages:"))
}

func TestEnhance_PreservesTerminalPunctuation(t *testing.T) {
	out := synthesis.Enhance("Is the answer already a question?", nil)
	assert.True(t, strings.HasSuffix(out, "?"))

	out = synthesis.Enhance("An exclamation stays as it is!", nil)
	assert.True(t, strings.HasSuffix(out, "!"))
}

func TestEnhance_EmptyAnswerUntouched(t *testing.T) {
	assert.Equal(t, "", synthesis.Enhance("", nil))
}
