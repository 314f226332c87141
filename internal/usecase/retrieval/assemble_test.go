package retrieval_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"
)

func TestAssembleContext_AnnotatesChunksWithPageAndRelevance(t *testing.T) {
	sc := &retrieval.StageContext{
		RetrievalID:     "asm-1",
		Intent:          domain.QuestionIntent{RequiresSpecificFact: true},
		MaxContextChars: 4000,
		Ranked: []domain.RetrievalHit{
			hit(3, "a relevant chunk of document body text here", 0.87),
		},
	}

	retrieval.AssembleContext(sc, discardLogger())

	assert.Contains(t, sc.ContextText, "[Page 3, Relevance: 0.87]")
	assert.Contains(t, sc.ContextText, "a relevant chunk of document body text here")
	assert.Equal(t, []int{3}, sc.ContextPages)
}

func TestAssembleContext_PerPageCapForSummary(t *testing.T) {
	sc := &retrieval.StageContext{
		RetrievalID:     "asm-2",
		Intent:          domain.QuestionIntent{RequiresSummary: true},
		MaxContextChars: 4000,
	}
	for i := 0; i < 5; i++ {
		sc.Ranked = append(sc.Ranked, hit(1, fmt.Sprintf("chunk variant %d from the same page", i), 0.8))
	}

	retrieval.AssembleContext(sc, discardLogger())

	// summary questions admit at most two chunks per page
	assert.Equal(t, 2, strings.Count(sc.ContextText, "[Page 1,"))
}

func TestAssembleContext_PerPageCapForFactQuestions(t *testing.T) {
	sc := &retrieval.StageContext{
		RetrievalID:     "asm-3",
		Intent:          domain.QuestionIntent{RequiresSpecificFact: true},
		MaxContextChars: 4000,
	}
	for i := 0; i < 6; i++ {
		sc.Ranked = append(sc.Ranked, hit(2, fmt.Sprintf("fact chunk number %d on page two", i), 0.8))
	}

	retrieval.AssembleContext(sc, discardLogger())

	assert.Equal(t, 4, strings.Count(sc.ContextText, "[Page 2,"))
}

func TestAssembleContext_RespectsCharBudget(t *testing.T) {
	long := strings.Repeat("sentence body text for budget checks ", 40) // ~1480 chars
	sc := &retrieval.StageContext{
		RetrievalID:     "asm-4",
		Intent:          domain.QuestionIntent{RequiresSpecificFact: true},
		MaxContextChars: 2000,
		Ranked: []domain.RetrievalHit{
			hit(1, long, 0.9),
			hit(2, long, 0.8),
			hit(3, long, 0.7),
		},
	}

	retrieval.AssembleContext(sc, discardLogger())

	assert.LessOrEqual(t, len(sc.ContextText), 2000)
	// the second chunk no longer fits whole; it is truncated with a marker
	assert.Contains(t, sc.ContextText, "...")
}

func TestAssembleContext_TruncatesOnRuneBoundary(t *testing.T) {
	// 3-byte runes make the raw byte cut land mid-rune
	long := strings.Repeat("文書の要約テキスト", 40)
	sc := &retrieval.StageContext{
		RetrievalID:     "asm-7",
		Intent:          domain.QuestionIntent{RequiresSpecificFact: true},
		MaxContextChars: 400,
		Ranked:          []domain.RetrievalHit{hit(1, long, 0.9)},
	}

	retrieval.AssembleContext(sc, discardLogger())

	assert.True(t, utf8.ValidString(sc.ContextText))
	assert.True(t, strings.HasSuffix(sc.ContextText, "..."))
	assert.LessOrEqual(t, len(sc.ContextText), 400)
}

func TestAssembleContext_SkipsUselessRemainder(t *testing.T) {
	long := strings.Repeat("filler text for the remainder check ", 30) // ~1080 chars
	sc := &retrieval.StageContext{
		RetrievalID:     "asm-5",
		Intent:          domain.QuestionIntent{RequiresSpecificFact: true},
		MaxContextChars: 1200,
		Ranked: []domain.RetrievalHit{
			hit(1, long, 0.9),
			hit(2, long, 0.8),
		},
	}

	retrieval.AssembleContext(sc, discardLogger())

	// remaining budget after the first chunk is below the useful
	// threshold, so the second chunk is dropped entirely
	assert.Equal(t, 1, strings.Count(sc.ContextText, "[Page"))
	assert.NotContains(t, sc.ContextText, "[Page 2,")
}

func TestAssembleContext_CleansHeaderAndFooterLines(t *testing.T) {
	text := "Page 12\n42\nThe substantive paragraph that should survive cleaning.\nok"
	sc := &retrieval.StageContext{
		RetrievalID:     "asm-6",
		Intent:          domain.QuestionIntent{RequiresSpecificFact: true},
		MaxContextChars: 4000,
		Ranked:          []domain.RetrievalHit{hit(1, text, 0.9)},
	}

	retrieval.AssembleContext(sc, discardLogger())

	assert.Contains(t, sc.ContextText, "The substantive paragraph that should survive cleaning.")
	assert.NotContains(t, sc.ContextText, "Page 12")
	assert.NotContains(t, sc.ContextText, "42")
}

func TestSourcePages_SortedDistinctTopN(t *testing.T) {
	sc := &retrieval.StageContext{
		Ranked: []domain.RetrievalHit{
			hit(9, "chunk one text for sources", 0.9),
			hit(2, "chunk two text for sources", 0.8),
			hit(9, "chunk three text for sources", 0.7),
			hit(5, "chunk four text for sources", 0.6),
			hit(7, "chunk five text for sources", 0.5),
			hit(1, "chunk six text for sources", 0.4),
		},
	}

	pages := retrieval.SourcePages(sc, 5)
	assert.Equal(t, []int{2, 5, 7, 9}, pages)

	require.NotPanics(t, func() {
		pages = retrieval.SourcePages(sc, 50)
	})
	assert.Equal(t, []int{1, 2, 5, 7, 9}, pages)
}
