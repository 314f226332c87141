package retrieval

import (
	"regexp"
	"strings"

	"docqa-orchestrator/internal/domain"
)

const maxVariants = 5

var (
	definitionPhrases = []string{"what is", "define", "definition of", "meaning of"}
	summaryPhrases    = []string{"summarize", "overview", "main points", "key concepts"}
	processPhrases    = []string{"how to", "process", "steps", "procedure", "method"}
	comparisonPhrases = []string{"compare", "difference", "versus", "vs"}
)

var stopWords = map[string]struct{}{
	"what": {}, "is": {}, "the": {}, "a": {}, "an": {}, "how": {},
	"to": {}, "of": {}, "in": {}, "for": {}, "with": {}, "on": {},
	"at": {}, "by": {}, "from": {}, "as": {}, "are": {}, "was": {},
	"were": {}, "been": {}, "being": {}, "have": {}, "has": {},
	"had": {}, "do": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {},
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// AnalyzeIntent classifies a question into exactly one intent category
// by phrase matching, defaulting to specific-fact, and extracts its
// keywords in first-occurrence order.
func AnalyzeIntent(question string) domain.QuestionIntent {
	q := strings.ToLower(question)

	intent := domain.QuestionIntent{Complexity: domain.ComplexitySimple}

	switch {
	case containsAny(q, definitionPhrases):
		intent.RequiresDefinition = true
		intent.Complexity = domain.ComplexityMedium
	case containsAny(q, summaryPhrases):
		intent.RequiresSummary = true
		intent.Complexity = domain.ComplexityComplex
	case containsAny(q, processPhrases):
		intent.RequiresProcess = true
		intent.Complexity = domain.ComplexityMedium
	case containsAny(q, comparisonPhrases):
		intent.RequiresComparison = true
		intent.Complexity = domain.ComplexityComplex
	default:
		intent.RequiresSpecificFact = true
	}

	for _, word := range wordRe.FindAllString(q, -1) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		intent.Keywords = append(intent.Keywords, word)
	}

	return intent
}

// QueryVariants produces up to five alternative phrasings of the
// question to widen retrieval coverage: the original, intent-specific
// rephrasings, and a keyword-only variant.
func QueryVariants(question string, intent domain.QuestionIntent) []string {
	variants := []string{question}

	switch intent.Kind() {
	case domain.IntentDefinition:
		// Rephrasings need the main term; skip them when it cannot be
		// extracted.
		if term := ExtractMainTerm(question); term != "" {
			variants = append(variants,
				"definition of "+term,
				term+" meaning explanation",
				"what does "+term+" mean",
				term+" concept overview",
			)
		}
	case domain.IntentSummary:
		variants = append(variants,
			"main points key concepts",
			"important information overview",
			"summary of content",
			"key findings conclusions",
		)
	case domain.IntentProcess:
		variants = append(variants,
			"steps procedure method",
			"how to process approach",
			"methodology implementation",
			"procedure steps guidelines",
		)
	}

	if len(intent.Keywords) > 0 {
		top := intent.Keywords
		if len(top) > 3 {
			top = top[:3]
		}
		keywordQuery := strings.Join(top, " ")
		variants = append(variants, keywordQuery, "information about "+keywordQuery)
	}

	if len(variants) > maxVariants {
		variants = variants[:maxVariants]
	}
	return variants
}

// ExtractMainTerm pulls the term being asked about from a "what is X?"
// question. It returns "" when the pattern is absent.
func ExtractMainTerm(question string) string {
	q := strings.ToLower(question)
	idx := strings.Index(q, "what is")
	if idx < 0 {
		return ""
	}
	term := q[idx+len("what is"):]
	term = strings.TrimSpace(term)
	term = strings.TrimRight(term, "?")
	return strings.TrimSpace(term)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
