package usecase

import (
	"fmt"
	"sort"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// Result is the answer returned for one question. A Result is always
// produced for an ingested document; degraded outcomes (no hits, thin
// context, no usable candidate) become low-score Results with an
// explanation instead of errors.
type Result struct {
	Answer  string  `json:"answer"`
	Score   float64 `json:"score"`
	Sources []int   `json:"sources"`
}

// noResultsResult explains an empty hit set in intent-specific terms.
func noResultsResult(intent domain.QuestionIntent, mainTerm string) *Result {
	var answer string
	switch intent.Kind() {
	case domain.IntentSummary:
		answer = "I couldn't find sufficient content to create a comprehensive summary. " +
			"The document might not contain the type of overview information you're looking for, " +
			"or you might need to ask about specific topics covered in the document."
	case domain.IntentDefinition:
		term := mainTerm
		if term == "" {
			term = "the requested term"
		}
		answer = fmt.Sprintf("I couldn't find a definition for '%s' in this document. "+
			"The term might not be defined in this document, or it might be referred to "+
			"using different terminology.", term)
	default:
		answer = "I couldn't find relevant information about your question in this document. " +
			"Try rephrasing your question, asking about different aspects, or checking if " +
			"the topic is covered in the document."
	}
	return &Result{Answer: answer, Score: 0.0, Sources: []int{}}
}

// insufficientContextResult covers hits whose assembled context is too
// thin to answer from.
func insufficientContextResult(hits []domain.RetrievalHit) *Result {
	pages := distinctPages(hits)
	answer := fmt.Sprintf("I found some relevant content on page(s) %s, but it's too brief "+
		"to provide a comprehensive answer. Please try asking a more specific question "+
		"about the content on these pages.", formatPages(pages))
	return &Result{Answer: answer, Score: 0.2, Sources: pages}
}

// synthesisFallbackResult points the user at the relevant pages when no
// strategy produced a usable candidate.
func synthesisFallbackResult(intent domain.QuestionIntent, mainTerm string, hits []domain.RetrievalHit) *Result {
	pages := distinctPages(hits)
	var answer string
	switch intent.Kind() {
	case domain.IntentSummary:
		answer = fmt.Sprintf("I found relevant content but couldn't generate a comprehensive "+
			"summary. Key information appears on pages: %s. Try asking about specific topics "+
			"from these pages.", formatPages(pages))
	case domain.IntentDefinition:
		term := mainTerm
		if term == "" {
			term = "the requested term"
		}
		answer = fmt.Sprintf("I found some references to '%s' on pages %s, but couldn't "+
			"extract a clear definition. The pages may describe it indirectly.", term, formatPages(pages))
	default:
		answer = fmt.Sprintf("I found potentially relevant information on pages %s, but "+
			"couldn't generate a confident answer. Please try asking about specific aspects "+
			"mentioned on these pages.", formatPages(pages))
	}
	return &Result{Answer: answer, Score: 0.3, Sources: pages}
}

// modelUnavailableResult covers an unreachable embedding or answering
// backend. The document state is fine, so retrying later may succeed.
func modelUnavailableResult() *Result {
	return &Result{
		Answer: "The answering service is temporarily unavailable. " +
			"Please try again in a moment.",
		Score:   0.0,
		Sources: []int{},
	}
}

// processingErrorResult is the catch-all degraded outcome for internal
// failures on the question path.
func processingErrorResult() *Result {
	return &Result{
		Answer: "I encountered an error while processing your question. " +
			"Please try rephrasing it or asking about a different part of the document.",
		Score:   0.0,
		Sources: []int{},
	}
}

func distinctPages(hits []domain.RetrievalHit) []int {
	set := make(map[int]bool)
	for _, hit := range hits {
		set[hit.Chunk.Page] = true
	}
	pages := make([]int, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

func formatPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
