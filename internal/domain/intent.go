package domain

// Complexity grades how much retrieval effort a question needs.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// IntentKind names the expected answer shape of a question.
type IntentKind string

const (
	IntentDefinition   IntentKind = "definition"
	IntentSummary      IntentKind = "summary"
	IntentProcess      IntentKind = "process"
	IntentComparison   IntentKind = "comparison"
	IntentSpecificFact IntentKind = "specific_fact"
)

// QuestionIntent is the per-query classification of a question. It is
// recomputed for every request and never persisted. Exactly one of the
// Requires flags is set per classification pass.
type QuestionIntent struct {
	RequiresDefinition   bool
	RequiresSummary      bool
	RequiresProcess      bool
	RequiresComparison   bool
	RequiresSpecificFact bool

	// Keywords are lower-cased question terms in first-occurrence
	// order, with stop words and short tokens removed.
	Keywords []string

	Complexity Complexity
}

// Kind maps the flag set to its tagged variant.
func (i QuestionIntent) Kind() IntentKind {
	switch {
	case i.RequiresDefinition:
		return IntentDefinition
	case i.RequiresSummary:
		return IntentSummary
	case i.RequiresProcess:
		return IntentProcess
	case i.RequiresComparison:
		return IntentComparison
	default:
		return IntentSpecificFact
	}
}
