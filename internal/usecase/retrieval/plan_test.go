package retrieval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"
)

func TestAnalyzeIntent_Definition(t *testing.T) {
	intent := retrieval.AnalyzeIntent("What is photosynthesis?")

	assert.True(t, intent.RequiresDefinition)
	assert.False(t, intent.RequiresSummary)
	assert.Equal(t, domain.IntentDefinition, intent.Kind())
	assert.Equal(t, domain.ComplexityMedium, intent.Complexity)
	assert.Contains(t, intent.Keywords, "photosynthesis")
}

func TestAnalyzeIntent_Summary(t *testing.T) {
	intent := retrieval.AnalyzeIntent("Summarize the main points of chapter two")

	assert.True(t, intent.RequiresSummary)
	assert.Equal(t, domain.IntentSummary, intent.Kind())
	assert.Equal(t, domain.ComplexityComplex, intent.Complexity)
}

func TestAnalyzeIntent_Process(t *testing.T) {
	intent := retrieval.AnalyzeIntent("How to configure the replication cluster")

	assert.True(t, intent.RequiresProcess)
	assert.Equal(t, domain.IntentProcess, intent.Kind())
	assert.Equal(t, domain.ComplexityMedium, intent.Complexity)
}

func TestAnalyzeIntent_Comparison(t *testing.T) {
	intent := retrieval.AnalyzeIntent("Compare mitosis and meiosis")

	assert.True(t, intent.RequiresComparison)
	assert.Equal(t, domain.IntentComparison, intent.Kind())
	assert.Equal(t, domain.ComplexityComplex, intent.Complexity)
}

func TestAnalyzeIntent_DefaultsToSpecificFact(t *testing.T) {
	intent := retrieval.AnalyzeIntent("When did the merger close")

	assert.True(t, intent.RequiresSpecificFact)
	assert.Equal(t, domain.IntentSpecificFact, intent.Kind())
	assert.Equal(t, domain.ComplexitySimple, intent.Complexity)
}

func TestAnalyzeIntent_KeywordsFilterStopWordsAndShortTokens(t *testing.T) {
	intent := retrieval.AnalyzeIntent("What is the CO2 impact of a diesel engine")

	assert.NotContains(t, intent.Keywords, "what")
	assert.NotContains(t, intent.Keywords, "is")
	assert.NotContains(t, intent.Keywords, "the")
	assert.NotContains(t, intent.Keywords, "of")
	// tokens of length <= 2 are dropped even when not stop words
	assert.NotContains(t, intent.Keywords, "a")
	assert.Equal(t, []string{"co2", "impact", "diesel", "engine"}, intent.Keywords)
}

func TestQueryVariants_CapsAtFive(t *testing.T) {
	question := "What is quantum entanglement?"
	intent := retrieval.AnalyzeIntent(question)
	variants := retrieval.QueryVariants(question, intent)

	require.NotEmpty(t, variants)
	assert.LessOrEqual(t, len(variants), 5)
	assert.Equal(t, question, variants[0])
}

func TestQueryVariants_DefinitionRephrasings(t *testing.T) {
	question := "What is osmosis?"
	intent := retrieval.AnalyzeIntent(question)
	variants := retrieval.QueryVariants(question, intent)

	assert.Contains(t, variants, "definition of osmosis")
	assert.Contains(t, variants, "osmosis meaning explanation")
}

func TestQueryVariants_SummaryRephrasings(t *testing.T) {
	question := "Give me an overview of the report"
	intent := retrieval.AnalyzeIntent(question)
	variants := retrieval.QueryVariants(question, intent)

	assert.Contains(t, variants, "main points key concepts")
	assert.LessOrEqual(t, len(variants), 5)
}

func TestQueryVariants_KeywordVariantForFactQuestions(t *testing.T) {
	question := "Which regions reported revenue growth"
	intent := retrieval.AnalyzeIntent(question)
	variants := retrieval.QueryVariants(question, intent)

	assert.Contains(t, variants, "which regions reported")
	assert.Contains(t, variants, "information about which regions reported")
}

func TestExtractMainTerm(t *testing.T) {
	assert.Equal(t, "photosynthesis", retrieval.ExtractMainTerm("What is photosynthesis?"))
	assert.Equal(t, "a load balancer", retrieval.ExtractMainTerm("what is a load balancer"))
	assert.Equal(t, "", retrieval.ExtractMainTerm("How does photosynthesis work?"))
}
