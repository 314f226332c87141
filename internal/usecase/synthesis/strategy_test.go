package synthesis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/synthesis"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, question, contextText string) (*domain.SpanAnswer, error) {
	args := m.Called(ctx, question, contextText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpanAnswer), args.Error(1)
}

func (m *mockExtractor) Version() string {
	return "mock"
}

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, maxTokens int) (*domain.LLMResponse, error) {
	args := m.Called(ctx, prompt, maxTokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LLMResponse), args.Error(1)
}

func (m *mockLLM) Version() string {
	return "mock"
}

func factInput(question, contextText string) synthesis.Input {
	return synthesis.Input{
		Question: question,
		Context:  contextText,
		Intent:   domain.QuestionIntent{RequiresSpecificFact: true},
	}
}

func TestDirectStrategy_AcceptsAboveThreshold(t *testing.T) {
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, "what happened", "context body").
		Return(&domain.SpanAnswer{Text: " the merger closed in May ", Score: 0.6}, nil)

	s := synthesis.NewDirectStrategy(ext, 0.3)
	cand, err := s.Generate(context.Background(), factInput("what happened", "context body"))

	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, "the merger closed in May", cand.Text)
	assert.Equal(t, synthesis.KindDirect, cand.Strategy)
}

func TestDirectStrategy_RejectsAtThreshold(t *testing.T) {
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.SpanAnswer{Text: "weak span", Score: 0.3}, nil)

	s := synthesis.NewDirectStrategy(ext, 0.3)
	cand, err := s.Generate(context.Background(), factInput("q", "ctx"))

	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestContextualStrategy_RephrasesQuestion(t *testing.T) {
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, "Based on the document, what is the total?", mock.Anything).
		Return(&domain.SpanAnswer{Text: "forty-two million", Score: 0.5}, nil)

	s := synthesis.NewContextualStrategy(ext, 0.25)
	cand, err := s.Generate(context.Background(), factInput("What is the total?", "ctx"))

	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, synthesis.KindContextual, cand.Strategy)
	ext.AssertExpectations(t)
}

func TestExtractiveStrategy_ReducesContextToKeywordSentences(t *testing.T) {
	contextText := "Revenue grew by ten percent. The weather was mild. Costs stayed flat."
	in := synthesis.Input{
		Question: "how did revenue change",
		Context:  contextText,
		Intent: domain.QuestionIntent{
			RequiresSpecificFact: true,
			Keywords:             []string{"revenue"},
		},
	}

	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, in.Question, "Revenue grew by ten percent").
		Return(&domain.SpanAnswer{Text: "grew by ten percent", Score: 0.4}, nil)

	s := synthesis.NewExtractiveStrategy(ext, 0.2)
	cand, err := s.Generate(context.Background(), in)

	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, synthesis.KindExtractive, cand.Strategy)
	ext.AssertExpectations(t)
}

func TestExtractiveStrategy_NoKeywordsNoCandidate(t *testing.T) {
	s := synthesis.NewExtractiveStrategy(new(mockExtractor), 0.2)
	cand, err := s.Generate(context.Background(), factInput("q", "some context text"))

	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestGenerativeStrategy_NilClientYieldsNoCandidate(t *testing.T) {
	s := synthesis.NewGenerativeStrategy(nil, 300)
	cand, err := s.Generate(context.Background(), factInput("q", "ctx"))

	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestGenerativeStrategy_DropsNotFoundResponses(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, mock.Anything, 300).
		Return(&domain.LLMResponse{Text: "I cannot find this information in the provided document", Done: true}, nil)

	s := synthesis.NewGenerativeStrategy(llm, 300)
	cand, err := s.Generate(context.Background(), factInput("q", "ctx"))

	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestGenerativeStrategy_ReturnsGroundedAnswer(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	}), 300).Return(&domain.LLMResponse{Text: "The policy applies to all employees.", Done: true}, nil)

	s := synthesis.NewGenerativeStrategy(llm, 300)
	cand, err := s.Generate(context.Background(), factInput("who does the policy apply to", "ctx"))

	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, synthesis.KindGenerative, cand.Strategy)
	assert.Equal(t, "The policy applies to all employees.", cand.Text)
}

type stubStrategy struct {
	kind synthesis.Kind
	cand *synthesis.Candidate
	err  error
}

func (s stubStrategy) Kind() synthesis.Kind { return s.kind }

func (s stubStrategy) Generate(context.Context, synthesis.Input) (*synthesis.Candidate, error) {
	return s.cand, s.err
}

func TestCollect_SkipsFailuresAndTrivialCandidates(t *testing.T) {
	strategies := []synthesis.Strategy{
		stubStrategy{kind: synthesis.KindDirect, err: errors.New("backend down")},
		stubStrategy{kind: synthesis.KindContextual, cand: &synthesis.Candidate{Text: "short", Strategy: synthesis.KindContextual}},
		stubStrategy{kind: synthesis.KindCustom, cand: &synthesis.Candidate{Text: "a usable answer candidate", Strategy: synthesis.KindCustom}},
	}

	var failed []synthesis.Kind
	candidates := synthesis.Collect(context.Background(), strategies, factInput("q", "ctx"), func(kind synthesis.Kind, err error) {
		failed = append(failed, kind)
	})

	require.Len(t, candidates, 1)
	assert.Equal(t, synthesis.KindCustom, candidates[0].Strategy)
	assert.Equal(t, []synthesis.Kind{synthesis.KindDirect}, failed)
}

func TestCollect_PreservesStrategyOrder(t *testing.T) {
	strategies := []synthesis.Strategy{
		stubStrategy{kind: synthesis.KindDirect, cand: &synthesis.Candidate{Text: "first candidate answer", Strategy: synthesis.KindDirect}},
		stubStrategy{kind: synthesis.KindCustom, cand: &synthesis.Candidate{Text: "second candidate answer", Strategy: synthesis.KindCustom}},
	}

	candidates := synthesis.Collect(context.Background(), strategies, factInput("q", "ctx"), nil)

	require.Len(t, candidates, 2)
	assert.Equal(t, synthesis.KindDirect, candidates[0].Strategy)
	assert.Equal(t, synthesis.KindCustom, candidates[1].Strategy)
}
