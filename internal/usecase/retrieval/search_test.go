package retrieval_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"
)

type mockEncoder struct {
	mock.Mock
}

func (m *mockEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *mockEncoder) Version() string {
	return "mock"
}

func searchFixture(t *testing.T) *retrieval.StageContext {
	t.Helper()

	index := domain.NewFlatIndex(2)
	chunks := make([]domain.Chunk, 3)
	vectors := [][]float32{{1, 0}, {0, 1}, {0.7, 0.7}}
	for i, v := range vectors {
		require.NoError(t, index.Add(domain.Normalize(v)))
		chunks[i] = domain.Chunk{
			ID:   fmt.Sprintf("p1_c%d", i),
			Text: fmt.Sprintf("chunk number %d with enough text", i),
			Page: 1,
		}
	}

	return &retrieval.StageContext{
		RetrievalID:    "search-1",
		DocumentID:     "doc-1",
		Question:       "which chunk matches",
		Intent:         domain.QuestionIntent{RequiresSpecificFact: true, Complexity: domain.ComplexitySimple},
		Index:          index,
		Chunks:         chunks,
		TopK:           2,
		ScoreThreshold: 0.3,
	}
}

func TestSearch_CollectsHitsAboveThreshold(t *testing.T) {
	sc := searchFixture(t)
	sc.Variants = []string{"which chunk matches"}

	enc := new(mockEncoder)
	enc.On("Encode", mock.Anything, sc.Variants).Return([][]float32{{1, 0}}, nil)

	err := retrieval.Search(context.Background(), sc, enc, discardLogger())
	require.NoError(t, err)

	// k=2: rows 0 (score 1.0) and 2 (score ~0.707), both above 0.3
	require.Len(t, sc.Hits, 2)
	assert.Equal(t, "p1_c0", sc.Hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, sc.Hits[0].Score, 1e-4)
	assert.Equal(t, "which chunk matches", sc.Hits[0].SourceVariant)
	enc.AssertExpectations(t)
}

func TestSearch_MergesVariantsInOrder(t *testing.T) {
	sc := searchFixture(t)
	sc.TopK = 1
	sc.Variants = []string{"variant one", "variant two"}

	enc := new(mockEncoder)
	enc.On("Encode", mock.Anything, sc.Variants).Return([][]float32{{1, 0}, {0, 1}}, nil)

	err := retrieval.Search(context.Background(), sc, enc, discardLogger())
	require.NoError(t, err)

	require.Len(t, sc.Hits, 2)
	assert.Equal(t, "variant one", sc.Hits[0].SourceVariant)
	assert.Equal(t, "p1_c0", sc.Hits[0].Chunk.ID)
	assert.Equal(t, "variant two", sc.Hits[1].SourceVariant)
	assert.Equal(t, "p1_c1", sc.Hits[1].Chunk.ID)
}

func TestSearch_FiltersBelowThreshold(t *testing.T) {
	sc := searchFixture(t)
	sc.TopK = 3
	sc.ScoreThreshold = 0.9
	sc.Variants = []string{"strict threshold"}

	enc := new(mockEncoder)
	enc.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{1, 0}}, nil)

	err := retrieval.Search(context.Background(), sc, enc, discardLogger())
	require.NoError(t, err)

	require.Len(t, sc.Hits, 1)
	assert.Equal(t, "p1_c0", sc.Hits[0].Chunk.ID)
}

func TestSearch_HigherThresholdNeverYieldsMoreHits(t *testing.T) {
	hitCount := func(threshold float32) int {
		sc := searchFixture(t)
		sc.TopK = 3
		sc.ScoreThreshold = threshold
		sc.Variants = []string{"which chunk matches"}

		enc := new(mockEncoder)
		enc.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{1, 0}}, nil)

		require.NoError(t, retrieval.Search(context.Background(), sc, enc, discardLogger()))
		return len(sc.Hits)
	}

	loose := hitCount(0.3)
	strict := hitCount(0.9)

	assert.Equal(t, 2, loose)
	assert.Equal(t, 1, strict)
	assert.LessOrEqual(t, strict, loose)
}

func TestSearch_EncodeFailurePropagates(t *testing.T) {
	sc := searchFixture(t)
	sc.Variants = []string{"failing variant"}

	enc := new(mockEncoder)
	enc.On("Encode", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

	err := retrieval.Search(context.Background(), sc, enc, discardLogger())
	assert.Error(t, err)
	assert.Empty(t, sc.Hits)
}

func TestSearch_EmbeddingCountMismatchFails(t *testing.T) {
	sc := searchFixture(t)
	sc.Variants = []string{"one", "two"}

	enc := new(mockEncoder)
	enc.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{1, 0}}, nil)

	err := retrieval.Search(context.Background(), sc, enc, discardLogger())
	assert.Error(t, err)
}

func TestSearch_NoVariantsFails(t *testing.T) {
	sc := searchFixture(t)
	sc.Variants = nil

	err := retrieval.Search(context.Background(), sc, new(mockEncoder), discardLogger())
	assert.Error(t, err)
}
