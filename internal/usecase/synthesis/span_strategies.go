package synthesis

import (
	"context"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// DirectStrategy feeds the question and context straight to the
// span-extraction model and accepts the span only above its own
// confidence threshold.
type DirectStrategy struct {
	extractor domain.SpanExtractor
	threshold float32
}

// NewDirectStrategy creates the direct span-extraction strategy.
func NewDirectStrategy(extractor domain.SpanExtractor, threshold float32) *DirectStrategy {
	return &DirectStrategy{extractor: extractor, threshold: threshold}
}

func (s *DirectStrategy) Kind() Kind { return KindDirect }

func (s *DirectStrategy) Generate(ctx context.Context, in Input) (*Candidate, error) {
	ans, err := s.extractor.Extract(ctx, in.Question, in.Context)
	if err != nil {
		return nil, err
	}
	if ans == nil || ans.Score <= s.threshold {
		return nil, nil
	}
	return &Candidate{Text: strings.TrimSpace(ans.Text), Strategy: KindDirect}, nil
}

// ContextualStrategy rephrases the question as an explicitly
// document-grounded one before extraction. The acceptance threshold is
// slightly lower than the direct strategy's.
type ContextualStrategy struct {
	extractor domain.SpanExtractor
	threshold float32
}

// NewContextualStrategy creates the contextual rephrasing strategy.
func NewContextualStrategy(extractor domain.SpanExtractor, threshold float32) *ContextualStrategy {
	return &ContextualStrategy{extractor: extractor, threshold: threshold}
}

func (s *ContextualStrategy) Kind() Kind { return KindContextual }

func (s *ContextualStrategy) Generate(ctx context.Context, in Input) (*Candidate, error) {
	question := "Based on the document, " + strings.ToLower(in.Question)
	ans, err := s.extractor.Extract(ctx, question, in.Context)
	if err != nil {
		return nil, err
	}
	if ans == nil || ans.Score <= s.threshold {
		return nil, nil
	}
	return &Candidate{Text: strings.TrimSpace(ans.Text), Strategy: KindContextual}, nil
}

// ExtractiveStrategy narrows the context to sentences containing the
// top question keywords and extracts from that reduced text. The
// smaller search space justifies the lowest acceptance threshold.
type ExtractiveStrategy struct {
	extractor domain.SpanExtractor
	threshold float32
}

// NewExtractiveStrategy creates the keyword-filtered strategy.
func NewExtractiveStrategy(extractor domain.SpanExtractor, threshold float32) *ExtractiveStrategy {
	return &ExtractiveStrategy{extractor: extractor, threshold: threshold}
}

func (s *ExtractiveStrategy) Kind() Kind { return KindExtractive }

func (s *ExtractiveStrategy) Generate(ctx context.Context, in Input) (*Candidate, error) {
	keywords := in.Intent.Keywords
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	var relevant []string
	for _, sentence := range strings.Split(in.Context, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				relevant = append(relevant, sentence)
				break
			}
		}
		if len(relevant) >= 3 {
			break
		}
	}
	if len(relevant) == 0 {
		return nil, nil
	}

	miniContext := strings.Join(relevant, ". ")
	ans, err := s.extractor.Extract(ctx, in.Question, miniContext)
	if err != nil {
		return nil, err
	}
	if ans == nil || ans.Score <= s.threshold {
		return nil, nil
	}
	return &Candidate{Text: strings.TrimSpace(ans.Text), Strategy: KindExtractive}, nil
}
