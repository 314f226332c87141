package domain

import "context"

// SpanAnswer is a contiguous substring of the context selected by a
// span-extraction QA model, with the model's own confidence.
type SpanAnswer struct {
	Text  string
	Score float32
}

// SpanExtractor defines the interface for extractive question
// answering: given a question and a context, it selects the span of
// the context most likely to answer the question.
type SpanExtractor interface {
	Extract(ctx context.Context, question, contextText string) (*SpanAnswer, error)
	Version() string
}
