package synthesis

import (
	"context"
	"fmt"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// notFoundMarker is the phrase the prompt instructs the model to emit
// when the context does not contain the answer. Such responses are
// treated as "no candidate" rather than surfaced to the user.
const notFoundMarker = "cannot find this information"

// GenerativeStrategy asks a generative model to answer strictly from
// the assembled context. It degrades to no candidate whenever the
// backend is unreachable or signals that the context is insufficient.
type GenerativeStrategy struct {
	llm       domain.LLMClient
	maxTokens int
}

// NewGenerativeStrategy creates the generative strategy. A nil client
// is allowed and always yields no candidate, so deployments without a
// generative backend still run the remaining strategies.
func NewGenerativeStrategy(llm domain.LLMClient, maxTokens int) *GenerativeStrategy {
	return &GenerativeStrategy{llm: llm, maxTokens: maxTokens}
}

func (s *GenerativeStrategy) Kind() Kind { return KindGenerative }

func (s *GenerativeStrategy) Generate(ctx context.Context, in Input) (*Candidate, error) {
	if s.llm == nil {
		return nil, nil
	}

	resp, err := s.llm.Generate(ctx, buildGroundedPrompt(in.Question, in.Context), s.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generative strategy: %w", err)
	}
	if resp == nil || !resp.Done {
		return nil, nil
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" || strings.Contains(strings.ToLower(answer), notFoundMarker) {
		return nil, nil
	}
	return &Candidate{Text: answer, Strategy: KindGenerative}, nil
}

func buildGroundedPrompt(question, contextText string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant that answers questions STRICTLY based on the provided document content.\n\n")
	sb.WriteString("IMPORTANT RULES:\n")
	sb.WriteString("1. Answer ONLY using information from the provided context\n")
	sb.WriteString("2. If the answer is not in the context, say \"I cannot find this information in the provided document\"\n")
	sb.WriteString("3. Be concise and direct - avoid unnecessary elaboration\n")
	sb.WriteString("4. Do not add external knowledge or assumptions\n")
	sb.WriteString("5. Quote specific parts when relevant\n\n")
	sb.WriteString("DOCUMENT CONTEXT:\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\nQUESTION: ")
	sb.WriteString(question)
	sb.WriteString("\n\nANSWER (be concise and factual):")
	return sb.String()
}
