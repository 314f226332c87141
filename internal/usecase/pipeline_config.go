package usecase

import "fmt"

// RetrievalConfig holds tunable parameters for retrieval, ranking and
// context assembly.
type RetrievalConfig struct {
	// TopK is the per-variant candidate count for simple and medium
	// questions; complex questions search 2*TopK. Capped at the
	// document's chunk count.
	TopK int

	// ScoreThreshold is the minimum inner-product similarity for a hit
	// to be kept.
	ScoreThreshold float32

	// MaxCandidates bounds the ranked candidate set after
	// deduplication.
	MaxCandidates int

	// MaxContextChars bounds the assembled context blob.
	MaxContextChars int

	// MinContextChars is the smallest context considered usable;
	// anything below it yields an insufficient-context response.
	MinContextChars int

	// SourceHitCount is how many top ranked hits contribute their
	// pages to the Result's sources.
	SourceHitCount int
}

// DefaultRetrievalConfig returns the standard pipeline parameters.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:            8,
		ScoreThreshold:  0.3,
		MaxCandidates:   12,
		MaxContextChars: 4000,
		MinContextChars: 100,
		SourceHitCount:  5,
	}
}

// Validate checks the configuration values.
func (c RetrievalConfig) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("topK must be positive, got %d", c.TopK)
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold >= 1 {
		return fmt.Errorf("scoreThreshold must be in [0, 1), got %f", c.ScoreThreshold)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("maxCandidates must be positive, got %d", c.MaxCandidates)
	}
	if c.MaxContextChars <= c.MinContextChars {
		return fmt.Errorf("maxContextChars (%d) must exceed minContextChars (%d)", c.MaxContextChars, c.MinContextChars)
	}
	if c.SourceHitCount <= 0 {
		return fmt.Errorf("sourceHitCount must be positive, got %d", c.SourceHitCount)
	}
	return nil
}

// SynthesisConfig holds per-strategy acceptance thresholds and the
// generative token budget.
type SynthesisConfig struct {
	// DirectThreshold is the span model confidence required by the
	// direct strategy.
	DirectThreshold float32

	// ContextualThreshold is slightly lower because the rephrased
	// question is already grounded.
	ContextualThreshold float32

	// ExtractiveThreshold is the lowest since the keyword-reduced
	// search space makes spurious spans less likely.
	ExtractiveThreshold float32

	// GenerativeMaxTokens bounds the generative model output.
	GenerativeMaxTokens int
}

// DefaultSynthesisConfig returns the standard strategy thresholds.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		DirectThreshold:     0.3,
		ContextualThreshold: 0.25,
		ExtractiveThreshold: 0.2,
		GenerativeMaxTokens: 300,
	}
}

// Validate checks the configuration values.
func (c SynthesisConfig) Validate() error {
	for name, v := range map[string]float32{
		"directThreshold":     c.DirectThreshold,
		"contextualThreshold": c.ContextualThreshold,
		"extractiveThreshold": c.ExtractiveThreshold,
	} {
		if v < 0 || v >= 1 {
			return fmt.Errorf("%s must be in [0, 1), got %f", name, v)
		}
	}
	if c.GenerativeMaxTokens <= 0 {
		return fmt.Errorf("generativeMaxTokens must be positive, got %d", c.GenerativeMaxTokens)
	}
	return nil
}
