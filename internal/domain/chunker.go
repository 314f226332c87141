package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ChunkerVersion identifies the chunking algorithm so that a stored
// document records which version produced its chunks.
type ChunkerVersion string

const (
	// ChunkerVersionV1 is the sentence-window chunker with word overlap.
	ChunkerVersionV1 ChunkerVersion = "v1"
)

const (
	// DefaultMaxChunkSize is the maximum chunk length in characters.
	DefaultMaxChunkSize = 800
	// DefaultOverlapWords is the number of trailing words carried into
	// the next chunk as overlap context.
	DefaultOverlapWords = 20
	// DefaultMinChunkLength is the minimum chunk length in characters.
	// Shorter chunks are discarded as extraction noise.
	DefaultMinChunkLength = 25
)

// Chunk is the atomic retrieval unit: a bounded, page-anchored span of
// document text. Chunks are immutable once created.
type Chunk struct {
	ID         string
	Text       string
	Page       int
	ChunkIndex int
	Length     int
}

// Fingerprint returns a stable identity for deduplication across query
// variants: the page number plus a hash of the leading text.
func (c Chunk) Fingerprint() string {
	head := c.Text
	if len(head) > 100 {
		head = head[:100]
	}
	sum := sha256.Sum256([]byte(head))
	return fmt.Sprintf("%d_%s", c.Page, hex.EncodeToString(sum[:8]))
}

// ChunkerConfig holds tunable chunking parameters.
type ChunkerConfig struct {
	MaxChunkSize   int
	OverlapWords   int
	MinChunkLength int
}

// DefaultChunkerConfig returns the standard chunking parameters.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MaxChunkSize:   DefaultMaxChunkSize,
		OverlapWords:   DefaultOverlapWords,
		MinChunkLength: DefaultMinChunkLength,
	}
}

// Chunker splits page text into retrieval chunks. Implementations must
// be deterministic: identical input yields an identical chunk sequence.
type Chunker interface {
	Chunk(page Page) []Chunk
	Version() ChunkerVersion
}

type sentenceChunker struct {
	cfg ChunkerConfig
}

// NewChunker creates the default sentence-window chunker.
func NewChunker() Chunker {
	return NewChunkerWithConfig(DefaultChunkerConfig())
}

// NewChunkerWithConfig creates a sentence-window chunker with explicit
// parameters.
func NewChunkerWithConfig(cfg ChunkerConfig) Chunker {
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = DefaultMaxChunkSize
	}
	if cfg.OverlapWords <= 0 {
		cfg.OverlapWords = DefaultOverlapWords
	}
	if cfg.MinChunkLength < 0 {
		cfg.MinChunkLength = DefaultMinChunkLength
	}
	return &sentenceChunker{cfg: cfg}
}

func (c *sentenceChunker) Version() ChunkerVersion {
	return ChunkerVersionV1
}

// Chunk accumulates sentences into windows of at most MaxChunkSize
// characters. When a window is emitted, the last OverlapWords words are
// carried into the next window so context is not lost at boundaries.
// A single sentence longer than the window is split on word boundaries.
// Windows shorter than MinChunkLength are discarded.
func (c *sentenceChunker) Chunk(page Page) []Chunk {
	text := strings.TrimSpace(page.Text)
	if text == "" {
		return nil
	}

	var windows []string
	var buf string

	for _, sentence := range splitIntoSentences(text) {
		pieces := []string{sentence}
		if len(sentence) > c.cfg.MaxChunkSize {
			pieces = splitOnWordBoundaries(sentence, c.cfg.MaxChunkSize)
		}

		for _, piece := range pieces {
			if buf != "" && len(buf)+1+len(piece) > c.cfg.MaxChunkSize {
				windows = append(windows, buf)
				buf = overlapTail(buf, c.cfg.OverlapWords) + " " + piece
				continue
			}
			if buf == "" {
				buf = piece
			} else {
				buf += " " + piece
			}
		}
	}
	if buf != "" {
		windows = append(windows, buf)
	}

	var chunks []Chunk
	idx := 0
	for _, w := range windows {
		w = strings.TrimSpace(w)
		if len(w) < c.cfg.MinChunkLength {
			continue
		}
		chunks = append(chunks, Chunk{
			ID:         fmt.Sprintf("p%d_c%d", page.Number, idx),
			Text:       w,
			Page:       page.Number,
			ChunkIndex: idx,
			Length:     len(w),
		})
		idx++
	}
	return chunks
}

// overlapTail returns the last n words of text.
func overlapTail(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
