package domain

import (
	"fmt"
	"math"
	"sort"
)

// normEpsilon guards against division by zero when normalizing a zero
// vector.
const normEpsilon = 1e-10

// IndexHit is one row returned from a nearest-neighbor search.
type IndexHit struct {
	Row   int
	Score float32
}

// FlatIndex is an exact inner-product nearest-neighbor index over
// normalized embeddings. Per-document corpora are small (tens to low
// thousands of chunks), so brute-force search is sufficient and keeps
// results exact. Row i of the index always corresponds to chunks[i] of
// the owning document.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex creates an empty index for vectors of the given
// dimension.
func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// Dim returns the vector dimension.
func (ix *FlatIndex) Dim() int {
	return ix.dim
}

// Rows returns the number of stored vectors.
func (ix *FlatIndex) Rows() int {
	return len(ix.vectors)
}

// Add appends a vector as the next row. The caller is responsible for
// normalizing first.
func (ix *FlatIndex) Add(vec []float32) error {
	if len(vec) != ix.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vec), ix.dim)
	}
	ix.vectors = append(ix.vectors, vec)
	return nil
}

// Vector returns the stored vector at row. The returned slice must be
// treated as read-only.
func (ix *FlatIndex) Vector(row int) []float32 {
	return ix.vectors[row]
}

// Search returns the k rows with the highest inner product against the
// query vector, in descending score order. Ties break toward the lower
// row so results are deterministic. k larger than the row count is
// clamped.
func (ix *FlatIndex) Search(query []float32, k int) []IndexHit {
	if k <= 0 || len(ix.vectors) == 0 || len(query) != ix.dim {
		return nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	hits := make([]IndexHit, len(ix.vectors))
	for row, vec := range ix.vectors {
		var dot float32
		for i, v := range vec {
			dot += v * query[i]
		}
		hits[row] = IndexHit{Row: row, Score: dot}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits[:k]
}

// Normalize returns v scaled to unit L2 norm. A small epsilon keeps the
// division defined for a zero vector. Applying Normalize twice yields
// the same vector as applying it once, within floating-point tolerance.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + normEpsilon

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
