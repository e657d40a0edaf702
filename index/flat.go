// Package index provides an exact inner-product nearest-neighbor store for
// pre-normalized embedding vectors, plus persistence for the index and the
// raw embedding-matrix artifact.
package index

import (
	"fmt"
	"log/slog"
	"slices"
)

// FlatIndex is an exact (brute-force) inner-product index over a dense id
// space. Ids are assigned in insertion order starting at 0 and refer into
// the chunk metadata loaded alongside the index.
//
// Vectors are assumed L2-normalized so inner product equals cosine
// similarity. The index is append-only at build time and read-only at query
// time; concurrent Search calls need no coordination.
type FlatIndex struct {
	dim     int
	vectors [][]float32
	logger  *slog.Logger
}

// Match is one search hit: the vector's dense id and its similarity score.
type Match struct {
	Id    int
	Score float32
}

// Stats summarizes the index contents.
type Stats struct {
	Total int
	Dim   int
}

// New creates an empty index with a fixed dimension.
func New(dim int) (*FlatIndex, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return &FlatIndex{
		dim:    dim,
		logger: slog.Default().With("component", "flat-index"),
	}, nil
}

// Build registers vectors in bulk, assigning ids in insertion order.
// Fails with ErrDimensionMismatch if any vector's length differs from the
// index dimension; nothing is added on failure.
func (ix *FlatIndex) Build(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index has %d",
				ErrDimensionMismatch, i, len(v), ix.dim)
		}
	}
	ix.vectors = append(ix.vectors, vectors...)
	ix.logger.Info("added vectors to index", "count", len(vectors), "dim", ix.dim)
	return nil
}

// Add registers vectors one at a time, assigning ids in insertion order.
func (ix *FlatIndex) Add(vectors ...[]float32) error {
	return ix.Build(vectors)
}

// Search returns up to k matches ordered by descending score, ties broken
// by ascending id for determinism. Returns fewer than k matches if the
// index holds fewer vectors, and an empty slice for k <= 0.
func (ix *FlatIndex) Search(query []float32, k int) ([]Match, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			ErrDimensionMismatch, len(query), ix.dim)
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return []Match{}, nil
	}

	matches := make([]Match, len(ix.vectors))
	for id, v := range ix.vectors {
		matches[id] = Match{Id: id, Score: dotProduct(query, v)}
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.Id - b.Id
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Len returns the number of stored vectors.
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}

// Dim returns the index dimension.
func (ix *FlatIndex) Dim() int {
	return ix.dim
}

// GetStats returns index statistics.
func (ix *FlatIndex) GetStats() Stats {
	return Stats{Total: len(ix.vectors), Dim: ix.dim}
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
