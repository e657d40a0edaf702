package mock

import (
	"context"
	"hash/fnv"
)

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedQueryFunc is called by EmbedQuery if set.
	// If nil, uses default deterministic behavior.
	EmbedQueryFunc func(ctx context.Context, query string) ([]float32, error)

	// EmbedPassagesFunc is called by EmbedPassages if set.
	// If nil, uses default deterministic behavior.
	EmbedPassagesFunc func(ctx context.Context, passages []string) ([][]float32, error)

	// Dim is the dimension of default-generated vectors. Defaults to 384.
	Dim int

	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dim: 384}
}

// EmbedQuery generates a deterministic embedding based on the query hash.
func (m *MockEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.callCount++

	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, query)
	}

	return generateDeterministicVector(query, m.dim()), nil
}

// EmbedPassages generates deterministic embeddings for multiple passages.
func (m *MockEmbedder) EmbedPassages(ctx context.Context, passages []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedPassagesFunc != nil {
		return m.EmbedPassagesFunc(ctx, passages)
	}

	embeddings := make([][]float32, len(passages))
	for i, passage := range passages {
		embeddings[i] = generateDeterministicVector(passage, m.dim())
	}
	return embeddings, nil
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedQueryFunc = nil
	m.EmbedPassagesFunc = nil
}

func (m *MockEmbedder) dim() int {
	if m.Dim > 0 {
		return m.Dim
	}
	return 384
}

// generateDeterministicVector creates a deterministic embedding vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// Simple pseudo-random generation based on seed and index
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	// Normalize to unit vector
	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	if sumSquares > 0 {
		norm := float32(1.0) / float32(sumSquares)
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
