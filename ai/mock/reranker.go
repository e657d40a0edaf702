package mock

import (
	"context"

	"github.com/poiesic/answerit/ai"
)

// MockReranker is a test double for ai.Reranker.
// It allows custom behavior injection via function fields.
type MockReranker struct {
	// RerankFunc is called by Rerank if set.
	// If nil, uses default behavior: input order with decaying scores.
	RerankFunc func(ctx context.Context, query string, passages []string, topN int) ([]ai.RankedPassage, error)

	// Unavailable makes Available report false.
	Unavailable bool

	callCount int
}

// NewMockReranker creates a mock reranker with default behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Available reports the configured availability state.
func (m *MockReranker) Available() bool {
	return !m.Unavailable
}

// Rerank returns up to topN passages. The default keeps input order and
// assigns scores 1.0, 0.9, 0.8, ...
func (m *MockReranker) Rerank(ctx context.Context, query string, passages []string, topN int) ([]ai.RankedPassage, error) {
	m.callCount++

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, query, passages, topN)
	}

	n := topN
	if n > len(passages) {
		n = len(passages)
	}
	ranked := make([]ai.RankedPassage, 0, n)
	for i := 0; i < n; i++ {
		ranked = append(ranked, ai.RankedPassage{Index: i, Score: 1.0 - float32(i)*0.1})
	}
	return ranked, nil
}

// CallCount returns the number of times Rerank was called.
func (m *MockReranker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockReranker) Reset() {
	m.callCount = 0
	m.RerankFunc = nil
	m.Unavailable = false
}
