package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/answerit/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, produces a deterministic synthetic answer.
	GenerateFunc func(ctx context.Context, question string, contexts []core.Candidate) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a synthetic answer naming the question and context count.
func (m *MockGenerator) Generate(ctx context.Context, question string, contexts []core.Candidate) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, question, contexts)
	}

	return fmt.Sprintf("mock answer to %q from %d contexts", question, len(contexts)), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
