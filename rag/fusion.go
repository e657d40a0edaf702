package rag

import "fmt"

// CombineScores blends vector and reranker scores element-wise as
// alpha*v + (1-alpha)*r. At alpha 1 the vector scores pass through
// unchanged, at alpha 0 the rerank scores do. The default pipeline
// replaces vector order with reranker order outright; this is the
// primitive for policies that want a weighted blend instead.
func CombineScores(vectorScores, rerankScores []float32, alpha float32) ([]float32, error) {
	if len(vectorScores) != len(rerankScores) {
		return nil, fmt.Errorf("%w: %d vector scores, %d rerank scores",
			ErrScoreLengthMismatch, len(vectorScores), len(rerankScores))
	}

	combined := make([]float32, len(vectorScores))
	for i := range vectorScores {
		combined[i] = alpha*vectorScores[i] + (1-alpha)*rerankScores[i]
	}
	return combined, nil
}
