package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineScores(t *testing.T) {
	v := []float32{0.8, 0.6, 0.4}
	r := []float32{0.1, 0.9, 0.5}

	t.Run("alpha one returns vector scores", func(t *testing.T) {
		combined, err := CombineScores(v, r, 1.0)
		require.NoError(t, err)
		assert.Equal(t, v, combined)
	})

	t.Run("alpha zero returns rerank scores", func(t *testing.T) {
		combined, err := CombineScores(v, r, 0.0)
		require.NoError(t, err)
		assert.Equal(t, r, combined)
	})

	t.Run("blends element-wise", func(t *testing.T) {
		combined, err := CombineScores(v, r, 0.5)
		require.NoError(t, err)
		require.Len(t, combined, 3)
		assert.InDelta(t, 0.45, combined[0], 1e-6)
		assert.InDelta(t, 0.75, combined[1], 1e-6)
		assert.InDelta(t, 0.45, combined[2], 1e-6)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := CombineScores(v, r[:2], 0.5)
		assert.ErrorIs(t, err, ErrScoreLengthMismatch)
	})

	t.Run("empty inputs", func(t *testing.T) {
		combined, err := CombineScores(nil, nil, 0.5)
		require.NoError(t, err)
		assert.Empty(t, combined)
	})
}
