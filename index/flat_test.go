package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid dimension", func(t *testing.T) {
		ix, err := New(3)
		require.NoError(t, err)
		assert.Equal(t, 3, ix.Dim())
		assert.Equal(t, 0, ix.Len())
	})

	t.Run("zero dimension", func(t *testing.T) {
		_, err := New(0)
		assert.ErrorIs(t, err, ErrInvalidDimension)
	})
}

func TestBuild(t *testing.T) {
	t.Run("assigns dense ids in insertion order", func(t *testing.T) {
		ix, err := New(2)
		require.NoError(t, err)
		require.NoError(t, ix.Build([][]float32{{1, 0}, {0, 1}}))
		require.NoError(t, ix.Add([]float32{0.5, 0.5}))
		assert.Equal(t, 3, ix.Len())
	})

	t.Run("dimension mismatch rejects the whole batch", func(t *testing.T) {
		ix, err := New(2)
		require.NoError(t, err)
		err = ix.Build([][]float32{{1, 0}, {0, 1, 0}})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, 0, ix.Len(), "nothing added on failure")
	})
}

func TestSearch(t *testing.T) {
	ix, err := New(2)
	require.NoError(t, err)
	require.NoError(t, ix.Build([][]float32{
		{1, 0},   // id 0
		{0, 1},   // id 1
		{0.6, 0.8}, // id 2
	}))

	t.Run("descending score order", func(t *testing.T) {
		matches, err := ix.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, 0, matches[0].Id)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
		assert.Equal(t, 2, matches[1].Id)
		assert.Equal(t, 1, matches[2].Id)
	})

	t.Run("k bounds the result", func(t *testing.T) {
		matches, err := ix.Search([]float32{1, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("k larger than the store returns everything", func(t *testing.T) {
		matches, err := ix.Search([]float32{1, 0}, 100)
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("non-positive k returns empty", func(t *testing.T) {
		matches, err := ix.Search([]float32{1, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := ix.Search([]float32{1, 0, 0}, 3)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestSearch_TiesBrokenByAscendingId(t *testing.T) {
	ix, err := New(2)
	require.NoError(t, err)
	// ids 1 and 3 score identically against the query
	require.NoError(t, ix.Build([][]float32{
		{0, 1},
		{1, 0},
		{0, 1},
		{1, 0},
	}))

	matches, err := ix.Search([]float32{1, 0}, 4)
	require.NoError(t, err)
	require.Len(t, matches, 4)
	assert.Equal(t, 1, matches[0].Id)
	assert.Equal(t, 3, matches[1].Id)
	assert.Equal(t, 0, matches[2].Id)
	assert.Equal(t, 2, matches[3].Id)
}

func TestSearch_EmptyIndex(t *testing.T) {
	ix, err := New(4)
	require.NoError(t, err)

	matches, err := ix.Search([]float32{0, 0, 0, 1}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, IndexFilename)

	ix, err := New(3)
	require.NoError(t, err)
	require.NoError(t, ix.Build([][]float32{
		{1, 0, 0},
		{0, 0.6, 0.8},
	}))
	require.NoError(t, ix.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	// Dimension is recovered from the blob alone
	assert.Equal(t, 3, loaded.Dim())
	assert.Equal(t, 2, loaded.Len())

	matches, err := loaded.Search([]float32{0, 0.6, 0.8}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Id)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.flat"))
	assert.Error(t, err)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.flat")
	require.NoError(t, os.WriteFile(path, []byte{0xff}, 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEmbeddingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, EmbeddingsFilename)

	embeddings := [][]float32{
		{0.1, 0.2, 0.3},
		{-0.4, 0.5, -0.6},
	}
	require.NoError(t, SaveEmbeddings(path, embeddings))

	loaded, err := LoadEmbeddings(path)
	require.NoError(t, err)
	assert.Equal(t, embeddings, loaded)
}

func TestSaveEmbeddings_RaggedMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.mus")
	err := SaveEmbeddings(path, [][]float32{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
