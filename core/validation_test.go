package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChunk() *Chunk {
	return &Chunk{
		Id:           "chunk_42_0",
		Source:       "wiki:Ampersand",
		ChunkId:      0,
		Text:         "An ampersand is a logogram representing the conjunction and.",
		ArticleTitle: "Ampersand",
		StartChar:    0,
		EndChar:      61,
	}
}

func TestValidateChunk(t *testing.T) {
	t.Run("valid chunk", func(t *testing.T) {
		require.NoError(t, ValidateChunk(validChunk()))
	})

	t.Run("nil chunk", func(t *testing.T) {
		err := ValidateChunk(nil)
		assert.ErrorIs(t, err, ErrInvalidChunk)
	})

	t.Run("empty id", func(t *testing.T) {
		c := validChunk()
		c.Id = ""
		err := ValidateChunk(c)
		assert.ErrorIs(t, err, ErrInvalidChunk)
		assert.ErrorIs(t, err, ErrEmptyChunkId)
	})

	t.Run("empty text", func(t *testing.T) {
		c := validChunk()
		c.Text = ""
		err := ValidateChunk(c)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("negative sequence number", func(t *testing.T) {
		c := validChunk()
		c.ChunkId = -1
		err := ValidateChunk(c)
		assert.ErrorIs(t, err, ErrNegativeChunkSeq)
	})

	t.Run("inverted span", func(t *testing.T) {
		c := validChunk()
		c.StartChar = 61
		c.EndChar = 61
		err := ValidateChunk(c)
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})

	t.Run("negative start", func(t *testing.T) {
		c := validChunk()
		c.StartChar = -1
		err := ValidateChunk(c)
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})
}

func TestValidateArticle(t *testing.T) {
	t.Run("valid article", func(t *testing.T) {
		a := &Article{Id: "42", Title: "Ampersand", Text: "An ampersand is...", Source: "wiki:Ampersand"}
		require.NoError(t, ValidateArticle(a))
	})

	t.Run("nil article", func(t *testing.T) {
		assert.ErrorIs(t, ValidateArticle(nil), ErrInvalidArticle)
	})

	t.Run("empty title", func(t *testing.T) {
		a := &Article{Id: "42", Text: "text"}
		assert.ErrorIs(t, ValidateArticle(a), ErrEmptyTitle)
	})

	t.Run("empty text", func(t *testing.T) {
		a := &Article{Id: "42", Title: "Ampersand"}
		assert.ErrorIs(t, ValidateArticle(a), ErrEmptyText)
	})
}
