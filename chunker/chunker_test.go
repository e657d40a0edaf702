package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		c, err := New(DefaultChunkSize, DefaultOverlap, DefaultMinChunkSize)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("chunk size below one", func(t *testing.T) {
		_, err := New(0, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := New(100, -1, 0)
		assert.ErrorIs(t, err, ErrInvalidOverlap)
	})

	t.Run("negative min chunk size", func(t *testing.T) {
		_, err := New(100, 10, -1)
		assert.ErrorIs(t, err, ErrInvalidMinChunkSize)
	})

	t.Run("overlap larger than chunk size is accepted", func(t *testing.T) {
		c, err := New(10, 20, 0)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestChunk_EmptyText(t *testing.T) {
	c, err := New(450, 60, 100)
	require.NoError(t, err)

	chunks := c.Chunk("", "1", "Empty")
	assert.Empty(t, chunks)
}

func TestChunk_DelimiterFreeSpans(t *testing.T) {
	// 1000 delimiter-free runes with size 450, overlap 60, min 100 must
	// produce exactly the spans [0,450), [390,840), [780,1000). The
	// would-be fourth span [940,1000) has length 60 and is discarded.
	c, err := New(450, 60, 100)
	require.NoError(t, err)

	text := strings.Repeat("a", 1000)
	chunks := c.Chunk(text, "7", "Solid")

	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].StartChar)
	assert.Equal(t, 450, chunks[0].EndChar)
	assert.Equal(t, 390, chunks[1].StartChar)
	assert.Equal(t, 840, chunks[1].EndChar)
	assert.Equal(t, 780, chunks[2].StartChar)
	assert.Equal(t, 1000, chunks[2].EndChar)
}

func TestChunk_Invariants(t *testing.T) {
	c, err := New(80, 20, 10)
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	runeLen := len([]rune(text))
	chunks := c.Chunk(text, "9", "Foxes")
	require.NotEmpty(t, chunks)

	prevStart := -1
	for i, ch := range chunks {
		assert.GreaterOrEqual(t, ch.StartChar, 0)
		assert.Less(t, ch.StartChar, ch.EndChar)
		assert.LessOrEqual(t, ch.EndChar, runeLen)
		// chunk ids form a contiguous ascending sequence from 0
		assert.Equal(t, i, ch.ChunkId)
		// boundaries are monotonically non-decreasing
		assert.Greater(t, ch.StartChar, prevStart)
		prevStart = ch.StartChar
		assert.GreaterOrEqual(t, len([]rune(ch.Text)), 10)
	}
	assert.Equal(t, "chunk_9_0", chunks[0].Id)
	assert.Equal(t, "wiki:Foxes", chunks[0].Source)
	assert.Equal(t, "Foxes", chunks[0].ArticleTitle)
}

func TestChunk_TerminatesWhenOverlapExceedsChunkSize(t *testing.T) {
	// overlap >= chunk size would loop forever without the non-advance
	// guard; the guard restarts each window at the previous end.
	c, err := New(10, 25, 0)
	require.NoError(t, err)

	text := strings.Repeat("b", 95)
	chunks := c.Chunk(text, "3", "Guard")
	require.NotEmpty(t, chunks)

	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].EndChar, chunks[i].StartChar)
	}
	assert.Equal(t, 95, chunks[len(chunks)-1].EndChar)
}

func TestChunk_SnapsToSentenceBoundary(t *testing.T) {
	c, err := New(50, 0, 5)
	require.NoError(t, err)

	text := strings.Repeat("x", 30) + ". " + strings.Repeat("y", 40)
	chunks := c.Chunk(text, "5", "Snap")
	require.GreaterOrEqual(t, len(chunks), 2)

	// The window before target 50 contains the period at rune 30; the cut
	// lands just past it, not at the hard target.
	assert.Equal(t, 31, chunks[0].EndChar)
	assert.Equal(t, strings.Repeat("x", 30)+".", chunks[0].Text)
}

func TestChunk_SentencePunctuationBeatsLaterSpace(t *testing.T) {
	c, err := New(40, 0, 1)
	require.NoError(t, err)

	// A period early in the window outranks spaces that occur further
	// right: delimiter class priority, not position, decides first.
	text := "alpha beta. gamma delta epsilon zeta etaaa theta iota"
	chunks := c.Chunk(text, "11", "Priority")
	require.NotEmpty(t, chunks)
	assert.Equal(t, "alpha beta.", chunks[0].Text)
}

func TestChunk_CJKDelimiters(t *testing.T) {
	c, err := New(12, 0, 2)
	require.NoError(t, err)

	text := strings.Repeat("語", 8) + "。" + strings.Repeat("語", 10)
	chunks := c.Chunk(text, "13", "日本語")
	require.GreaterOrEqual(t, len(chunks), 2)

	// Rune offsets: the sentence mark sits at rune 8, so the first chunk
	// ends at rune 9 regardless of UTF-8 byte widths.
	assert.Equal(t, 9, chunks[0].EndChar)
	assert.Equal(t, strings.Repeat("語", 8)+"。", chunks[0].Text)
}

func TestChunk_ShortChunksDiscardedWithoutAdvancingSequence(t *testing.T) {
	c, err := New(30, 0, 20)
	require.NoError(t, err)

	// Second window trims to below the minimum; the surviving chunks must
	// still carry contiguous ids.
	text := strings.Repeat("m", 30) + strings.Repeat(" ", 25) + strings.Repeat("n", 35)
	chunks := c.Chunk(text, "17", "Gaps")
	require.NotEmpty(t, chunks)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkId)
	}
}

func TestChunk_TrimmedTextKeepsOriginalSpan(t *testing.T) {
	c, err := New(450, 60, 5)
	require.NoError(t, err)

	text := "   leading and trailing whitespace around a sentence.   "
	chunks := c.Chunk(text, "19", "Trim")
	require.Len(t, chunks, 1)

	assert.Equal(t, "leading and trailing whitespace around a sentence.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartChar)
	assert.Equal(t, len([]rune(text)), chunks[0].EndChar)
}
