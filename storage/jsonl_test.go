package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunk(seq int, text string) core.Chunk {
	return core.Chunk{
		Id:           "chunk_article_" + string(rune('0'+seq)),
		Source:       "wiki:Test Article",
		ChunkId:      seq,
		Text:         text,
		ArticleTitle: "Test Article",
		StartChar:    seq * 10,
		EndChar:      seq*10 + len(text),
	}
}

func TestMetadataStore(t *testing.T) {
	store := NewMetadataStore([]core.Chunk{
		testChunk(0, "first chunk"),
		testChunk(1, "second chunk"),
	})

	t.Run("positional access", func(t *testing.T) {
		chunk, ok := store.Get(1)
		require.True(t, ok)
		assert.Equal(t, "second chunk", chunk.Text)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("out of range", func(t *testing.T) {
		_, ok := store.Get(-1)
		assert.False(t, ok)
		_, ok = store.Get(2)
		assert.False(t, ok)
	})
}

func TestSaveLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", MetadataFilename)

	chunks := []core.Chunk{
		testChunk(0, "日本語のテキストも往復できる。"),
		testChunk(1, "second chunk"),
	}
	require.NoError(t, SaveMetadata(path, chunks))

	store, err := LoadMetadata(path)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	assert.Equal(t, chunks, store.Chunks())
}

func TestLoadMetadata_Missing(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestLoadMetadata_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetadataFilename)
	content := `{"id":"chunk_a_0","source":"wiki:A","chunk_id":0,"text":"ok","article_title":"A","start_char":0,"end_char":2}
not json at all
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadMetadata(path)
	assert.ErrorIs(t, err, ErrCorruptMetadata)
}

func TestLoadMetadata_InvalidChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetadataFilename)
	// end_char before start_char fails validation
	content := `{"id":"chunk_a_0","source":"wiki:A","chunk_id":0,"text":"ok","article_title":"A","start_char":5,"end_char":2}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadMetadata(path)
	assert.ErrorIs(t, err, ErrCorruptMetadata)
}

func TestLoadMetadata_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetadataFilename)
	content := `{"id":"chunk_a_0","source":"wiki:A","chunk_id":0,"text":"ok","article_title":"A","start_char":0,"end_char":2}

{"id":"chunk_a_1","source":"wiki:A","chunk_id":1,"text":"ok too","article_title":"A","start_char":2,"end_char":8}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}
