package answerit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/index"
	"github.com/poiesic/answerit/rag"
	"github.com/poiesic/answerit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider() *mock.MockProvider {
	embedder := mock.NewMockEmbedder()
	embedder.Dim = 4
	return mock.NewMockProviderWithServices(embedder, mock.NewMockReranker(), mock.NewMockGenerator()).(*mock.MockProvider)
}

func writeArtifacts(t *testing.T, numChunks, numVectors int) string {
	t.Helper()
	dir := t.TempDir()

	chunks := make([]core.Chunk, numChunks)
	for i := range chunks {
		chunks[i] = core.Chunk{
			Id:           "chunk_a_" + string(rune('0'+i)),
			Source:       "wiki:Article",
			ChunkId:      i,
			Text:         "passage number " + string(rune('0'+i)),
			ArticleTitle: "Article",
			StartChar:    i * 20,
			EndChar:      i*20 + 15,
		}
	}
	require.NoError(t, storage.SaveMetadata(filepath.Join(dir, storage.MetadataFilename), chunks))

	ix, err := index.New(4)
	require.NoError(t, err)
	for i := 0; i < numVectors; i++ {
		vector := make([]float32, 4)
		vector[i%4] = 1
		require.NoError(t, ix.Add(vector))
	}
	require.NoError(t, ix.Save(filepath.Join(dir, index.IndexFilename)))

	return dir
}

func TestOpenAndQuery(t *testing.T) {
	dir := writeArtifacts(t, 3, 3)

	system, err := Open(dir, WithProvider(testProvider()))
	require.NoError(t, err)
	defer system.Close()

	assert.Equal(t, 3, system.Chunks().Len())
	assert.Equal(t, 3, system.Index().Len())

	engine, err := system.NewEngine()
	require.NoError(t, err)

	result := engine.AnswerQuestion(context.Background(), "a question", rag.QueryOptions{})
	require.NotNil(t, result)
	assert.Empty(t, result.Stats.Error)
	assert.NotEmpty(t, result.Contexts)
}

func TestOpen_MissingMetadata(t *testing.T) {
	_, err := Open(t.TempDir(), WithProvider(testProvider()))
	assert.Error(t, err)
}

func TestOpen_MissingIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, storage.SaveMetadata(
		filepath.Join(dir, storage.MetadataFilename),
		[]core.Chunk{{Id: "chunk_a_0", Source: "wiki:A", Text: "x", ArticleTitle: "A", StartChar: 0, EndChar: 1}}))

	_, err := Open(dir, WithProvider(testProvider()))
	assert.Error(t, err)
}

func TestOpen_CardinalityMismatchIsNotFatal(t *testing.T) {
	dir := writeArtifacts(t, 2, 3)

	system, err := Open(dir, WithProvider(testProvider()))
	require.NoError(t, err)
	defer system.Close()

	engine, err := system.NewEngine()
	require.NoError(t, err)

	// Ids beyond the metadata store are skipped, not fatal
	result := engine.AnswerQuestion(context.Background(), "q", rag.QueryOptions{TopK: 3, TopN: 3})
	assert.Empty(t, result.Stats.Error)
	assert.LessOrEqual(t, len(result.Contexts), 2)
}
