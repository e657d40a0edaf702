package storage

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// ChunkStore provides positional access to chunk metadata. Index i
// corresponds to vector id i in the flat index.
// Implementations must be safe for concurrent readers.
type ChunkStore interface {
	// Get returns the chunk at position i, or false if i is out of range.
	Get(i int) (*core.Chunk, bool)

	// Len returns the number of stored chunks.
	Len() int
}

// EmbeddingCache stores passage embeddings keyed by content ID so that
// rebuilds skip re-embedding unchanged text.
type EmbeddingCache interface {
	// Get returns the cached vector for id, or false if absent.
	Get(ctx context.Context, id core.ID) ([]float32, bool, error)

	// Put stores the vector for id, overwriting any previous value.
	Put(ctx context.Context, id core.ID, vector []float32) error

	// Close closes the cache and releases resources.
	Close() error
}
