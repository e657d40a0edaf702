package ai

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// Embedder generates vector embeddings from text for semantic similarity
// search. Returned vectors are L2-normalized so the inner product of two
// embeddings equals their cosine similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedQuery generates an embedding for a search query.
	// Returns an error if the embedding generation fails.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// EmbedPassages generates embeddings for multiple passages in a batch.
	// The returned slice contains embeddings in the same order as the input.
	// Returns an error if any embedding generation fails.
	EmbedPassages(ctx context.Context, passages []string) ([][]float32, error)
}

// RankedPassage references a passage by its index in the slice handed to
// Rerank, paired with the relevance score the reranker assigned.
type RankedPassage struct {
	Index int
	Score float32
}

// Reranker re-scores query/passage pairs with a higher-precision model to
// reorder or prune vector-search results.
//
// Availability is an explicit capability state rather than an error: a
// reranker whose model could not be loaded (or was never configured) reports
// Available() == false, and callers degrade to vector order without treating
// that as a failure.
type Reranker interface {
	// Available reports whether the reranker can be called.
	Available() bool

	// Rerank scores each passage against the query and returns up to topN
	// passages ordered by descending relevance.
	// Returns an error if the scoring call fails.
	Rerank(ctx context.Context, query string, passages []string, topN int) ([]RankedPassage, error)
}

// Generator produces an answer from a question and its retrieved contexts.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces the answer text. Contexts are ordered most relevant
	// first and are never empty; callers skip generation entirely when no
	// context survived selection.
	Generate(ctx context.Context, question string, contexts []core.Candidate) (string, error)
}

// Provider aggregates the AI capabilities for convenient initialization and
// lifecycle management. A provider creates and manages Embedder, Reranker,
// and Generator instances, ensuring they share configuration appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Reranker returns the reranking service. Never nil: an unconfigured
	// reranker is returned in the unavailable state.
	Reranker() Reranker

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
