package openai

import (
	"context"
	"log/slog"
	"math"

	"github.com/poiesic/answerit/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Texts are prefixed per the configured query/passage prefixes and the
// resulting vectors are L2-normalized, so inner products downstream equal
// cosine similarities.
type Embedder struct {
	embedder      embeddings.Embedder
	queryPrefix   string
	passagePrefix string
	logger        *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:      embedder,
		queryPrefix:   config.QueryPrefix,
		passagePrefix: config.PassagePrefix,
		logger:        slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedQuery generates a normalized embedding for a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	e.logger.Debug("generating query embedding", "length", len(query))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{e.queryPrefix + query})
	if err != nil {
		e.logger.Error("failed to generate query embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return normalize(vectors[0]), nil
}

// EmbedPassages generates normalized embeddings for multiple passages.
func (e *Embedder) EmbedPassages(ctx context.Context, passages []string) ([][]float32, error) {
	e.logger.Debug("generating passage embeddings", "count", len(passages))

	prefixed := make([]string, len(passages))
	for i, p := range passages {
		prefixed[i] = e.passagePrefix + p
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, prefixed)
	if err != nil {
		e.logger.Error("failed to generate passage embeddings", "count", len(passages), "err", err)
		return nil, err
	}

	for i := range vectors {
		vectors[i] = normalize(vectors[i])
	}
	return vectors, nil
}

// normalize scales a vector to unit length. The epsilon keeps zero vectors
// from dividing by zero.
func normalize(vector []float32) []float32 {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSquares) + 1e-10

	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = float32(float64(v) / norm)
	}
	return normalized
}
