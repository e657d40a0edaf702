package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/chunker"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/index"
	"github.com/poiesic/answerit/storage"
)

const (
	// DefaultBatchSize is the number of passages sent per embedding call.
	DefaultBatchSize = 32

	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Pipeline turns articles into the three build artifacts: chunk metadata,
// the embedding matrix, and the flat index. Embedding batches run
// concurrently on a worker pool; each batch consults the optional cache
// before calling the embedder.
type Pipeline struct {
	chunker     *chunker.Chunker
	embedder    ai.Embedder
	pool        *ants.Pool
	batchSize   int
	cache       storage.EmbeddingCache
	cacheSpace  string
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of passages per embedding call.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithCache attaches an embedding cache. The namespace, normally the
// embedding model name, is folded into the cache key so vectors from
// different models never collide.
func WithCache(cache storage.EmbeddingCache, namespace string) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		p.cacheSpace = namespace
		return nil
	}
}

// WithRetry configures retry behavior for embedding calls.
// Defaults are 3 attempts with a 500ms base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a build pipeline.
func NewPipeline(ck *chunker.Chunker, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if ck == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunker:     ck,
		embedder:    embedder,
		pool:        pool,
		batchSize:   DefaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default().With("component", "ingest-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// BuildStats summarizes a completed build run.
type BuildStats struct {
	Articles  int
	Chunks    int
	CacheHits int
	Dim       int
}

// Run chunks articles, embeds every chunk, and writes the three artifacts
// under outDir. Row i of the embedding matrix and id i of the index both
// correspond to line i of the metadata file.
func (p *Pipeline) Run(ctx context.Context, articles []core.Article, outDir string) (*BuildStats, error) {
	started := time.Now()

	var chunks []core.Chunk
	for _, article := range articles {
		chunks = append(chunks, p.chunker.Chunk(article.Text, article.Id, article.Title)...)
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	p.logger.Info("chunking complete", "articles", len(articles), "chunks", len(chunks))

	if err := storage.SaveMetadata(filepath.Join(outDir, storage.MetadataFilename), chunks); err != nil {
		return nil, err
	}

	embeddings, cacheHits, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	dim := len(embeddings[0])
	if err := index.SaveEmbeddings(filepath.Join(outDir, index.EmbeddingsFilename), embeddings); err != nil {
		return nil, err
	}

	ix, err := index.New(dim)
	if err != nil {
		return nil, err
	}
	if err := ix.Build(embeddings); err != nil {
		return nil, err
	}
	if err := ix.Save(filepath.Join(outDir, index.IndexFilename)); err != nil {
		return nil, err
	}

	stats := &BuildStats{
		Articles:  len(articles),
		Chunks:    len(chunks),
		CacheHits: cacheHits,
		Dim:       dim,
	}
	p.logger.Info("build complete",
		"articles", stats.Articles,
		"chunks", stats.Chunks,
		"cacheHits", stats.CacheHits,
		"dim", stats.Dim,
		"elapsed", time.Since(started))
	return stats, nil
}

// embedChunks fills the embedding matrix batch by batch on the worker
// pool. Batches write disjoint row ranges, so only error and counter state
// needs the mutex.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, int, error) {
	embeddings := make([][]float32, len(chunks))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		cacheHits int
	)

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		rows := embeddings[start:end]

		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			hits, err := p.embedBatch(ctx, batch, rows)
			if err != nil {
				setErr(err)
				return
			}
			mu.Lock()
			cacheHits += hits
			mu.Unlock()
		}); err != nil {
			wg.Done()
			setErr(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, 0, firstErr
	}

	for i, v := range embeddings {
		if len(v) == 0 {
			return nil, 0, fmt.Errorf("%w: no vector for chunk %d", ErrEmbeddingCount, i)
		}
	}
	return embeddings, cacheHits, nil
}

// embedBatch resolves one batch of chunks into rows, consulting the cache
// first and embedding only the misses.
func (p *Pipeline) embedBatch(ctx context.Context, batch []core.Chunk, rows [][]float32) (int, error) {
	missTexts := make([]string, 0, len(batch))
	missRows := make([]int, 0, len(batch))
	hits := 0

	for i, chunk := range batch {
		if p.cache != nil {
			vector, found, err := p.cache.Get(ctx, p.cacheKey(chunk.Text))
			if err != nil {
				return 0, err
			}
			if found {
				rows[i] = vector
				hits++
				continue
			}
		}
		missTexts = append(missTexts, chunk.Text)
		missRows = append(missRows, i)
	}

	if len(missTexts) == 0 {
		return hits, nil
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedPassages(ctx, missTexts)
		return embedErr
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(missTexts) {
		return 0, fmt.Errorf("%w: sent %d passages, got %d vectors",
			ErrEmbeddingCount, len(missTexts), len(vectors))
	}

	for i, row := range missRows {
		rows[row] = vectors[i]
		if p.cache != nil {
			if err := p.cache.Put(ctx, p.cacheKey(missTexts[i]), vectors[i]); err != nil {
				p.logger.Warn("failed to cache embedding", "err", err)
			}
		}
	}
	return hits, nil
}

func (p *Pipeline) cacheKey(text string) core.ID {
	return core.IDFromContent(p.cacheSpace + "\x00" + text)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
