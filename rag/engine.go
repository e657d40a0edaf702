// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/index"
	"github.com/poiesic/answerit/storage"
)

const (
	// DefaultTopK is the number of vector-search candidates retrieved.
	DefaultTopK = 5

	// DefaultTopN is the number of candidates handed to the generator.
	DefaultTopN = 3
)

// Fallback answers. The pipeline substitutes these instead of surfacing
// errors to the caller.
const (
	emptyQuestionAnswer = "Please enter a question."

	noContextAnswer = "No relevant context was found. " +
		"Try rephrasing the question or using more general terms."

	generationFailedAnswer = "Sorry, an answer could not be generated for this question. " +
		"The retrieved contexts are still included below."
)

// QueryOptions controls a single query.
type QueryOptions struct {
	// TopK is how many candidates vector search retrieves.
	TopK int

	// TopN is how many candidates survive selection.
	TopN int

	// UseRerank requests reranking of the retrieved candidates. Silently
	// ignored when the reranker is unavailable.
	UseRerank bool
}

// Engine runs the query pipeline: embed, vector search, candidate
// assembly, optional rerank, generate, assemble. It holds only read-only
// state, so concurrent AnswerQuestion calls need no coordination as long
// as the provider's capabilities are themselves safe for concurrent use.
type Engine struct {
	chunks     storage.ChunkStore
	index      *index.FlatIndex
	provider   ai.Provider
	defaults   QueryOptions
	capTimeout time.Duration
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithDefaults overrides the per-query defaults applied when a
// QueryOptions field is left zero.
func WithDefaults(defaults QueryOptions) Option {
	return func(e *Engine) error {
		if defaults.TopK > 0 {
			e.defaults.TopK = defaults.TopK
		}
		if defaults.TopN > 0 {
			e.defaults.TopN = defaults.TopN
		}
		e.defaults.UseRerank = defaults.UseRerank
		return nil
	}
}

// WithCapabilityTimeout bounds each embedding, rerank, and generation
// call. Expiry follows the same degradation path as that capability
// failing. Zero disables the deadline.
func WithCapabilityTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		e.capTimeout = timeout
		return nil
	}
}

// NewEngine creates a query engine over loaded artifacts.
func NewEngine(chunks storage.ChunkStore, idx *index.FlatIndex, provider ai.Provider, opts ...Option) (*Engine, error) {
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	e := &Engine{
		chunks:   chunks,
		index:    idx,
		provider: provider,
		defaults: QueryOptions{TopK: DefaultTopK, TopN: DefaultTopN},
		logger:   slog.Default().With("component", "rag-engine"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// AnswerQuestion runs the full query pipeline. It never returns an error:
// every failure degrades to a well-formed result, with Stats.Error set
// only when the whole pipeline had to be abandoned.
func (e *Engine) AnswerQuestion(ctx context.Context, question string, opts QueryOptions) *core.QueryResult {
	return e.AnswerQuestionWithMonitor(ctx, question, opts, nil)
}

// AnswerQuestionWithMonitor is AnswerQuestion with per-stage callbacks.
// A nil monitor is allowed.
func (e *Engine) AnswerQuestionWithMonitor(ctx context.Context, question string, opts QueryOptions, monitor QueryMonitor) (result *core.QueryResult) {
	if monitor == nil {
		monitor = noopMonitor{}
	}
	opts = e.normalize(opts)

	// Outer safety net: a panic anywhere below becomes an error-tagged
	// result instead of propagating to the caller.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("query pipeline panic", "panic", r)
			result = e.errorResult(question, fmt.Sprintf("%v", r))
		}
		monitor.Finish(result)
	}()

	monitor.Start(question, opts)

	if strings.TrimSpace(question) == "" {
		return &core.QueryResult{
			Question: question,
			Answer:   emptyQuestionAnswer,
			Contexts: []core.Candidate{},
		}
	}

	vector, err := e.embedQuery(ctx, question)
	if err != nil {
		e.logger.Error("query embedding failed", "err", err)
		return e.errorResult(question, err.Error())
	}
	monitor.AfterEmbedding(len(vector))

	matches, err := e.index.Search(vector, opts.TopK)
	if err != nil {
		e.logger.Error("vector search failed", "err", err)
		return e.errorResult(question, err.Error())
	}
	monitor.AfterVectorSearch(matches)

	candidates := e.assembleCandidates(matches)
	monitor.AfterCandidateAssembly(candidates)

	final, rerankUsed := e.selectCandidates(ctx, question, candidates, opts)
	monitor.AfterRerank(final, rerankUsed)

	var answer string
	generated := false
	if len(final) == 0 {
		answer = noContextAnswer
	} else {
		answer, err = e.generate(ctx, question, final)
		if err != nil {
			e.logger.Error("answer generation failed", "err", err)
			answer = generationFailedAnswer
		} else {
			generated = true
		}
	}
	monitor.AfterGeneration(answer, generated)

	return &core.QueryResult{
		Question: question,
		Answer:   answer,
		Contexts: final,
		Stats: core.SearchStats{
			TotalCandidates: len(candidates),
			FinalCandidates: len(final),
			RerankUsed:      rerankUsed,
		},
	}
}

func (e *Engine) normalize(opts QueryOptions) QueryOptions {
	if opts.TopK <= 0 {
		opts.TopK = e.defaults.TopK
	}
	if opts.TopN <= 0 {
		opts.TopN = e.defaults.TopN
	}
	return opts
}

// assembleCandidates maps matches to chunk metadata in vector order. Rank
// keeps the match position even when an out-of-range id is skipped, so
// ranks stay comparable across results.
func (e *Engine) assembleCandidates(matches []index.Match) []core.Candidate {
	candidates := make([]core.Candidate, 0, len(matches))
	for i, match := range matches {
		chunk, ok := e.chunks.Get(match.Id)
		if !ok {
			e.logger.Warn("match id outside chunk store, skipping",
				"id", match.Id, "chunks", e.chunks.Len())
			continue
		}
		candidates = append(candidates, core.Candidate{
			Chunk:       *chunk,
			VectorScore: match.Score,
			Rank:        i,
		})
	}
	return candidates
}

// selectCandidates picks the final context set. Without reranking (or on
// reranker failure) this is the first topN candidates in vector order,
// field-for-field. The reranker sees every retrieved candidate, not just
// the first topN.
func (e *Engine) selectCandidates(ctx context.Context, question string, candidates []core.Candidate, opts QueryOptions) ([]core.Candidate, bool) {
	final := candidates
	if len(final) > opts.TopN {
		final = final[:opts.TopN]
	}

	rerankUsed := opts.UseRerank && e.provider.Reranker().Available()
	if !rerankUsed {
		return final, false
	}

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Text
	}

	ranked, err := e.rerank(ctx, question, passages, opts.TopN)
	if err != nil {
		e.logger.Warn("rerank failed, degrading to vector order", "err", err)
		return final, rerankUsed
	}

	reranked := make([]core.Candidate, 0, len(ranked))
	for rank, rp := range ranked {
		if rp.Index < 0 || rp.Index >= len(candidates) {
			e.logger.Warn("reranker returned out-of-range index, skipping", "index", rp.Index)
			continue
		}
		candidate := candidates[rp.Index]
		candidate.RerankScore = rp.Score
		candidate.FinalRank = rank
		candidate.Reranked = true
		reranked = append(reranked, candidate)
	}
	return reranked, rerankUsed
}

func (e *Engine) embedQuery(ctx context.Context, question string) ([]float32, error) {
	ctx, cancel := e.capabilityContext(ctx)
	defer cancel()
	return e.provider.Embedder().EmbedQuery(ctx, question)
}

func (e *Engine) rerank(ctx context.Context, question string, passages []string, topN int) ([]ai.RankedPassage, error) {
	ctx, cancel := e.capabilityContext(ctx)
	defer cancel()
	return e.provider.Reranker().Rerank(ctx, question, passages, topN)
}

func (e *Engine) generate(ctx context.Context, question string, contexts []core.Candidate) (string, error) {
	ctx, cancel := e.capabilityContext(ctx)
	defer cancel()
	return e.provider.Generator().Generate(ctx, question, contexts)
}

func (e *Engine) capabilityContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.capTimeout > 0 {
		return context.WithTimeout(ctx, e.capTimeout)
	}
	return ctx, func() {}
}

func (e *Engine) errorResult(question, message string) *core.QueryResult {
	return &core.QueryResult{
		Question: question,
		Answer:   "An error occurred while answering the question: " + message,
		Contexts: []core.Candidate{},
		Stats:    core.SearchStats{Error: message},
	}
}
