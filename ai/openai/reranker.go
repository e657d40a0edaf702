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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/answerit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Reranker implements ai.Reranker by cross-scoring query/passage pairs with
// an instruction-following model in JSON mode.
//
// Availability is decided at construction: no configured rerank model, or a
// client that fails to initialize, yields a permanently unavailable reranker
// instead of a half-constructed one.
type Reranker struct {
	client    llms.Model
	available bool
	logger    *slog.Logger
}

// rerankResponse is the wrapper structure for the model's JSON response.
type rerankResponse struct {
	Scores []float32 `json:"scores"`
}

// newReranker is an internal constructor that returns the concrete type.
// It never fails; setup problems produce an unavailable reranker.
func newReranker(config *ai.Config) *Reranker {
	logger := slog.Default().With("component", "openai-reranker")

	if config.RerankModel == "" {
		logger.Info("no rerank model configured, reranking disabled")
		return &Reranker{logger: logger}
	}

	client, err := openai.New(
		openai.WithBaseURL(config.RerankHost),
		openai.WithToken("none"),
		openai.WithModel(config.RerankModel),
	)
	if err != nil {
		logger.Warn("failed to set up reranker, reranking disabled", "err", err)
		return &Reranker{logger: logger}
	}

	logger.Info("reranker ready", "model", config.RerankModel)
	return &Reranker{client: client, available: true, logger: logger}
}

// NewReranker creates a new reranker using the provided configuration.
//
// Returns ai.Reranker interface to enforce abstraction.
func NewReranker(config *ai.Config) ai.Reranker {
	return newReranker(config)
}

// Available reports whether the reranker can be called.
func (r *Reranker) Available() bool {
	return r.available
}

// Rerank scores every passage against the query and returns up to topN
// passages by descending score, ties broken by ascending input index.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []string, topN int) ([]ai.RankedPassage, error) {
	if !r.available {
		return nil, ErrRerankerUnavailable
	}
	if len(passages) == 0 || topN <= 0 {
		return []ai.RankedPassage{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildRerankPrompt(len(passages)))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(formatRerankInput(query, passages))},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result rerankResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			r.logger.Error("rerank call failed", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			r.logger.Debug("no choices returned from rerank model")
			return []ai.RankedPassage{}, nil
		}

		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = repairJSON(strings.TrimSpace(responseText))

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			r.logger.Warn("error parsing rerank response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		if len(result.Scores) != len(passages) {
			lastErr = fmt.Errorf("%w: got %d scores for %d passages",
				ErrRerankScoreCount, len(result.Scores), len(passages))
			r.logger.Warn("rerank score count mismatch", "attempt", attempt+1, "err", lastErr)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		r.logger.Error("failed to parse rerank response after retries", "err", lastErr)
		return nil, lastErr
	}

	ranked := make([]ai.RankedPassage, len(result.Scores))
	for i, score := range result.Scores {
		ranked[i] = ai.RankedPassage{Index: i, Score: score}
	}
	slices.SortStableFunc(ranked, func(a, b ai.RankedPassage) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.Index - b.Index
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}
