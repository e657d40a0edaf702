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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/chunker"
	"github.com/poiesic/answerit/dataset"
	"github.com/poiesic/answerit/ingest"
	"github.com/poiesic/answerit/rag"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "answerit",
		Usage: "Wikipedia question answering over a local vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the chunk, embedding, and index artifacts from a dataset",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Usage:    "Path to the article dataset (JSONL)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-articles",
						Usage: "Maximum number of articles to load (0 = no limit)",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Target chunk size in characters",
						Value: chunker.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Overlap between consecutive chunks in characters",
						Value: chunker.DefaultOverlap,
					},
					&cli.IntFlag{
						Name:  "min-chunk-size",
						Usage: "Minimum chunk size to keep, in characters",
						Value: chunker.DefaultMinChunkSize,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of passages per embedding call",
						Value: ingest.DefaultBatchSize,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Artifacts output directory",
						Value:   "artifacts",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "cache-dir",
						Usage: "Embedding cache directory (empty disables caching)",
					},
				},
			},
			{
				Name:   "ask",
				Usage:  "Answer a question against built artifacts",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "Question text",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of vector-search candidates",
						Value: rag.DefaultTopK,
					},
					&cli.IntFlag{
						Name:  "top-n",
						Usage: "Number of candidates used for generation",
						Value: rag.DefaultTopN,
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Rerank retrieved candidates before generation",
					},
					&cli.StringFlag{
						Name:    "artifacts",
						Aliases: []string{"a"},
						Usage:   "Artifacts directory",
						Value:   "artifacts",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "AI service host URL for all capabilities",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Generator model name",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "rerank-model",
						Usage: "Reranker model name (empty disables reranking)",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print retrieved contexts and search statistics",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	articles, err := dataset.LoadArticles(c.String("dataset"), c.Int("max-articles"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load dataset: %v", err), 1)
	}

	ck, err := chunker.New(c.Int("chunk-size"), c.Int("overlap"), c.Int("min-chunk-size"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid chunker configuration: %v", err), 1)
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("invalid AI configuration: %v", err), 1)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create embedder: %v", err), 1)
	}

	opts := []ingest.Option{
		ingest.WithBatchSize(c.Int("batch-size")),
	}

	if cacheDir := c.String("cache-dir"); cacheDir != "" {
		cache, err := badger.OpenCache(cacheDir, false)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to open embedding cache: %v", err), 1)
		}
		defer cache.Close()
		opts = append(opts, ingest.WithCache(cache, c.String("embedding-model")))
	}

	pipeline, err := ingest.NewPipeline(ck, embedder, opts...)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create pipeline: %v", err), 1)
	}
	defer pipeline.Release()

	stats, err := pipeline.Run(ctx, articles, c.String("output"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("build failed: %v", err), 1)
	}

	fmt.Printf("Built %d chunks from %d articles (dim %d, %d cache hits) in %s\n",
		stats.Chunks, stats.Articles, stats.Dim, stats.CacheHits, c.String("output"))
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
		ai.WithRerankModel(c.String("rerank-model")),
	)

	system, err := answerit.Open(c.String("artifacts"), answerit.WithAIConfig(aiConfig))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to initialize: %v", err), 1)
	}
	defer system.Close()

	engine, err := system.NewEngine()
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create engine: %v", err), 1)
	}

	result := engine.AnswerQuestion(ctx, c.String("question"), rag.QueryOptions{
		TopK:      c.Int("top-k"),
		TopN:      c.Int("top-n"),
		UseRerank: c.Bool("rerank"),
	})

	divider := strings.Repeat("=", 50)
	fmt.Println(divider)
	fmt.Printf("Question: %s\n", result.Question)
	fmt.Println(divider)
	fmt.Printf("Answer:\n%s\n", result.Answer)
	fmt.Println(divider)

	if c.Bool("verbose") && len(result.Contexts) > 0 {
		fmt.Println("Contexts:")
		for i, candidate := range result.Contexts {
			fmt.Printf("[%d] %s (score: %.3f)\n", i, candidate.ArticleTitle, candidate.VectorScore)
			fmt.Printf("    %s\n", truncate(candidate.Text, 100))
		}
		fmt.Println(divider)
	}

	fmt.Printf("Search stats: candidates=%d final=%d rerank=%t",
		result.Stats.TotalCandidates, result.Stats.FinalCandidates, result.Stats.RerankUsed)
	if result.Stats.Error != "" {
		fmt.Printf(" error=%q", result.Stats.Error)
	}
	fmt.Println()

	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
