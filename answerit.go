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

// Package answerit wires the loaded artifacts and the AI provider into a
// ready-to-query system.
package answerit

import (
	"log/slog"
	"path/filepath"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/index"
	"github.com/poiesic/answerit/rag"
	"github.com/poiesic/answerit/storage"
)

// System holds the loaded artifacts and capability handles for answering
// questions against a built corpus.
type System struct {
	chunks   *storage.MetadataStore
	index    *index.FlatIndex
	provider ai.Provider
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the configuration used to build the OpenAI-compatible
// provider. Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects an already-constructed provider. The System takes
// ownership and closes it.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// Open loads the artifacts from artifactsDir and builds the AI provider.
// Missing or corrupt artifacts are fatal. A cardinality mismatch between
// metadata and index is only a warning; out-of-range neighbor ids are
// skipped at query time.
func Open(artifactsDir string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := slog.Default().With("component", "answerit")

	chunks, err := storage.LoadMetadata(filepath.Join(artifactsDir, storage.MetadataFilename))
	if err != nil {
		return nil, err
	}

	ix, err := index.Load(filepath.Join(artifactsDir, index.IndexFilename))
	if err != nil {
		return nil, err
	}

	if chunks.Len() != ix.Len() {
		logger.Warn("metadata and index cardinality differ",
			"chunks", chunks.Len(), "vectors", ix.Len())
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("system ready",
		"artifacts", artifactsDir, "chunks", chunks.Len(), "dim", ix.Dim())
	return &System{
		chunks:   chunks,
		index:    ix,
		provider: provider,
		logger:   logger,
	}, nil
}

// NewEngine constructs a query engine over the loaded artifacts.
func (s *System) NewEngine(opts ...rag.Option) (*rag.Engine, error) {
	return rag.NewEngine(s.chunks, s.index, s.provider, opts...)
}

// Chunks returns the loaded chunk metadata store.
func (s *System) Chunks() storage.ChunkStore {
	return s.chunks
}

// Index returns the loaded vector index.
func (s *System) Index() *index.FlatIndex {
	return s.index
}

// Close releases the provider's capability handles.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}
