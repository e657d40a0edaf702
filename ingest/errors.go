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

package ingest

import "errors"

var (
	// ErrChunkerRequired indicates that a chunker was not provided.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrEmbedderRequired indicates that an embedder was not provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxAttempts indicates maxAttempts <= 0 was provided.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNoChunks indicates that chunking produced nothing to index.
	ErrNoChunks = errors.New("no chunks produced from articles")

	// ErrEmbeddingCount indicates the embedder returned a different number
	// of vectors than passages sent.
	ErrEmbeddingCount = errors.New("embedding count mismatch")
)
