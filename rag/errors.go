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

import "errors"

var (
	// ErrChunkStoreRequired indicates that a chunk store was not provided.
	ErrChunkStoreRequired = errors.New("chunk store is required")

	// ErrIndexRequired indicates that a vector index was not provided.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrProviderRequired indicates that an AI provider was not provided.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrScoreLengthMismatch indicates score slices of unequal length.
	ErrScoreLengthMismatch = errors.New("score slices must have equal length")
)
