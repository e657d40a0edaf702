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

// Package storage defines persistence interfaces and the JSONL chunk
// metadata store.
//
// Chunk metadata lives in a line-delimited JSON file (chunks.jsonl) where
// line i holds the chunk whose vector occupies row i of the embedding
// matrix and id i of the flat index. The positional correspondence is the
// only join between the two artifacts, so loading validates every line and
// fails fast on the first bad record.
//
// The optional EmbeddingCache interface lets build runs skip re-embedding
// unchanged text; the badger subpackage provides the durable
// implementation.
package storage
