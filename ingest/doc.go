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

// Package ingest builds query-time artifacts from an article corpus.
//
// A build run chunks every article, embeds the chunks in concurrent
// batches, and writes three files to the output directory: chunks.jsonl
// (metadata), embeddings.mus (the raw matrix), and index.flat (the
// searchable index). Positions align across all three.
package ingest
