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


// Package ai provides abstractions for the AI capabilities used in Answerit.
//
// The retrieval pipeline is polymorphic over three capability interfaces:
//
//   - Embedder: text to fixed-length vector, for passages and queries
//   - Reranker: query/passage cross-scoring, optional and possibly unavailable
//   - Generator: answer text from a question and ranked contexts
//
// Provider aggregates the three for convenient initialization.
//
// # Implementation Packages
//
//   - ai/openai: production implementations over OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles for unit testing without inference
//
// Production constructors (openai.NewProvider and friends) return interface
// types to enforce abstraction; mock constructors return concrete types so
// tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434/v1"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedQuery(ctx, "what is an ampersand?")
package ai
