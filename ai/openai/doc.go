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


// Package openai provides production implementations of the ai capability
// interfaces over OpenAI-compatible APIs (Ollama, LocalAI, vLLM, OpenAI).
//
// The embedder wraps langchaingo embeddings with E5-style query/passage
// prefixes and L2 normalization. The generator and reranker drive chat
// models; the reranker requests JSON-mode relevance scores and repairs the
// common formatting mistakes local models make.
package openai
