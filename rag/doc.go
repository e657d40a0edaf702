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

// Package rag orchestrates the query pipeline over loaded artifacts.
//
// The Engine's contract is that AnswerQuestion always returns a
// well-formed result. Capability failures degrade in place: an
// unavailable or failing reranker falls back to vector order, a failing
// generator falls back to a fixed answer with contexts preserved, and
// anything unexpected is caught at the outer boundary and surfaced
// through the result's Stats.Error field.
package rag
