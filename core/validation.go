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


package core

import "fmt"

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Text must not be empty
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyTitle)
	}

	if article.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyText)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Text must not be empty
//   - ChunkId must not be negative
//   - 0 <= StartChar < EndChar
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkId)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.ChunkId < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkSeq)
	}

	if chunk.StartChar < 0 || chunk.StartChar >= chunk.EndChar {
		return fmt.Errorf("%w: %w: [%d,%d)", ErrInvalidChunk, ErrInvalidSpan, chunk.StartChar, chunk.EndChar)
	}

	return nil
}
