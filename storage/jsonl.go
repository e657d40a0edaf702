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

package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/answerit/core"
)

// MetadataFilename is the chunk metadata artifact within an artifacts
// directory.
const MetadataFilename = "chunks.jsonl"

// Scanner default is 64KiB; chunk text plus JSON overhead stays well under
// this, but long unbroken articles can exceed it.
const maxMetadataLine = 1 << 20

// MetadataStore holds chunk metadata in memory, addressed by position.
type MetadataStore struct {
	chunks []core.Chunk
}

var _ ChunkStore = (*MetadataStore)(nil)

// NewMetadataStore wraps an already-validated chunk slice.
func NewMetadataStore(chunks []core.Chunk) *MetadataStore {
	return &MetadataStore{chunks: chunks}
}

// Get returns the chunk at position i, or false if i is out of range.
func (s *MetadataStore) Get(i int) (*core.Chunk, bool) {
	if i < 0 || i >= len(s.chunks) {
		return nil, false
	}
	return &s.chunks[i], true
}

// Len returns the number of stored chunks.
func (s *MetadataStore) Len() int {
	return len(s.chunks)
}

// Chunks returns the underlying slice in positional order.
func (s *MetadataStore) Chunks() []core.Chunk {
	return s.chunks
}

// LoadMetadata reads and validates a chunks.jsonl file. Any malformed or
// invalid line is fatal: a silently skipped line would shift every later
// position out of alignment with the embedding matrix.
func LoadMetadata(path string) (*MetadataStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []core.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMetadataLine)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var chunk core.Chunk
		if err := json.Unmarshal(raw, &chunk); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrCorruptMetadata, path, line, err)
		}
		if err := core.ValidateChunk(&chunk); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrCorruptMetadata, path, line, err)
		}
		chunks = append(chunks, chunk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptMetadata, path, err)
	}

	slog.Default().With("component", "metadata-store").
		Info("loaded chunk metadata", "path", path, "chunks", len(chunks))
	return NewMetadataStore(chunks), nil
}

// SaveMetadata writes chunks to path as line-delimited JSON, one chunk per
// line in positional order. Creates the parent directory if needed.
func SaveMetadata(path string, chunks []core.Chunk) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range chunks {
		if err := enc.Encode(&chunks[i]); err != nil {
			f.Close()
			return fmt.Errorf("%w: chunk %d: %w", ErrSerializationFailed, i, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
