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


package index

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Artifact filenames within an artifacts directory.
const (
	IndexFilename      = "index.flat"
	EmbeddingsFilename = "embeddings.mus"
)

// Both artifacts share one on-disk layout: dimension, row count, then the
// float32 payload row-major. The dimension lives in the blob itself, so a
// loaded index recovers it without external metadata.

// Save persists the index to path.
func (ix *FlatIndex) Save(path string) error {
	if err := writeMatrix(path, ix.dim, ix.vectors); err != nil {
		return err
	}
	ix.logger.Info("index saved", "path", path, "count", len(ix.vectors), "dim", ix.dim)
	return nil
}

// Load reads an index persisted with Save. The dimension is recovered from
// the blob.
func Load(path string) (*FlatIndex, error) {
	dim, vectors, err := readMatrix(path)
	if err != nil {
		return nil, err
	}

	ix, err := New(dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}
	ix.vectors = vectors
	return ix, nil
}

// SaveEmbeddings persists the raw embedding matrix, row i corresponding to
// chunk metadata line i.
func SaveEmbeddings(path string, embeddings [][]float32) error {
	if len(embeddings) == 0 {
		return fmt.Errorf("%w: empty embedding matrix", ErrInvalidDimension)
	}
	dim := len(embeddings[0])
	for i, row := range embeddings {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has dimension %d, row 0 has %d",
				ErrDimensionMismatch, i, len(row), dim)
		}
	}
	return writeMatrix(path, dim, embeddings)
}

// LoadEmbeddings reads a matrix persisted with SaveEmbeddings.
func LoadEmbeddings(path string) ([][]float32, error) {
	_, embeddings, err := readMatrix(path)
	return embeddings, err
}

func writeMatrix(path string, dim int, rows [][]float32) error {
	size := varint.PositiveInt.Size(dim) + varint.PositiveInt.Size(len(rows))
	size += len(rows) * dim * raw.Float32.Size(0)

	bs := make([]byte, size)
	n := varint.PositiveInt.Marshal(dim, bs)
	n += varint.PositiveInt.Marshal(len(rows), bs[n:])
	for _, row := range rows {
		for _, v := range row {
			n += raw.Float32.Marshal(v, bs[n:])
		}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, bs[:n], 0644)
}

func readMatrix(path string) (int, [][]float32, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}

	dim, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: %w", ErrCorruptArtifact, path, err)
	}
	count, m, err := varint.PositiveInt.Unmarshal(bs[n:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: %w", ErrCorruptArtifact, path, err)
	}
	n += m

	if dim < 1 || count < 0 {
		return 0, nil, fmt.Errorf("%w: %s: dim=%d count=%d", ErrCorruptArtifact, path, dim, count)
	}

	rows := make([][]float32, count)
	for i := range rows {
		row := make([]float32, dim)
		for j := range row {
			v, m, err := raw.Float32.Unmarshal(bs[n:])
			if err != nil {
				return 0, nil, fmt.Errorf("%w: %s: %w", ErrCorruptArtifact, path, err)
			}
			row[j] = v
			n += m
		}
		rows[i] = row
	}

	return dim, rows, nil
}
