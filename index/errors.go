package index

import "errors"

var (
	// ErrInvalidDimension is returned for a dimension below one.
	ErrInvalidDimension = errors.New("dimension must be at least 1")

	// ErrDimensionMismatch indicates a vector whose length differs from
	// the index's fixed dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptArtifact indicates a persisted index or embedding file
	// that could not be decoded.
	ErrCorruptArtifact = errors.New("corrupt artifact")
)
