package openai

import "errors"

var (
	// ErrRerankerUnavailable is returned when Rerank is called on a
	// reranker that reported itself unavailable.
	ErrRerankerUnavailable = errors.New("reranker unavailable")

	// ErrRerankScoreCount indicates the model returned the wrong number of scores.
	ErrRerankScoreCount = errors.New("unexpected rerank score count")

	// ErrEmptyGeneration indicates the model produced no answer text.
	ErrEmptyGeneration = errors.New("empty generation result")
)
