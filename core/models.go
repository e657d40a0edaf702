package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for derived artifacts such as cached embeddings.
// It is generated using content-based hashing so identical content always
// maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Article represents one source document. Articles are immutable once loaded.
type Article struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Chunk is a bounded span of an article's text plus identifying metadata.
// It is the unit of retrieval. Chunks are created once at build time and are
// never mutated after persistence.
//
// StartChar and EndChar are rune offsets into the article text; ChunkId is a
// zero-based sequence unique per article, assigned in creation order.
type Chunk struct {
	Id           string `json:"id"`
	Source       string `json:"source"`
	ChunkId      int    `json:"chunk_id"`
	Text         string `json:"text"`
	ArticleTitle string `json:"article_title"`
	StartChar    int    `json:"start_char"`
	EndChar      int    `json:"end_char"`
}

// Candidate is a retrieved chunk annotated with ranking information.
// Candidates are created per query and discarded after the query completes.
type Candidate struct {
	Chunk
	VectorScore float32 // similarity score from the vector search
	Rank        int     // 0-based position in vector-search order
	RerankScore float32 // cross-scoring result; meaningful only when Reranked
	FinalRank   int     // 0-based position after reranking; meaningful only when Reranked
	Reranked    bool
}

// SearchStats carries per-query diagnostics.
type SearchStats struct {
	TotalCandidates int
	FinalCandidates int
	RerankUsed      bool
	Error           string // non-empty only when the query failed outright
}

// QueryResult is the outcome of one answered question. It is owned
// exclusively by the caller; no state is shared across queries.
type QueryResult struct {
	Question string
	Answer   string
	Contexts []Candidate
	Stats    SearchStats
}
