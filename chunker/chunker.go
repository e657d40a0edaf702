// Package chunker splits article text into overlapping, metadata-tagged
// chunks using a sliding window with boundary snapping. Window targets are
// pulled back to the nearest preferred delimiter so chunks avoid splitting
// mid-sentence.
package chunker

import (
	"fmt"
	"strings"

	"github.com/poiesic/answerit/core"
)

// Default chunking parameters, tuned for encyclopedia-style articles.
const (
	DefaultChunkSize    = 450
	DefaultOverlap      = 60
	DefaultMinChunkSize = 100

	// splitSearchWindow is the width (in runes) of the backward window
	// searched for a delimiter before a chunk target position.
	splitSearchWindow = 100
)

// preferredDelims lists split candidates in priority order: sentence-final
// punctuation first, then clause punctuation, then newline, then space.
// CJK forms are included alongside their ASCII equivalents since the corpus
// may mix scripts. The right-most occurrence of the highest-priority
// delimiter found in the search window wins.
var preferredDelims = []string{"。", "．", ".", "！", "？", "!", "?", "、", "，", ",", "\n", " "}

// Chunker segments text into overlapping chunks. All offsets and sizes are
// measured in runes so multi-byte scripts chunk the same as ASCII.
// A Chunker is stateless across calls and safe for concurrent use.
type Chunker struct {
	chunkSize    int
	overlap      int
	minChunkSize int
}

// New creates a Chunker.
//
// chunkSize is the target chunk length, overlap the number of runes shared
// between consecutive chunks, and minChunkSize the threshold below which a
// trimmed chunk is discarded. An overlap >= chunkSize is accepted; the
// non-advance guard in Chunk falls back to zero effective overlap for such
// configurations instead of looping forever.
func New(chunkSize, overlap, minChunkSize int) (*Chunker, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidChunkSize, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d", ErrInvalidOverlap, overlap)
	}
	if minChunkSize < 0 {
		return nil, fmt.Errorf("%w: min chunk size %d", ErrInvalidMinChunkSize, minChunkSize)
	}

	return &Chunker{
		chunkSize:    chunkSize,
		overlap:      overlap,
		minChunkSize: minChunkSize,
	}, nil
}

// Chunk splits text into chunks tagged with the article's identity.
// An empty text yields an empty sequence.
//
// Emitted chunk text is whitespace-trimmed; StartChar/EndChar keep the
// original untrimmed span. Chunks whose trimmed length falls below
// minChunkSize are discarded without advancing the sequence counter.
func (c *Chunker) Chunk(text, articleID, title string) []core.Chunk {
	chunks := []core.Chunk{}
	if text == "" {
		return chunks
	}

	runes := []rune(text)
	length := len(runes)
	start := 0
	chunkIdx := 0

	for start < length {
		target := start + c.chunkSize
		var end int
		if target >= length {
			end = length
		} else {
			split := findSplitPoint(runes, target)
			if split > start {
				end = split
			} else {
				end = target
			}
		}

		body := strings.TrimSpace(string(runes[start:end]))
		if body != "" && len([]rune(body)) >= c.minChunkSize {
			chunks = append(chunks, core.Chunk{
				Id:           fmt.Sprintf("chunk_%s_%d", articleID, chunkIdx),
				Source:       "wiki:" + title,
				ChunkId:      chunkIdx,
				Text:         body,
				ArticleTitle: title,
				StartChar:    start,
				EndChar:      end,
			})
			chunkIdx++
		}

		// Overlap the next window with the tail of this one. If that would
		// not advance (overlap >= chunk size), restart at end instead;
		// without this guard the loop never terminates.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// findSplitPoint searches the window of splitSearchWindow runes ending at
// target for the right-most occurrence of the highest-priority delimiter.
// Returns the position just past the delimiter, or target if the window
// contains no delimiter at all (hard cut).
func findSplitPoint(runes []rune, target int) int {
	searchStart := target - splitSearchWindow
	if searchStart < 0 {
		searchStart = 0
	}
	segment := string(runes[searchStart:target])

	for _, delim := range preferredDelims {
		idx := strings.LastIndex(segment, delim)
		if idx != -1 {
			// Byte index back to rune index within the segment.
			offset := len([]rune(segment[:idx]))
			return searchStart + offset + len([]rune(delim))
		}
	}
	return target
}
