package rag

import (
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/index"
)

// QueryMonitor observes the stages of a single query as they complete.
// Implementations back verbose CLI output and diagnostics; every method is
// called at most once per query, in pipeline order, ending with Finish.
type QueryMonitor interface {
	// Start is called before any work with the raw question and the
	// normalized options.
	Start(question string, opts QueryOptions)

	// AfterEmbedding is called once the query vector exists.
	AfterEmbedding(dim int)

	// AfterVectorSearch receives the raw index matches.
	AfterVectorSearch(matches []index.Match)

	// AfterCandidateAssembly receives the candidates in vector order.
	AfterCandidateAssembly(candidates []core.Candidate)

	// AfterRerank receives the final selection. reranked is false when the
	// selection is plain vector-order truncation.
	AfterRerank(final []core.Candidate, reranked bool)

	// AfterGeneration receives the answer text. generated is false when
	// the answer is a fallback rather than generator output.
	AfterGeneration(answer string, generated bool)

	// Finish receives the assembled result, including degraded ones.
	Finish(result *core.QueryResult)
}

type noopMonitor struct{}

var _ QueryMonitor = noopMonitor{}

func (noopMonitor) Start(string, QueryOptions)              {}
func (noopMonitor) AfterEmbedding(int)                      {}
func (noopMonitor) AfterVectorSearch([]index.Match)         {}
func (noopMonitor) AfterCandidateAssembly([]core.Candidate) {}
func (noopMonitor) AfterRerank([]core.Candidate, bool)      {}
func (noopMonitor) AfterGeneration(string, bool)            {}
func (noopMonitor) Finish(*core.QueryResult)                {}
