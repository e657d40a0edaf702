package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/answerit/core"
)

const answerSystemPrompt = `You are a question answering assistant.
Answer the question using only the information in the provided context passages.
If the context does not contain the answer, say so plainly instead of guessing.
Answer in the same language as the question. Be concise.`

const rerankResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "scores": {
      "type": "array",
      "items": {
        "type": "number",
        "minimum": 0,
        "maximum": 100
      }
    }
  },
  "required": ["scores"],
  "additionalProperties": false
}`

const rerankPromptTemplate = `Rate how relevant each numbered passage is to the question and return the ratings as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "scores" must contain exactly %d numbers, one per passage, in passage order.
- Score each passage from 0 (irrelevant) to 100 (directly answers the question).
- Judge each passage on its own; do not let neighboring passages influence its score.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildRerankPrompt builds the system prompt for scoring passageCount passages.
func buildRerankPrompt(passageCount int) string {
	return fmt.Sprintf(rerankPromptTemplate, rerankResponseSchema, passageCount)
}

// formatRerankInput renders the question and numbered passages for scoring.
func formatRerankInput(query string, passages []string) string {
	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(query)
	b.WriteString("\n\nPassages:\n")
	for i, passage := range passages {
		fmt.Fprintf(&b, "[%d] %s\n\n", i, passage)
	}
	return b.String()
}

// buildAnswerPrompt renders the generation prompt from the question and its
// ranked contexts, most relevant first.
func buildAnswerPrompt(question string, contexts []core.Candidate) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, ctx := range contexts {
		fmt.Fprintf(&b, "[%d] %s\n\n", i, ctx.Text)
	}
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// addSourceReferences appends a deduplicated source list to the answer so
// every response can be traced back to the chunks it was generated from.
func addSourceReferences(answer string, contexts []core.Candidate) string {
	if len(contexts) == 0 {
		return answer
	}

	seen := make(map[string]bool, len(contexts))
	sources := make([]string, 0, len(contexts))
	for _, ctx := range contexts {
		ref := fmt.Sprintf("wiki:%s#chunk=%d", ctx.ArticleTitle, ctx.ChunkId)
		if !seen[ref] {
			seen[ref] = true
			sources = append(sources, ref)
		}
	}

	return answer + "\n\nSources:\n" + strings.Join(sources, "\n")
}
