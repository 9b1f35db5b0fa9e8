package retrieval

import "fmt"

const answerPromptTemplate = `You are a news assistant. Answer the user's question using only the context below.
Cite the source URL of any article you draw on. If the context does not contain
the answer, say so plainly instead of guessing.

Context:
%s

Question: %s`

// answerPrompt builds the generation prompt from grounding context and
// the user's question.
func answerPrompt(grounding, query string) string {
	return fmt.Sprintf(answerPromptTemplate, grounding, query)
}
