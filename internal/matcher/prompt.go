package matcher

import (
	"fmt"
	"strings"
)

const (
	candidateSystem = "You match user questions to recorded Q&A video segments. Always answer with a valid JSON array."
	filterSystem    = "You are a strict relevance filter. Return at most the requested number of relevant matches. Always answer with a valid JSON array."
	relatedSystem   = "You find related questions in a catalog of recorded Q&A segments. Always answer with a valid JSON array."
	followupSystem  = "You suggest follow-up questions. Answer with the question text only."
)

func numbered(texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	return b.String()
}

func candidatePrompt(query string, catalog []string, limit int) string {
	return fmt.Sprintf(`User's question: %q

Questions answered in recorded Q&A videos (%d total):

%s
Find up to %d question numbers that could potentially answer the user's question.
Order them by potential relevance, most relevant first.
Return ONLY a JSON array of 1-based question numbers, for example [5, 23, 101].
Return [] if nothing could match.`, query, len(catalog), numbered(catalog), limit)
}

func filterPrompt(query string, candidates []string, topN int) string {
	return fmt.Sprintf(`User's question: %q

Candidate matches:
%s
Return the candidate numbers that genuinely answer or closely address the user's question.
Return at most %d numbers, most relevant first.
Return ONLY a JSON array of 1-based candidate numbers, for example [1, 3].
Return [] if none of the candidates is relevant.`, query, numbered(candidates), topN)
}

func relatedPrompt(query string, catalog []string, n int) string {
	return fmt.Sprintf(`A user asked a question we have no direct answer for: %q

Questions answered in recorded Q&A videos (%d total):

%s
Find %d question numbers whose topics are most related or similar to the user's question, even if they do not answer it directly.
Return ONLY a JSON array of 1-based question numbers ordered by relevance, for example [42, 156, 203].`, query, len(catalog), numbered(catalog), n)
}

func followupPrompt(query string, matched []string) string {
	var b strings.Builder
	for _, m := range matched {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	return fmt.Sprintf(`User's question: %q

Answers they found:
%s
Suggest ONE different question that would be a natural follow-up or explore a related aspect.
Return ONLY the question text.`, query, b.String())
}
