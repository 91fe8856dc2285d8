package matcher

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/pkg/anthropic"
)

// FindRelated asks for n catalog questions related to query, using a looser
// criterion than Match. Provider and parse failures yield an empty list; the
// error is non-nil only when the question catalog cannot be loaded.
func (m *Matcher) FindRelated(ctx context.Context, query string, n int) ([]string, error) {
	out := []string{}
	if n < 1 {
		return out, nil
	}

	questions, err := m.catalog.Questions(ctx)
	if err != nil {
		return out, eris.Wrap(err, "matcher: load questions")
	}
	if len(questions) == 0 {
		return out, nil
	}

	indices, merr := m.askIndices(ctx, "related", relatedSystem,
		relatedPrompt(query, questionTexts(questions), n), relatedMaxTokens)
	if merr != nil {
		logFailure(query, merr)
		return out, nil
	}

	if len(indices) > n {
		indices = indices[:n]
	}
	for _, idx := range indices {
		if idx < 1 || idx > len(questions) {
			continue
		}
		if q := questions[idx-1].Question; q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

// SuggestFollowup proposes one follow-up question given the questions already
// matched for query. It reports false when matched is empty or the provider
// gives nothing usable.
func (m *Matcher) SuggestFollowup(ctx context.Context, query string, matched []string) (string, bool) {
	if len(matched) == 0 {
		return "", false
	}
	if len(matched) > maxFollowupInputs {
		matched = matched[:maxFollowupInputs]
	}

	text, err := anthropic.Complete(ctx, m.llm, anthropic.CompletionRequest{
		Model:       m.model,
		System:      followupSystem,
		User:        followupPrompt(query, matched),
		Temperature: followupTemp,
		MaxTokens:   followupMaxTokens,
		Phase:       "followup",
	})
	if err != nil {
		zap.L().Warn("matcher: follow-up suggestion failed", zap.String("query", query), zap.Error(err))
		return "", false
	}

	text = strings.Trim(strings.TrimSpace(text), `"'`)
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}
