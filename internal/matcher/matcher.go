// Package matcher maps free-text questions onto the question catalog with a
// two-stage LLM filter: broad candidate generation followed by a strict
// relevance pass.
package matcher

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/timestamp"
	"github.com/sells-group/expert-answers/pkg/anthropic"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "claude-haiku-4-5-20251001"
	// DefaultMaxCandidates caps the stage-one candidate count.
	DefaultMaxCandidates = 15

	candidateMaxTokens = 150
	filterMaxTokens    = 150
	relatedMaxTokens   = 50
	followupMaxTokens  = 100
	followupTemp       = 0.7
	maxFollowupInputs  = 3
)

// QuestionSource provides the question catalog.
type QuestionSource interface {
	Questions(ctx context.Context) ([]model.QuestionRecord, error)
}

// Config tunes the matcher.
type Config struct {
	Model              string
	MaxCandidates      int
	PrecannedQuestions []string
}

// Matcher runs the two-stage match. It is safe for concurrent use.
type Matcher struct {
	llm     anthropic.Client
	catalog QuestionSource
	model   string
	maxCand int
	cache   *matchCache
}

// New creates a Matcher. Zero-valued config fields take package defaults.
func New(llm anthropic.Client, catalog QuestionSource, cfg Config) *Matcher {
	m := &Matcher{
		llm:     llm,
		catalog: catalog,
		model:   cfg.Model,
		maxCand: cfg.MaxCandidates,
	}
	if m.model == "" {
		m.model = DefaultModel
	}
	if m.maxCand <= 0 {
		m.maxCand = DefaultMaxCandidates
	}
	precanned := cfg.PrecannedQuestions
	if len(precanned) == 0 {
		precanned = DefaultPrecannedQuestions
	}
	m.cache = newMatchCache(precanned)
	return m
}

// Result is the structured outcome of a match. Failure is set when a stage
// could not determine a result; a nil Failure with no Matches means the model
// found nothing relevant.
type Result struct {
	Matches       []model.MatchCandidate
	Failure       *MatchError
	CacheHit      bool
	ProviderCalls int
}

// Match returns at most topN ranked matches for query. Provider and parse
// failures are logged and yield an empty list; the error is non-nil only when
// the question catalog cannot be loaded.
func (m *Matcher) Match(ctx context.Context, query string, topN int) ([]model.MatchCandidate, error) {
	res, err := m.Run(ctx, query, topN)
	if err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// Run performs the match and reports how it ended.
func (m *Matcher) Run(ctx context.Context, query string, topN int) (Result, error) {
	res := Result{Matches: []model.MatchCandidate{}}
	if topN < 1 {
		return res, nil
	}

	precanned := m.cache.isPrecanned(query)
	if precanned {
		if cached, ok := m.cache.get(query, topN); ok {
			zap.L().Debug("matcher: precanned cache hit", zap.String("query", query), zap.Int("top_n", topN))
			res.Matches = cached
			res.CacheHit = true
			return res, nil
		}
	}

	questions, err := m.catalog.Questions(ctx)
	if err != nil {
		return res, eris.Wrap(err, "matcher: load questions")
	}
	if len(questions) == 0 {
		return res, nil
	}

	// Stage 1: broad candidate generation over the whole catalog.
	limit := min(3*topN, m.maxCand)
	res.ProviderCalls++
	indices, merr := m.askIndices(ctx, "candidates", candidateSystem,
		candidatePrompt(query, questionTexts(questions), limit), candidateMaxTokens)
	if merr != nil {
		return m.fail(res, query, merr), nil
	}
	if len(indices) > limit {
		indices = indices[:limit]
	}
	candidates := resolveUnique(indices, questions)
	if len(candidates) == 0 {
		if precanned {
			m.cache.put(query, topN, res.Matches)
		}
		return res, nil
	}

	// Stage 2: strict relevance filter over the candidates.
	res.ProviderCalls++
	indices, merr = m.askIndices(ctx, "filter", filterSystem,
		filterPrompt(query, questionTexts(candidates), topN), filterMaxTokens)
	if merr != nil {
		return m.fail(res, query, merr), nil
	}

	final := resolveUnique(dedupeInts(indices), candidates)
	if len(final) > topN {
		final = final[:topN]
	}
	res.Matches = rank(final)

	// Confirmed results are cached, empty ones included. Failures return
	// earlier and are never cached.
	if precanned {
		m.cache.put(query, topN, res.Matches)
	}
	zap.L().Debug("matcher: matched",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(res.Matches)),
	)
	return res, nil
}

func (m *Matcher) fail(res Result, query string, merr *MatchError) Result {
	logFailure(query, merr)
	res.Failure = merr
	return res
}

func logFailure(query string, merr *MatchError) {
	zap.L().Warn("matcher: stage failed",
		zap.String("stage", merr.Stage),
		zap.String("query", query),
		zap.String("reason", string(merr.Reason)),
		zap.Error(merr.Err),
	)
}

// askIndices sends one deterministic prompt and parses the index array it
// returns. Parse failures are never retried.
func (m *Matcher) askIndices(ctx context.Context, stage, system, prompt string, maxTokens int64) ([]int, *MatchError) {
	text, err := anthropic.Complete(ctx, m.llm, anthropic.CompletionRequest{
		Model:       m.model,
		System:      system,
		User:        prompt,
		Temperature: 0,
		MaxTokens:   maxTokens,
		Phase:       "match_" + stage,
	})
	if err != nil {
		return nil, &MatchError{Reason: ReasonProviderUnavailable, Stage: stage, Err: err}
	}

	indices, err := ParseIndexArray(text)
	if err != nil {
		var merr *MatchError
		if errors.As(err, &merr) {
			merr.Stage = stage
			return nil, merr
		}
		return nil, &MatchError{Reason: ReasonParseFailure, Stage: stage, Err: err}
	}
	return indices, nil
}

func questionTexts(records []model.QuestionRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Question
	}
	return out
}

// resolveUnique maps 1-based indices onto records, dropping out-of-range
// indices and records whose base URL was already seen.
func resolveUnique(indices []int, records []model.QuestionRecord) []model.QuestionRecord {
	seen := make(map[string]struct{}, len(indices))
	out := make([]model.QuestionRecord, 0, len(indices))
	for _, idx := range indices {
		if idx < 1 || idx > len(records) {
			continue
		}
		rec := records[idx-1]
		base := timestamp.BaseURL(rec.URL)
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, rec)
	}
	return out
}

func dedupeInts(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// rank assigns dense 1-based ranks in slice order.
func rank(records []model.QuestionRecord) []model.MatchCandidate {
	out := make([]model.MatchCandidate, len(records))
	for i, r := range records {
		out[i] = model.MatchCandidate{QuestionRecord: r, MatchRank: i + 1}
	}
	return out
}
