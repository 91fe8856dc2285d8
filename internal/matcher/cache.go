package matcher

import (
	"strings"
	"sync"

	"github.com/sells-group/expert-answers/internal/model"
)

// DefaultPrecannedQuestions are the suggested questions offered in the UI.
// Their results are memoized so repeat clicks return identical answers.
var DefaultPrecannedQuestions = []string{
	"Why should I care about spirituality?",
	"What is the nature of consciousness?",
	"How does Vedanta view suffering?",
	"In Vedanta, are we ignoring the problems of society for the sake of spirituality?",
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

type cacheKey struct {
	query string
	topN  int
}

// matchCache memoizes final match lists for precanned questions. Entries are
// never evicted.
type matchCache struct {
	mu        sync.RWMutex
	precanned map[string]struct{}
	entries   map[cacheKey][]model.MatchCandidate
}

func newMatchCache(questions []string) *matchCache {
	p := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if n := normalizeQuery(q); n != "" {
			p[n] = struct{}{}
		}
	}
	return &matchCache{
		precanned: p,
		entries:   make(map[cacheKey][]model.MatchCandidate),
	}
}

func (c *matchCache) isPrecanned(query string) bool {
	_, ok := c.precanned[normalizeQuery(query)]
	return ok
}

func (c *matchCache) get(query string, topN int) ([]model.MatchCandidate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[cacheKey{normalizeQuery(query), topN}]
	if !ok {
		return nil, false
	}
	return cloneMatches(v), true
}

func (c *matchCache) put(query string, topN int, matches []model.MatchCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{normalizeQuery(query), topN}] = cloneMatches(matches)
}

func cloneMatches(in []model.MatchCandidate) []model.MatchCandidate {
	out := make([]model.MatchCandidate, len(in))
	copy(out, in)
	return out
}
