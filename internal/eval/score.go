package eval

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// PoolEntry is one result returned by the service, in pool order.
type PoolEntry struct {
	QuestionTitle string
	VideoLink     string
}

// Expectation is the outcome for one expected answer.
type Expectation struct {
	ExpectedQuestion string `json:"expected_question"`
	Found            bool   `json:"found"`
	// Rank is 1-based; 0 when not found.
	Rank     int  `json:"rank"`
	Required bool `json:"required"`
	MinRank  *int `json:"min_rank"`
	RankOK   bool `json:"rank_ok"`
}

// Metrics are the per-query scores.
type Metrics struct {
	Precision           float64 `json:"precision"`
	Recall              float64 `json:"recall"`
	RequiredRecall      float64 `json:"required_recall"`
	FoundCount          int     `json:"found_count"`
	TotalExpected       int     `json:"total_expected"`
	RequiredFound       int     `json:"required_found"`
	RequiredExpected    int     `json:"required_expected"`
	MinRelevantCountMet bool    `json:"min_relevant_count_met"`
	ActualResultsCount  int     `json:"actual_results_count"`
}

// normalize folds case and Unicode form so that visually identical
// questions compare equal.
func normalize(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// questionsMatch reports whether either normalized text contains the other.
// Empty text never matches.
func questionsMatch(expected, actual string) bool {
	e, a := normalize(expected), normalize(actual)
	if e == "" || a == "" {
		return false
	}
	return strings.Contains(a, e) || strings.Contains(e, a)
}

// find returns the 1-based rank of the first pool entry satisfying exp, or 0.
func find(exp ExpectedAnswer, pool []PoolEntry) int {
	for i, p := range pool {
		if !questionsMatch(exp.Question, p.QuestionTitle) {
			continue
		}
		if exp.URLPattern != "" && !strings.Contains(p.VideoLink, exp.URLPattern) {
			continue
		}
		return i + 1
	}
	return 0
}

// Score compares a result pool against a query's expectations.
func Score(q Query, pool []PoolEntry) ([]Expectation, Metrics) {
	exps := make([]Expectation, 0, len(q.ExpectedAnswers))
	var m Metrics

	for _, exp := range q.ExpectedAnswers {
		rank := find(exp, pool)
		found := rank > 0
		e := Expectation{
			ExpectedQuestion: exp.Question,
			Found:            found,
			Rank:             rank,
			Required:         exp.Required,
			MinRank:          exp.MinRank,
			RankOK:           exp.MinRank == nil || *exp.MinRank <= 0 || (found && rank <= *exp.MinRank),
		}
		exps = append(exps, e)

		if found {
			m.FoundCount++
		}
		if exp.Required {
			m.RequiredExpected++
			if found {
				m.RequiredFound++
			}
		}
	}

	m.TotalExpected = len(q.ExpectedAnswers)
	m.ActualResultsCount = len(pool)
	m.MinRelevantCountMet = len(pool) >= q.minRelevantCount()
	m.Precision = round3(ratio(m.FoundCount, len(pool), 0))
	m.Recall = round3(ratio(m.FoundCount, m.TotalExpected, 0))
	// No required answers passes vacuously.
	m.RequiredRecall = round3(ratio(m.RequiredFound, m.RequiredExpected, 1))
	return exps, m
}

func ratio(num, den int, whenEmpty float64) float64 {
	if den == 0 {
		return whenEmpty
	}
	return float64(num) / float64(den)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
