// Package eval scores the answer service against a hand-curated golden set
// of questions and expected catalog matches.
package eval

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const (
	defaultMinRelevantCount  = 1
	defaultMaxResultsToCheck = 5
	unknownVersion           = "unknown"
)

// GoldenSet is the list of evaluation queries.
type GoldenSet struct {
	Version string  `json:"version" yaml:"version"`
	Queries []Query `json:"queries" yaml:"queries"`
}

// Query is one golden question and the catalog entries it should surface.
type Query struct {
	ID              string           `json:"id" yaml:"id"`
	Query           string           `json:"query" yaml:"query"`
	ExpectedAnswers []ExpectedAnswer `json:"expected_answers" yaml:"expected_answers"`
	// Nil means the package default.
	MinRelevantCount  *int `json:"min_relevant_count,omitempty" yaml:"min_relevant_count,omitempty"`
	MaxResultsToCheck *int `json:"max_results_to_check,omitempty" yaml:"max_results_to_check,omitempty"`
}

// ExpectedAnswer is a catalog question that should appear in the results.
type ExpectedAnswer struct {
	Question   string `json:"question" yaml:"question"`
	URLPattern string `json:"url_pattern,omitempty" yaml:"url_pattern,omitempty"`
	Required   bool   `json:"required" yaml:"required"`
	MinRank    *int   `json:"min_rank,omitempty" yaml:"min_rank,omitempty"`
}

func (q Query) minRelevantCount() int {
	if q.MinRelevantCount == nil {
		return defaultMinRelevantCount
	}
	return *q.MinRelevantCount
}

func (q Query) maxResultsToCheck() int {
	if q.MaxResultsToCheck == nil {
		return defaultMaxResultsToCheck
	}
	return max(*q.MaxResultsToCheck, 0)
}

// apiCount is the count requested from the service; the service rejects 0.
func (q Query) apiCount() int {
	return max(q.maxResultsToCheck(), 1)
}

// LoadGoldenSet reads a golden set from JSON, or YAML when the file ends in
// .yaml or .yml.
func LoadGoldenSet(path string) (*GoldenSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "eval: read golden set")
	}

	var gs GoldenSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &gs)
	default:
		err = json.Unmarshal(data, &gs)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "eval: parse golden set %s", path)
	}

	for i, q := range gs.Queries {
		if strings.TrimSpace(q.Query) == "" {
			return nil, eris.Errorf("eval: golden query %d (%s) has no query text", i, q.ID)
		}
	}
	if gs.Version == "" {
		gs.Version = unknownVersion
	}
	return &gs, nil
}
