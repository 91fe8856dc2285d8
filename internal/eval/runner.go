package eval

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Query statuses.
const (
	StatusSuccess  = "success"
	StatusAPIError = "api_error"
)

const (
	answersPath    = "/api/answers/v1"
	defaultTimeout = 30 * time.Second
	timestampFmt   = "20060102_150405"
)

// QueryResult is the evaluation of one golden query.
type QueryResult struct {
	QueryID           string            `json:"query_id"`
	Query             string            `json:"query"`
	Status            string            `json:"status"`
	Error             string            `json:"error,omitempty"`
	SearchStatus      string            `json:"search_status,omitempty"`
	EvaluationResults []Expectation     `json:"evaluation_results,omitempty"`
	Metrics           *Metrics          `json:"metrics,omitempty"`
	ActualAnswers     []json.RawMessage `json:"actual_answers,omitempty"`
}

// Summary aggregates successful queries. Queries that hit an API error are
// counted as failed and left out of the averages.
type Summary struct {
	TotalQueries          int     `json:"total_queries"`
	SuccessfulQueries     int     `json:"successful_queries"`
	FailedQueries         int     `json:"failed_queries"`
	AveragePrecision      float64 `json:"average_precision"`
	AverageRecall         float64 `json:"average_recall"`
	AverageRequiredRecall float64 `json:"average_required_recall"`
}

// Report is a complete evaluation run.
type Report struct {
	RunID            string        `json:"run_id"`
	Timestamp        string        `json:"timestamp"`
	GoldenSetVersion string        `json:"golden_set_version"`
	APIBaseURL       string        `json:"api_base_url"`
	Summary          Summary       `json:"summary"`
	Results          []QueryResult `json:"results"`
}

// Runner replays golden queries against a running answer service.
type Runner struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithHTTPClient overrides the default http.Client. A nil client keeps the
// default.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Runner) {
		r.http = hc
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// HTTP client, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a Runner for the service at baseURL.
func NewRunner(baseURL string, opts ...Option) *Runner {
	r := &Runner{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	if r.http == nil {
		r.http = &http.Client{Timeout: defaultTimeout}
	}
	if r.timeout > 0 {
		hc := *r.http
		hc.Timeout = r.timeout
		r.http = &hc
	}
	return r
}

// Run evaluates every query in order. Per-query API failures are recorded
// and the run continues; only cancellation of ctx aborts it.
func (r *Runner) Run(ctx context.Context, gs *GoldenSet) (*Report, error) {
	rep := &Report{
		RunID:            uuid.NewString(),
		Timestamp:        r.now().Format(timestampFmt),
		GoldenSetVersion: gs.Version,
		APIBaseURL:       r.baseURL,
		Results:          make([]QueryResult, 0, len(gs.Queries)),
	}
	if rep.GoldenSetVersion == "" {
		rep.GoldenSetVersion = unknownVersion
	}

	for _, q := range gs.Queries {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "eval: run interrupted")
		}
		res := r.Evaluate(ctx, q)
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "eval: run interrupted")
		}
		zap.L().Info("eval: query evaluated",
			zap.String("run_id", rep.RunID),
			zap.String("query_id", q.ID),
			zap.String("status", res.Status),
			zap.String("search_status", res.SearchStatus),
		)
		rep.Results = append(rep.Results, res)
	}

	rep.Summary = summarize(rep.Results)
	return rep, nil
}

// Evaluate runs a single golden query.
func (r *Runner) Evaluate(ctx context.Context, q Query) QueryResult {
	res := QueryResult{QueryID: q.ID, Query: q.Query}

	body, err := r.call(ctx, q.Query, q.apiCount())
	if err != nil {
		zap.L().Warn("eval: api error", zap.String("query_id", q.ID), zap.Error(err))
		res.Status = StatusAPIError
		res.Error = err.Error()
		return res
	}

	raw := append(rawArray(body, "answers"), rawArray(body, "otherRelatedVideos")...)
	pool := make([]PoolEntry, len(raw))
	for i, item := range raw {
		pool[i] = PoolEntry{
			QuestionTitle: gjson.GetBytes(item, "questionTitle").String(),
			VideoLink:     gjson.GetBytes(item, "videoLink").String(),
		}
	}

	exps, metrics := Score(q, pool)
	res.Status = StatusSuccess
	res.SearchStatus = gjson.GetBytes(body, "searchStatus").String()
	if res.SearchStatus == "" {
		res.SearchStatus = "unknown"
	}
	res.EvaluationResults = exps
	res.Metrics = &metrics
	res.ActualAnswers = raw[:min(len(raw), q.maxResultsToCheck())]
	return res
}

func (r *Runner) call(ctx context.Context, question string, count int) ([]byte, error) {
	params := url.Values{
		"question": {question},
		"count":    {strconv.Itoa(count)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+answersPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "eval: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "eval: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "eval: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("eval: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, eris.New("eval: response is not a JSON object")
	}
	return body, nil
}

// rawArray returns the elements of the array at key, or nil when the key is
// missing or null.
func rawArray(body []byte, key string) []json.RawMessage {
	v := gjson.GetBytes(body, key)
	if !v.IsArray() {
		return nil
	}
	items := v.Array()
	out := make([]json.RawMessage, len(items))
	for i, it := range items {
		out[i] = json.RawMessage(it.Raw)
	}
	return out
}

func summarize(results []QueryResult) Summary {
	s := Summary{TotalQueries: len(results)}
	var p, rc, rr float64
	for _, r := range results {
		if r.Status != StatusSuccess || r.Metrics == nil {
			continue
		}
		s.SuccessfulQueries++
		p += r.Metrics.Precision
		rc += r.Metrics.Recall
		rr += r.Metrics.RequiredRecall
	}
	s.FailedQueries = s.TotalQueries - s.SuccessfulQueries
	if s.SuccessfulQueries > 0 {
		n := float64(s.SuccessfulQueries)
		s.AveragePrecision = round3(p / n)
		s.AverageRecall = round3(rc / n)
		s.AverageRequiredRecall = round3(rr / n)
	}
	return s
}
