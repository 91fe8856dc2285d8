package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// FailureReason classifies why a matching step produced no usable output.
type FailureReason string

// Failure reasons.
const (
	ReasonProviderUnavailable FailureReason = "provider_unavailable"
	ReasonParseFailure        FailureReason = "parse_failure"
	ReasonEmptyResponse       FailureReason = "empty_response"
)

// MatchError reports a step that could not determine a result, as opposed to
// one where the model confirmed there was nothing relevant.
type MatchError struct {
	Reason FailureReason
	// Stage names the step that failed (candidates, filter, related, followup).
	Stage string
	Err   error
}

func (e *MatchError) Error() string {
	msg := fmt.Sprintf("matcher: %s: %s", e.Stage, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MatchError) Unwrap() error { return e.Err }

// ParseIndexArray decodes model output into a list of 1-based indices. The
// output may be wrapped in a Markdown code fence with an optional language
// tag. A JSON null or [] is a valid empty result. Blank output is an
// empty_response failure; anything that is not an array of integers is a
// parse_failure.
func ParseIndexArray(text string) ([]int, error) {
	body := stripFence(text)
	if body == "" {
		return nil, &MatchError{Reason: ReasonEmptyResponse}
	}
	if !gjson.Valid(body) {
		return nil, &MatchError{Reason: ReasonParseFailure, Err: fmt.Errorf("invalid JSON %q", truncate(body, 80))}
	}

	res := gjson.Parse(body)
	if res.Type == gjson.Null {
		return []int{}, nil
	}
	if !res.IsArray() {
		return nil, &MatchError{Reason: ReasonParseFailure, Err: fmt.Errorf("expected array, got %q", truncate(body, 80))}
	}

	elems := res.Array()
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		if e.Type != gjson.Number || e.Num != math.Trunc(e.Num) {
			return nil, &MatchError{Reason: ReasonParseFailure, Err: fmt.Errorf("non-integer element %s", e.Raw)}
		}
		out = append(out, int(e.Num))
	}
	return out, nil
}

// stripFence removes a surrounding ``` fence and its language tag.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Language tag runs to the end of the opening line.
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(text[:nl]); isLanguageTag(tag) {
			text = text[nl+1:]
		}
	} else {
		text = strings.TrimLeftFunc(text, isTagRune)
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if !isTagRune(r) {
			return false
		}
	}
	return true
}

func isTagRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
