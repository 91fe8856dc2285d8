package model

// QuestionRecord is one entry of the question catalog: a question asked in a
// recorded Q&A session and the point in the video where it is answered.
type QuestionRecord struct {
	Question  string `json:"question"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}

// MatchCandidate is a catalog question selected by the matcher. MatchRank is
// 1-based and dense in final output order.
type MatchCandidate struct {
	QuestionRecord
	MatchRank int `json:"match_rank"`
}

// Texts returns the question text of each candidate, in order.
func Texts(matches []MatchCandidate) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Question)
	}
	return out
}
