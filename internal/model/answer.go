package model

// SearchStatus tags which fallback stage produced a response.
type SearchStatus string

const (
	SearchStatusQAMatch          SearchStatus = "qa_match"
	SearchStatusRelatedQuestions SearchStatus = "related_questions"
	SearchStatusYouTubeSearch    SearchStatus = "youtube_search"
	SearchStatusNoResults        SearchStatus = "no_results"
)

// Answer is a matched catalog question enriched for display.
type Answer struct {
	QuestionTitle string `json:"questionTitle"`
	VideoLink     string `json:"videoLink"`
	Time          string `json:"time"`
	VideoID       string `json:"videoId,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	PlaylistID    string `json:"playlistId,omitempty"`
	MatchRank     int    `json:"matchRank"`
}

// VideoResult is a live search result reformatted for display.
type VideoResult struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoLink    string `json:"videoLink"`
	Time         string `json:"time"`
	PublishedAt  string `json:"publishedAt"`
	ChannelTitle string `json:"channelTitle"`
	ChannelID    string `json:"channelId"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	PlaylistID   string `json:"playlistId,omitempty"`
}

// Response is the single shape returned by the answer entry point. Exactly
// one SearchStatus is set; list fields are empty (never null) when unused.
type Response struct {
	Answers              []Answer      `json:"answers"`
	RelatedQuestion      *string       `json:"relatedQuestion,omitempty"`
	RelatedQuestions     []string      `json:"relatedQuestions"`
	YouTubeSearchResults []VideoResult `json:"youtubeSearchResults"`
	SearchStatus         SearchStatus  `json:"searchStatus"`
}

// NewResponse returns a response with the given status and empty lists.
func NewResponse(status SearchStatus) *Response {
	return &Response{
		Answers:              []Answer{},
		RelatedQuestions:     []string{},
		YouTubeSearchResults: []VideoResult{},
		SearchStatus:         status,
	}
}

// ExpertAnswer is a video segment returned by the topic search endpoint.
type ExpertAnswer struct {
	VideoLink       string  `json:"videoLink"`
	Time            string  `json:"time"`
	Speakers        string  `json:"speakers"`
	Date            string  `json:"date"`
	Title           string  `json:"title,omitempty"`
	Region          *string `json:"region"`
	Score           *string `json:"score"`
	AnswerViewPoint *string `json:"answerViewPoint"`
}
