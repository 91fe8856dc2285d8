package model

// ChapterRecord is a single timestamped chapter mined from a video
// description.
type ChapterRecord struct {
	PlaylistID       string `json:"playlist_id"`
	VideoID          string `json:"video_id"`
	VideoTitle       string `json:"video_title"`
	PublishedAt      string `json:"publishedAt"`
	VideoURL         string `json:"video_url"`
	ChapterTitle     string `json:"chapter_title"`
	ChapterTimestamp string `json:"chapter_timestamp"`
	ChapterSeconds   int    `json:"chapter_seconds"`
	ChapterURL       string `json:"chapter_url"`
	Description      string `json:"description"`
}

// TaggedChapterRecord is a ChapterRecord annotated with topic tags.
type TaggedChapterRecord struct {
	ChapterRecord
	PrimaryTag string   `json:"primary_tag"`
	Tags       []string `json:"tags"`
}

// TagCount is the number of tagged chapters sharing a primary tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TaggedQuestion is a tagged chapter presented as a browsable question.
type TaggedQuestion struct {
	Question   string   `json:"question"`
	URL        string   `json:"url"`
	Timestamp  string   `json:"timestamp"`
	VideoTitle string   `json:"video_title"`
	PrimaryTag string   `json:"primary_tag"`
	Tags       []string `json:"tags"`
}
