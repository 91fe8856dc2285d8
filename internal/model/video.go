package model

// VideoSummary is a video returned by the search provider.
type VideoSummary struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"publishedAt"`
	ChannelTitle string `json:"channelTitle"`
	ChannelID    string `json:"channelId"`
	Thumbnail    string `json:"thumbnail"`
}

// ChannelDetails holds the channel metadata used for region inference.
type ChannelDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Country     string `json:"country"`
	CustomURL   string `json:"customUrl"`
}
