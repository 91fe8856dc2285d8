package answer

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/timestamp"
	"github.com/sells-group/expert-answers/pkg/youtube"
)

// DefaultExpertCount is used when ExpertQuery.Count is zero.
const DefaultExpertCount = 10

// ExpertQuery searches videos by topic, optionally narrowed to one speaker
// and a "YYYY-MM-DD,YYYY-MM-DD" publication range.
type ExpertQuery struct {
	Topic     string
	Author    string
	DateRange string
	Count     int
}

// SearchExperts runs a live video search for a topic and returns one answer
// per video, with the region inferred from the publishing channel.
func (o *Orchestrator) SearchExperts(ctx context.Context, q ExpertQuery) ([]model.ExpertAnswer, error) {
	topic := strings.TrimSpace(q.Topic)
	if topic == "" {
		return nil, eris.Wrap(ErrInvalidInput, "topic is required")
	}
	count := q.Count
	if count == 0 {
		count = DefaultExpertCount
	}
	if count < 1 || count > MaxCount {
		return nil, eris.Wrapf(ErrInvalidInput, "count must be between 1 and %d, got %d", MaxCount, count)
	}
	after, before, err := timestamp.ParseDateRange(q.DateRange)
	if err != nil {
		return nil, err
	}
	if o.videos == nil {
		return nil, eris.New("answer: video search is not configured")
	}

	author := strings.TrimSpace(q.Author)
	query := o.searchQuery(topic)
	if author != "" {
		query = topic + " " + author
	}

	videos, err := o.videos.Search(ctx, youtube.SearchRequest{
		Query:           query,
		ChannelID:       o.cfg.ChannelID,
		MaxResults:      count,
		PublishedAfter:  after,
		PublishedBefore: before,
	})
	if err != nil {
		return nil, eris.Wrap(err, "answer: expert search")
	}

	regions := make(map[string]*string)
	out := make([]model.ExpertAnswer, 0, len(videos))
	for _, v := range videos {
		r := videoResult(v)
		speakers := author
		if speakers == "" {
			speakers = v.ChannelTitle
		}
		out = append(out, model.ExpertAnswer{
			VideoLink: r.VideoLink,
			Time:      r.Time,
			Speakers:  speakers,
			Date:      publishedDate(v.PublishedAt),
			Title:     v.Title,
			Region:    o.region(ctx, v, regions),
		})
	}
	return out, nil
}

// region infers the channel region once per channel per call.
func (o *Orchestrator) region(ctx context.Context, v model.VideoSummary, seen map[string]*string) *string {
	if r, ok := seen[v.ChannelID]; ok {
		return r
	}

	var details *model.ChannelDetails
	if v.ChannelID != "" {
		d, err := o.videos.GetChannelDetails(ctx, v.ChannelID)
		if err != nil {
			zap.L().Warn("answer: channel lookup failed", zap.String("channel_id", v.ChannelID), zap.Error(err))
		} else {
			details = d
		}
	}

	var region *string
	if name := youtube.InferRegion(v.ChannelTitle, details); name != "" {
		region = &name
	}
	seen[v.ChannelID] = region
	return region
}

func publishedDate(publishedAt string) string {
	if len(publishedAt) >= len("2006-01-02") {
		return publishedAt[:len("2006-01-02")]
	}
	return publishedAt
}
