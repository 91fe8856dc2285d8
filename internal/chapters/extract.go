package chapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/timestamp"
	"github.com/sells-group/expert-answers/pkg/youtube"
)

const defaultConcurrency = 4

// VideoSource lists a playlist and fetches video snippets.
type VideoSource interface {
	ListPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error)
	ListVideos(ctx context.Context, ids []string) ([]model.VideoSummary, error)
}

// Extractor builds chapter records for a playlist.
type Extractor struct {
	videos      VideoSource
	concurrency int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConcurrency bounds the number of snippet requests in flight.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(videos VideoSource, opts ...Option) *Extractor {
	e := &Extractor{videos: videos, concurrency: defaultConcurrency}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Build lists every video in the playlist, parses the chapters out of each
// description and returns them newest video first, later chapters first
// within a video. Videos with unparseable publish dates sort last.
func (e *Extractor) Build(ctx context.Context, playlistID string) ([]model.ChapterRecord, error) {
	ids, err := e.videos.ListPlaylistVideoIDs(ctx, playlistID)
	if err != nil {
		return nil, eris.Wrap(err, "chapters: list playlist")
	}

	videos, err := e.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	var records []model.ChapterRecord
	for _, v := range videos {
		videoURL := timestamp.FormatVideoLink(v.VideoID)
		for _, ch := range ParseDescription(v.Description) {
			records = append(records, model.ChapterRecord{
				PlaylistID:       playlistID,
				VideoID:          v.VideoID,
				VideoTitle:       v.Title,
				PublishedAt:      v.PublishedAt,
				VideoURL:         videoURL,
				ChapterTitle:     ch.Title,
				ChapterTimestamp: ch.Timestamp,
				ChapterSeconds:   ch.Seconds,
				ChapterURL:       fmt.Sprintf("%s&t=%ds", videoURL, ch.Seconds),
				Description:      v.Description,
			})
		}
	}

	sortRecords(records)
	zap.L().Info("chapters: extracted",
		zap.String("playlist_id", playlistID),
		zap.Int("videos", len(videos)),
		zap.Int("chapters", len(records)),
	)
	return records, nil
}

// fetch retrieves snippets in API-sized chunks, preserving playlist order.
func (e *Extractor) fetch(ctx context.Context, ids []string) ([]model.VideoSummary, error) {
	var chunks [][]string
	for i := 0; i < len(ids); i += youtube.MaxResults {
		chunks = append(chunks, ids[i:min(i+youtube.MaxResults, len(ids))])
	}

	results := make([][]model.VideoSummary, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			videos, err := e.videos.ListVideos(gctx, chunk)
			if err != nil {
				return eris.Wrapf(err, "chapters: fetch chunk %d", i)
			}
			results[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.VideoSummary
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func sortRecords(records []model.ChapterRecord) {
	published := make(map[string]time.Time, len(records))
	for _, r := range records {
		if _, ok := published[r.PublishedAt]; ok {
			continue
		}
		t, err := time.Parse(time.RFC3339, r.PublishedAt)
		if err != nil {
			t = time.Time{}
		}
		published[r.PublishedAt] = t
	}

	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := published[records[i].PublishedAt], published[records[j].PublishedAt]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return records[i].ChapterSeconds > records[j].ChapterSeconds
	})
}

// QuestionsFromChapters turns chapters into question catalog entries.
func QuestionsFromChapters(records []model.ChapterRecord) []model.QuestionRecord {
	out := make([]model.QuestionRecord, 0, len(records))
	for _, r := range records {
		out = append(out, model.QuestionRecord{
			Question:  r.ChapterTitle,
			URL:       r.ChapterURL,
			Timestamp: timestamp.FormatHMS(r.ChapterSeconds),
		})
	}
	return out
}

// WriteJSON writes v to path as indented JSON.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "chapters: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "chapters: write %s", path)
	}
	return nil
}
