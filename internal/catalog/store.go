// Package catalog loads the flat JSON record sets the matcher and browsing
// endpoints read from. Each set is loaded lazily on first access from the
// first existing candidate path and kept for the lifetime of the Store.
package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/expert-answers/internal/model"
)

// ErrNotFound is returned when none of the candidate paths for a required
// catalog exists.
var ErrNotFound = eris.New("catalog: file not found")

// OtherTag groups tagged chapters that carry no primary tag.
const OtherTag = "Other"

// Config names the catalog files and the directories searched for them.
type Config struct {
	Dirs          []string
	QuestionsFile string
	ChaptersFile  string
	TaggedFile    string
	// HomeDir is searched under Downloads/ for the tagged catalog. Empty
	// means the current user's home directory.
	HomeDir string
}

// Store holds the lazily loaded catalogs.
type Store struct {
	cfg   Config
	group singleflight.Group

	questions lazy[[]model.QuestionRecord]
	chapters  lazy[chapterIndex]
	tagged    lazy[[]model.TaggedChapterRecord]
}

type chapterIndex struct {
	records   []model.ChapterRecord
	playlists map[string]string
}

type lazy[T any] struct {
	mu     sync.RWMutex
	loaded bool
	val    T
}

func (l *lazy[T]) get() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.val, l.loaded
}

func (l *lazy[T]) set(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.val = v
	l.loaded = true
}

// New creates a Store. Nothing is read until the first accessor call.
func New(cfg Config) *Store {
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{"."}
	}
	return &Store{cfg: cfg}
}

// Questions returns the question catalog. A missing file is an ErrNotFound.
func (s *Store) Questions(ctx context.Context) ([]model.QuestionRecord, error) {
	return loadOnce(ctx, &s.group, "questions", &s.questions, func() ([]model.QuestionRecord, error) {
		var records []model.QuestionRecord
		if err := s.readRequired(s.cfg.QuestionsFile, s.paths(s.cfg.QuestionsFile, false), &records); err != nil {
			return nil, err
		}
		return records, nil
	})
}

// Chapters returns the chapter catalog, or an empty set when no file exists.
func (s *Store) Chapters(ctx context.Context) ([]model.ChapterRecord, error) {
	idx, err := s.chapterIndex(ctx)
	if err != nil {
		return nil, err
	}
	return idx.records, nil
}

// PlaylistID returns the playlist of the first chapter recorded for videoID.
func (s *Store) PlaylistID(ctx context.Context, videoID string) (string, bool) {
	if videoID == "" {
		return "", false
	}
	idx, err := s.chapterIndex(ctx)
	if err != nil {
		zap.L().Warn("catalog: playlist lookup failed", zap.String("video_id", videoID), zap.Error(err))
		return "", false
	}
	id, ok := idx.playlists[videoID]
	return id, ok
}

func (s *Store) chapterIndex(ctx context.Context) (chapterIndex, error) {
	return loadOnce(ctx, &s.group, "chapters", &s.chapters, func() (chapterIndex, error) {
		var records []model.ChapterRecord
		path, found := firstExisting(s.paths(s.cfg.ChaptersFile, false))
		if !found {
			zap.L().Info("catalog: no chapter catalog found, playlist lookups disabled",
				zap.String("file", s.cfg.ChaptersFile))
		} else if err := readJSON(path, &records); err != nil {
			return chapterIndex{}, err
		}

		playlists := make(map[string]string, len(records))
		for _, r := range records {
			if r.VideoID == "" || r.PlaylistID == "" {
				continue
			}
			if _, ok := playlists[r.VideoID]; !ok {
				playlists[r.VideoID] = r.PlaylistID
			}
		}
		return chapterIndex{records: records, playlists: playlists}, nil
	})
}

// TaggedChapters returns the tag-annotated chapter catalog. A missing file is
// an ErrNotFound.
func (s *Store) TaggedChapters(ctx context.Context) ([]model.TaggedChapterRecord, error) {
	return loadOnce(ctx, &s.group, "tagged", &s.tagged, func() ([]model.TaggedChapterRecord, error) {
		var records []model.TaggedChapterRecord
		if err := s.readRequired(s.cfg.TaggedFile, s.paths(s.cfg.TaggedFile, true), &records); err != nil {
			return nil, err
		}
		return records, nil
	})
}

// Tags counts tagged chapters by primary tag, most frequent first. Ties are
// ordered by tag name.
func (s *Store) Tags(ctx context.Context) ([]model.TagCount, error) {
	records, err := s.TaggedChapters(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range records {
		counts[primaryTag(r)]++
	}

	tags := make([]model.TagCount, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, model.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags, nil
}

// QuestionsByTag lists the tagged chapters whose primary tag equals tag,
// ignoring case. An unknown tag yields an empty list. Timestamps are the
// chapter tokens as written in the video description.
func (s *Store) QuestionsByTag(ctx context.Context, tag string) ([]model.TaggedQuestion, error) {
	records, err := s.TaggedChapters(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.TaggedQuestion, 0)
	for _, r := range records {
		pt := primaryTag(r)
		if !strings.EqualFold(pt, tag) {
			continue
		}
		out = append(out, model.TaggedQuestion{
			Question:   r.ChapterTitle,
			URL:        r.ChapterURL,
			Timestamp:  r.ChapterTimestamp,
			VideoTitle: r.VideoTitle,
			PrimaryTag: pt,
			Tags:       r.Tags,
		})
	}
	return out, nil
}

func primaryTag(r model.TaggedChapterRecord) string {
	if strings.TrimSpace(r.PrimaryTag) == "" {
		return OtherTag
	}
	return r.PrimaryTag
}

// paths lists the candidate locations for file in search order.
func (s *Store) paths(file string, includeDownloads bool) []string {
	if file == "" {
		return nil
	}
	paths := make([]string, 0, len(s.cfg.Dirs)+1)
	for _, dir := range s.cfg.Dirs {
		paths = append(paths, filepath.Join(dir, file))
	}
	if includeDownloads {
		home := s.cfg.HomeDir
		if home == "" {
			home, _ = os.UserHomeDir()
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, "Downloads", file))
		}
	}
	return paths
}

func (s *Store) readRequired(file string, paths []string, out any) error {
	path, found := firstExisting(paths)
	if !found {
		return eris.Wrapf(ErrNotFound, "catalog: %s (searched %s)", file, strings.Join(paths, ", "))
	}
	return readJSON(path, out)
}

func firstExisting(paths []string) (string, bool) {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "catalog: read %s", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "catalog: unmarshal %s", path)
	}
	zap.L().Info("catalog: loaded", zap.String("path", path))
	return nil
}

// loadOnce returns the cached value or runs load, collapsing concurrent
// first calls into one. Failed loads are not cached.
func loadOnce[T any](ctx context.Context, group *singleflight.Group, key string, l *lazy[T], load func() (T, error)) (T, error) {
	if v, ok := l.get(); ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, eris.Wrapf(err, "catalog: load %s", key)
	}

	v, err, _ := group.Do(key, func() (any, error) {
		if v, ok := l.get(); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		l.set(v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
