package main

import (
	"github.com/sells-group/expert-answers/internal/answer"
	"github.com/sells-group/expert-answers/internal/catalog"
	"github.com/sells-group/expert-answers/internal/config"
	"github.com/sells-group/expert-answers/internal/matcher"
	anthropicpkg "github.com/sells-group/expert-answers/pkg/anthropic"
	"github.com/sells-group/expert-answers/pkg/youtube"
)

// appEnv holds the clients and services shared by the commands.
type appEnv struct {
	Catalog      *catalog.Store
	Videos       youtube.Client // may be nil
	Matcher      *matcher.Matcher
	Orchestrator *answer.Orchestrator
}

func newCatalog(c *config.Config) *catalog.Store {
	return catalog.New(catalog.Config{
		Dirs:          c.Catalog.Dirs,
		QuestionsFile: c.Catalog.QuestionsFile,
		ChaptersFile:  c.Catalog.ChaptersFile,
		TaggedFile:    c.Catalog.TaggedFile,
	})
}

func newYouTube(c *config.Config) youtube.Client {
	if c.YouTube.Key == "" {
		return nil
	}
	opts := []youtube.Option{}
	if c.YouTube.BaseURL != "" {
		opts = append(opts, youtube.WithBaseURL(c.YouTube.BaseURL))
	}
	if c.YouTube.RequestsPerSecond > 0 {
		opts = append(opts, youtube.WithRateLimit(c.YouTube.RequestsPerSecond))
	}
	return youtube.NewClient(c.YouTube.Key, opts...)
}

// initApp validates the config for the serve mode and wires the catalog,
// matcher and orchestrator.
func initApp(c *config.Config) (*appEnv, error) {
	if err := c.Validate("serve"); err != nil {
		return nil, err
	}

	store := newCatalog(c)
	videos := newYouTube(c)
	m := matcher.New(anthropicpkg.NewClient(c.Anthropic.Key), store, matcher.Config{
		Model:              c.Anthropic.Model,
		MaxCandidates:      c.Anthropic.MaxCandidates,
		PrecannedQuestions: c.Matcher.PrecannedQuestions,
	})
	orch := answer.New(m, videos, store, answer.Config{
		ExpertName: c.YouTube.ExpertName,
		ChannelID:  c.YouTube.ChannelID,
	})

	return &appEnv{
		Catalog:      store,
		Videos:       videos,
		Matcher:      m,
		Orchestrator: orch,
	}, nil
}
