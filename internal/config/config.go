package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	YouTube   YouTubeConfig   `yaml:"youtube" mapstructure:"youtube"`
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Matcher   MatcherConfig   `yaml:"matcher" mapstructure:"matcher"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Eval      EvalConfig      `yaml:"eval" mapstructure:"eval"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig configures the LLM used for matching.
type AnthropicConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	Model         string `yaml:"model" mapstructure:"model"`
	MaxCandidates int    `yaml:"max_candidates" mapstructure:"max_candidates"`
}

// YouTubeConfig configures the YouTube Data API client and live search.
type YouTubeConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	ChannelID         string  `yaml:"channel_id" mapstructure:"channel_id"`
	ExpertName        string  `yaml:"expert_name" mapstructure:"expert_name"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CatalogConfig names the catalog files and the directories searched for
// them, in order.
type CatalogConfig struct {
	Dirs          []string `yaml:"dirs" mapstructure:"dirs"`
	QuestionsFile string   `yaml:"questions_file" mapstructure:"questions_file"`
	ChaptersFile  string   `yaml:"chapters_file" mapstructure:"chapters_file"`
	TaggedFile    string   `yaml:"tagged_file" mapstructure:"tagged_file"`
}

// MatcherConfig configures the question matcher.
type MatcherConfig struct {
	// PrecannedQuestions have their results memoized. Empty uses the
	// built-in list.
	PrecannedQuestions []string `yaml:"precanned_questions" mapstructure:"precanned_questions"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// EvalConfig configures the evaluation harness.
type EvalConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	GoldenSet   string `yaml:"golden_set" mapstructure:"golden_set"`
	ResultsDir  string `yaml:"results_dir" mapstructure:"results_dir"`
	ScoresFile  string `yaml:"scores_file" mapstructure:"scores_file"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An empty path looks
// for an optional config.yaml in the working directory; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("ANSWERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_candidates", 15)
	v.SetDefault("youtube.key", "")
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.channel_id", "")
	v.SetDefault("youtube.expert_name", "Swami Sarvapriyananda")
	v.SetDefault("youtube.requests_per_second", 5.0)
	v.SetDefault("catalog.dirs", []string{".", "data"})
	v.SetDefault("catalog.questions_file", "askswami_questions.json")
	v.SetDefault("catalog.chapters_file", "askswami_chapters.json")
	v.SetDefault("catalog.tagged_file", "askswami_chapters_tagged.json")
	v.SetDefault("matcher.precanned_questions", []string{})
	v.SetDefault("eval.base_url", "http://localhost:8000")
	v.SetDefault("eval.golden_set", "eval/golden_set.json")
	v.SetDefault("eval.results_dir", "eval/results")
	v.SetDefault("eval.scores_file", "eval/scores.json")
	v.SetDefault("eval.timeout_secs", 30)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the keys a command needs. Every problem is reported at
// once.
func (c *Config) Validate(mode string) error {
	var errs []string
	require := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			errs = append(errs, key+" is required")
		}
	}

	switch mode {
	case "serve":
		require("anthropic.key", c.Anthropic.Key)
		require("youtube.key", c.YouTube.Key)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be > 0 and <= 65535, got %d", c.Server.Port))
		}
		if c.Anthropic.MaxCandidates < 1 {
			errs = append(errs, "anthropic.max_candidates must be >= 1")
		}
	case "chapters":
		require("youtube.key", c.YouTube.Key)
	case "eval":
		require("eval.base_url", c.Eval.BaseURL)
		require("eval.golden_set", c.Eval.GoldenSet)
	case "tags":
		require("catalog.tagged_file", c.Catalog.TaggedFile)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
