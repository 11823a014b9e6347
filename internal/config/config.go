package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/newswatchhq/newswatch/internal/analytics"
	"github.com/newswatchhq/newswatch/internal/analyzer"
	"github.com/newswatchhq/newswatch/internal/models"
)

// Config captures runtime configuration for the newswatch service.
type Config struct {
	ListenAddr   string
	GNewsAPIKey  string
	GNewsBaseURL string
	Query        string
	MaxArticles  int
	CacheTTL     time.Duration

	// RedisAddr enables the background refresh queue when non-empty.
	RedisAddr   string
	RefreshCron string

	Lexicon LexiconFile
}

// LexiconFile mirrors the optional YAML lexicon/threshold override
// file. Empty sections keep the compiled-in defaults, so the service
// runs with no file at all.
type LexiconFile struct {
	Categories       []categoryEntry `yaml:"categories"`
	PriorityKeywords []string        `yaml:"priorityKeywords"`
	StopWords        []string        `yaml:"stopWords"`
	Sentiment        map[string]int  `yaml:"sentiment"`
	Thresholds       thresholdEntry  `yaml:"thresholds"`
}

type categoryEntry struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type thresholdEntry struct {
	SignificantMilitary   *int `yaml:"significantMilitary"`
	SignificantDiplomatic *int `yaml:"significantDiplomatic"`
	CrisisWindowHours     *int `yaml:"crisisWindowHours"`
	CrisisNegative        *int `yaml:"crisisNegative"`
	SevereMilitary        *int `yaml:"severeMilitary"`
	SevereCombined        *int `yaml:"severeCombined"`
	ElevatedMilitary      *int `yaml:"elevatedMilitary"`
	ElevatedCombined      *int `yaml:"elevatedCombined"`
	ModerateMilitary      *int `yaml:"moderateMilitary"`
	ModerateDiplomatic    *int `yaml:"moderateDiplomatic"`
}

// FromEnv builds the configuration from the environment (plus .env if
// present) and the optional NEWSWATCH_LEXICON YAML file. A missing
// GNEWS_API_KEY is reported as an error: it is fatal at startup, never
// a per-request condition.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:   getEnv("NEWSWATCH_LISTEN_ADDR", ":8080"),
		GNewsAPIKey:  os.Getenv("GNEWS_API_KEY"),
		GNewsBaseURL: getEnv("GNEWS_BASE_URL", ""),
		Query:        getEnv("NEWSWATCH_QUERY", "India Pakistan"),
		MaxArticles:  25,
		CacheTTL:     15 * time.Minute,
		RedisAddr:    os.Getenv("NEWSWATCH_REDIS_ADDR"),
		RefreshCron:  getEnv("NEWSWATCH_REFRESH_CRON", "*/15 * * * *"),
	}

	if cfg.GNewsAPIKey == "" {
		return Config{}, fmt.Errorf("GNEWS_API_KEY is required")
	}

	if v := os.Getenv("NEWSWATCH_MAX_ARTICLES"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &cfg.MaxArticles); err != nil {
			return Config{}, fmt.Errorf("parse NEWSWATCH_MAX_ARTICLES: %w", err)
		}
	}

	if v := os.Getenv("NEWSWATCH_CACHE_TTL_MS"); v != "" {
		var ms int64
		if _, err := fmt.Sscanf(v, "%d", &ms); err != nil {
			return Config{}, fmt.Errorf("parse NEWSWATCH_CACHE_TTL_MS: %w", err)
		}
		cfg.CacheTTL = time.Duration(ms) * time.Millisecond
	}

	if path := os.Getenv("NEWSWATCH_LEXICON"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read lexicon file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg.Lexicon); err != nil {
			return Config{}, fmt.Errorf("parse lexicon file %s: %w", path, err)
		}
	}

	return cfg, nil
}

// AnalyzerConfig converts the lexicon file into analyzer configuration.
func (c Config) AnalyzerConfig() analyzer.Config {
	out := analyzer.Config{
		PriorityKeywords: c.Lexicon.PriorityKeywords,
		SentimentLexicon: c.Lexicon.Sentiment,
	}
	for _, entry := range c.Lexicon.Categories {
		out.Categories = append(out.Categories, analyzer.CategoryKeywords{
			Category: models.Category(entry.Category),
			Keywords: entry.Keywords,
		})
	}
	return out
}

// Thresholds converts the lexicon file into aggregation thresholds,
// starting from the defaults.
func (c Config) Thresholds() analytics.Thresholds {
	th := analytics.DefaultThresholds()
	t := c.Lexicon.Thresholds
	setInt(&th.SignificantMilitary, t.SignificantMilitary)
	setInt(&th.SignificantDiplomatic, t.SignificantDiplomatic)
	setInt(&th.CrisisNegative, t.CrisisNegative)
	setInt(&th.SevereMilitary, t.SevereMilitary)
	setInt(&th.SevereCombined, t.SevereCombined)
	setInt(&th.ElevatedMilitary, t.ElevatedMilitary)
	setInt(&th.ElevatedCombined, t.ElevatedCombined)
	setInt(&th.ModerateMilitary, t.ModerateMilitary)
	setInt(&th.ModerateDiplomatic, t.ModerateDiplomatic)
	if t.CrisisWindowHours != nil {
		th.CrisisWindow = time.Duration(*t.CrisisWindowHours) * time.Hour
	}
	return th
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
