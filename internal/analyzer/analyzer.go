package analyzer

import (
	"log/slog"
	"strings"

	"github.com/newswatchhq/newswatch/internal/models"
)

// Config overrides the built-in lexicons. Zero-value fields keep the
// defaults, so callers only set what they customize.
type Config struct {
	Categories       []CategoryKeywords
	PriorityKeywords []string
	SentimentLexicon map[string]int
}

// Annotator labels raw articles with a category, a sentiment score and
// a priority flag. All labeling is a pure function of the article text
// and the configured lexicons.
type Annotator struct {
	categories []CategoryKeywords
	priority   []string
	sentiment  *SentimentScorer
	logger     *slog.Logger
}

// New creates an Annotator with the built-in lexicons.
func New() *Annotator {
	return NewWithConfig(Config{})
}

// NewWithConfig creates an Annotator with custom lexicons.
func NewWithConfig(cfg Config) *Annotator {
	categories := cfg.Categories
	if len(categories) == 0 {
		categories = defaultCategories()
	}
	priority := cfg.PriorityKeywords
	if len(priority) == 0 {
		priority = defaultPriorityKeywords()
	}
	lowered := make([]string, len(priority))
	for i, kw := range priority {
		lowered[i] = strings.ToLower(kw)
	}

	return &Annotator{
		categories: categories,
		priority:   lowered,
		sentiment:  NewSentimentScorer(cfg.SentimentLexicon),
		logger:     slog.Default(),
	}
}

// Categorize picks the category whose keywords occur most often in the
// text. Ties keep the earlier category in lexicon order; no match at
// all yields CategoryOther.
func (a *Annotator) Categorize(text string) models.Category {
	lower := strings.ToLower(text)

	best := models.CategoryOther
	bestScore := 0
	for _, entry := range a.categories {
		score := 0
		for _, keyword := range entry.Keywords {
			score += strings.Count(lower, strings.ToLower(keyword))
		}
		if score > bestScore {
			bestScore = score
			best = entry.Category
		}
	}

	return best
}

// IsPriority flags an article as especially newsworthy. The three
// clauses are independent; any one of them is sufficient.
func (a *Annotator) IsPriority(text string, category models.Category, sentimentScore int) bool {
	lower := strings.ToLower(text)

	hasKeyword := false
	for _, keyword := range a.priority {
		if strings.Contains(lower, keyword) {
			hasKeyword = true
			break
		}
	}

	if category == models.CategoryMilitary && hasKeyword {
		return true
	}
	if category == models.CategoryDiplomatic && sentimentScore < -2 {
		return true
	}
	if hasKeyword && sentimentScore < -3 {
		return true
	}
	return false
}

// Sentiment exposes the scorer for callers that only need polarity.
func (a *Annotator) Sentiment(text string) models.SentimentDetail {
	return a.sentiment.Analyze(text)
}

// Annotate labels every well-formed article, preserving input order.
// Articles with neither title nor description carry no signal; they are
// skipped and counted rather than propagated as errors.
func (a *Annotator) Annotate(raw []models.RawArticle) ([]models.AnnotatedArticle, int) {
	annotated := make([]models.AnnotatedArticle, 0, len(raw))
	skipped := 0

	for _, article := range raw {
		if article.Title == "" && article.Description == "" {
			skipped++
			a.logger.Warn("skipping malformed article", "url", article.URL)
			continue
		}

		text := article.Title + " " + article.Description
		sentiment := a.sentiment.Analyze(text)
		category := a.Categorize(text)

		annotated = append(annotated, models.AnnotatedArticle{
			RawArticle:     article,
			Category:       category,
			SentimentScore: sentiment.Score,
			Sentiment:      sentiment,
			IsPriority:     a.IsPriority(text, category, sentiment.Score),
		})
	}

	return annotated, skipped
}
