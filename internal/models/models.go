package models

import "time"

// Category is the dominant topic label assigned to an article.
type Category string

const (
	CategoryMilitary   Category = "military"
	CategoryDiplomatic Category = "diplomatic"
	CategoryEconomic   Category = "economic"
	CategorySocial     Category = "social"
	CategoryOther      Category = "other"
)

// Categories lists every category label, keyword-bearing ones first in
// classification precedence order. CategoryOther is only assigned when
// no keyword matches.
func Categories() []Category {
	return []Category{CategoryMilitary, CategoryDiplomatic, CategoryEconomic, CategorySocial, CategoryOther}
}

// CrisisLevel is the 4-tier severity label over recent negative coverage.
type CrisisLevel string

const (
	CrisisNormal   CrisisLevel = "normal"
	CrisisModerate CrisisLevel = "moderate"
	CrisisElevated CrisisLevel = "elevated"
	CrisisSevere   CrisisLevel = "severe"
)

// Rank returns the numeric severity of a crisis level, higher is worse.
func (l CrisisLevel) Rank() int {
	switch l {
	case CrisisModerate:
		return 1
	case CrisisElevated:
		return 2
	case CrisisSevere:
		return 3
	default:
		return 0
	}
}

// Source identifies the publisher of an article.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// RawArticle is an article exactly as returned by the upstream search
// provider. Every field is untrusted and may be empty.
type RawArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      Source    `json:"source"`
}

// SentimentDetail carries the full output of the lexical sentiment scorer.
type SentimentDetail struct {
	Score       int      `json:"score"`
	Comparative float64  `json:"comparative"`
	Positive    []string `json:"positive"`
	Negative    []string `json:"negative"`
}

// AnnotatedArticle is a RawArticle plus the derived labels. Category is
// never empty and IsPriority is derived, never set independently.
type AnnotatedArticle struct {
	RawArticle

	Category       Category        `json:"category"`
	SentimentScore int             `json:"sentimentScore"`
	Sentiment      SentimentDetail `json:"sentiment"`
	IsPriority     bool            `json:"isPriority"`
}

// SentimentCounts partitions a set of articles by sentiment polarity.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// TimelinePoint is the per-day article volume, with per-category splits.
type TimelinePoint struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Count      int    `json:"count"`
	Military   int    `json:"military"`
	Diplomatic int    `json:"diplomatic"`
	Economic   int    `json:"economic"`
	Social     int    `json:"social"`
}

// KeywordCount is one trending keyword with its frequency.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// InsightArticle is a lightweight projection of an extremum article.
type InsightArticle struct {
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Sentiment int       `json:"sentiment"`
	Category  Category  `json:"category"`
	Source    string    `json:"source"`
}

// KeyInsights points at the most recent, most negative and most
// positive articles of the current set.
type KeyInsights struct {
	MostRecent   *InsightArticle `json:"mostRecent"`
	MostNegative *InsightArticle `json:"mostNegative"`
	MostPositive *InsightArticle `json:"mostPositive"`
}

// SignificantEvent is an article that crossed the severity thresholds.
type SignificantEvent struct {
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Category  Category  `json:"category"`
	Sentiment int       `json:"sentiment"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
}

// AnalyticsSummary is the derived analytics over one annotated article
// set. It is recomputed wholesale on every refresh, never merged with
// a prior summary.
type AnalyticsSummary struct {
	Categories        map[Category]int   `json:"categories"`
	SentimentCounts   SentimentCounts    `json:"sentimentCounts"`
	TimelineData      []TimelinePoint    `json:"timelineData"`
	TrendingKeywords  []KeywordCount     `json:"trendingKeywords"`
	KeyInsights       KeyInsights        `json:"keyInsights"`
	SignificantEvents []SignificantEvent `json:"significantEvents"`
	CrisisLevel       CrisisLevel        `json:"crisisLevel"`
	LastUpdated       time.Time          `json:"lastUpdated"`
}

// Snapshot is one complete refresh result: the annotated articles and
// their analytics, stamped with the fetch time. Analytics is nil when
// the provider returned no usable articles.
type Snapshot struct {
	Articles  []AnnotatedArticle `json:"articles"`
	Analytics *AnalyticsSummary  `json:"analytics"`
	Skipped   int                `json:"-"`
	FetchedAt time.Time          `json:"fetchedAt"`
}
