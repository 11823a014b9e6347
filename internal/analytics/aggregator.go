package analytics

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/newswatchhq/newswatch/internal/models"
)

const trendingKeywordLimit = 10

// Thresholds holds every tunable cutoff of the aggregation step. Use
// DefaultThresholds as the base and override selectively.
type Thresholds struct {
	// SignificantMilitary / SignificantDiplomatic are exclusive upper
	// bounds on sentiment for an article to count as a significant event.
	SignificantMilitary   int
	SignificantDiplomatic int

	// CrisisWindow is the rolling window the crisis assessor looks at.
	CrisisWindow time.Duration
	// CrisisNegative is the exclusive upper bound on sentiment for an
	// article to count towards the crisis tally.
	CrisisNegative int

	SevereMilitary     int
	SevereCombined     int
	ElevatedMilitary   int
	ElevatedCombined   int
	ModerateMilitary   int
	ModerateDiplomatic int
}

// DefaultThresholds returns the production cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SignificantMilitary:   -3,
		SignificantDiplomatic: -4,
		CrisisWindow:          48 * time.Hour,
		CrisisNegative:        -2,
		SevereMilitary:        5,
		SevereCombined:        8,
		ElevatedMilitary:      3,
		ElevatedCombined:      5,
		ModerateMilitary:      1,
		ModerateDiplomatic:    2,
	}
}

// Aggregator derives the analytics summary from an annotated article
// set. Every step recomputes from the full set; nothing is incremental.
type Aggregator struct {
	stopWords  map[string]bool
	thresholds Thresholds
}

// New creates an Aggregator with default stop words and thresholds.
func New() *Aggregator {
	return NewWithConfig(nil, DefaultThresholds())
}

// NewWithConfig creates an Aggregator with a custom stop-word list and
// thresholds. An empty stop-word list keeps the defaults.
func NewWithConfig(stopWords []string, thresholds Thresholds) *Aggregator {
	set := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = true
	}
	return &Aggregator{stopWords: set, thresholds: thresholds}
}

// Aggregate computes the full analytics summary. It returns nil for an
// empty article set; callers must treat that as "no analytics
// available", not as a zero-filled summary.
func (g *Aggregator) Aggregate(articles []models.AnnotatedArticle, now time.Time) *models.AnalyticsSummary {
	if len(articles) == 0 {
		return nil
	}

	return &models.AnalyticsSummary{
		Categories:        g.categoryCounts(articles),
		SentimentCounts:   g.sentimentCounts(articles),
		TimelineData:      g.timeline(articles),
		TrendingKeywords:  g.trendingKeywords(articles),
		KeyInsights:       g.keyInsights(articles),
		SignificantEvents: g.significantEvents(articles),
		CrisisLevel:       g.AssessCrisisLevel(articles, now),
		LastUpdated:       now,
	}
}

// categoryCounts covers all five categories, zero-filled when absent.
func (g *Aggregator) categoryCounts(articles []models.AnnotatedArticle) map[models.Category]int {
	counts := make(map[models.Category]int, 5)
	for _, c := range models.Categories() {
		counts[c] = 0
	}
	for _, a := range articles {
		counts[a.Category]++
	}
	return counts
}

func (g *Aggregator) sentimentCounts(articles []models.AnnotatedArticle) models.SentimentCounts {
	var counts models.SentimentCounts
	for _, a := range articles {
		switch {
		case a.SentimentScore > 0:
			counts.Positive++
		case a.SentimentScore < 0:
			counts.Negative++
		default:
			counts.Neutral++
		}
	}
	return counts
}

// timeline groups articles by the UTC calendar date of publication,
// ascending by date string.
func (g *Aggregator) timeline(articles []models.AnnotatedArticle) []models.TimelinePoint {
	byDate := make(map[string]*models.TimelinePoint)
	for _, a := range articles {
		date := a.PublishedAt.UTC().Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = &models.TimelinePoint{Date: date}
			byDate[date] = point
		}
		point.Count++
		switch a.Category {
		case models.CategoryMilitary:
			point.Military++
		case models.CategoryDiplomatic:
			point.Diplomatic++
		case models.CategoryEconomic:
			point.Economic++
		case models.CategorySocial:
			point.Social++
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	timeline := make([]models.TimelinePoint, 0, len(dates))
	for _, date := range dates {
		timeline = append(timeline, *byDate[date])
	}
	return timeline
}

// trendingKeywords counts non-trivial tokens across all article text
// and keeps the top 10 by frequency. Ties resolve to the token first
// encountered in the input sequence.
func (g *Aggregator) trendingKeywords(articles []models.AnnotatedArticle) []models.KeywordCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	next := 0

	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		for _, token := range strings.Fields(text) {
			token = strings.Trim(token, ".,;:!?\"'()[]{}”“‘’-")
			if len(token) <= 3 || g.isStopWord(token) || isNumeric(token) {
				continue
			}
			if _, seen := counts[token]; !seen {
				firstSeen[token] = next
				next++
			}
			counts[token]++
		}
	}

	keywords := make([]models.KeywordCount, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, models.KeywordCount{Word: word, Count: count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return firstSeen[keywords[i].Word] < firstSeen[keywords[j].Word]
	})

	if len(keywords) > trendingKeywordLimit {
		keywords = keywords[:trendingKeywordLimit]
	}
	return keywords
}

func (g *Aggregator) isStopWord(token string) bool {
	if len(g.stopWords) == 0 {
		return fallbackStopWords[token]
	}
	return g.stopWords[token]
}

func isNumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(token) > 0
}

// keyInsights finds the extremum articles. Ties keep the article seen
// first in the input sequence.
func (g *Aggregator) keyInsights(articles []models.AnnotatedArticle) models.KeyInsights {
	recent, negative, positive := 0, 0, 0
	for i, a := range articles {
		if a.PublishedAt.After(articles[recent].PublishedAt) {
			recent = i
		}
		if a.SentimentScore < articles[negative].SentimentScore {
			negative = i
		}
		if a.SentimentScore > articles[positive].SentimentScore {
			positive = i
		}
	}

	return models.KeyInsights{
		MostRecent:   insightOf(articles[recent]),
		MostNegative: insightOf(articles[negative]),
		MostPositive: insightOf(articles[positive]),
	}
}

func insightOf(a models.AnnotatedArticle) *models.InsightArticle {
	return &models.InsightArticle{
		Title:     a.Title,
		Date:      a.PublishedAt,
		Sentiment: a.SentimentScore,
		Category:  a.Category,
		Source:    a.Source.Name,
	}
}

// significantEvents filters articles past the severity thresholds. The
// list is uncapped; display truncation belongs to the consumer.
func (g *Aggregator) significantEvents(articles []models.AnnotatedArticle) []models.SignificantEvent {
	events := []models.SignificantEvent{}
	for _, a := range articles {
		military := a.Category == models.CategoryMilitary && a.SentimentScore < g.thresholds.SignificantMilitary
		diplomatic := a.Category == models.CategoryDiplomatic && a.SentimentScore < g.thresholds.SignificantDiplomatic
		if !military && !diplomatic {
			continue
		}
		events = append(events, models.SignificantEvent{
			Title:     a.Title,
			Date:      a.PublishedAt,
			Category:  a.Category,
			Sentiment: a.SentimentScore,
			Source:    a.Source.Name,
			URL:       a.URL,
		})
	}
	return events
}

// fallbackStopWords backs an Aggregator built without an explicit
// list. Tokens of length <= 3 are filtered before this set is
// consulted, so only longer stop words appear here.
var fallbackStopWords = func() map[string]bool {
	words := []string{
		"about", "above", "after", "again", "against", "also", "among",
		"because", "been", "before", "being", "below", "between", "both",
		"could", "does", "doing", "down", "during", "each", "from",
		"further", "have", "having", "here", "into", "itself", "just",
		"more", "most", "once", "only", "other", "ours", "over", "same",
		"should", "some", "such", "than", "that", "the", "their", "theirs",
		"them", "then", "there", "these", "they", "this", "those",
		"through", "under", "until", "very", "were", "what", "when",
		"where", "which", "while", "whom", "will", "with", "would",
		"your", "yours",
		// domain noise: the fixed query terms dominate every article
		"india", "indian", "pakistan", "pakistani", "says", "said",
		"news", "amid",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}()
