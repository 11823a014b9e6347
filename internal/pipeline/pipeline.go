package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/newswatchhq/newswatch/internal/analytics"
	"github.com/newswatchhq/newswatch/internal/analyzer"
	"github.com/newswatchhq/newswatch/internal/metrics"
	"github.com/newswatchhq/newswatch/internal/models"
)

// Source is the upstream article provider. gnews.Client satisfies it;
// tests substitute a stub.
type Source interface {
	Search(ctx context.Context, query string, max int) ([]models.RawArticle, error)
}

// Pipeline runs one complete refresh: fetch, annotate, aggregate. It is
// the single refresh path shared by cache misses, forced refreshes and
// the background queue.
type Pipeline struct {
	source      Source
	annotator   *analyzer.Annotator
	aggregator  *analytics.Aggregator
	query       string
	maxArticles int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// New wires a pipeline. metrics may be nil (tests).
func New(source Source, annotator *analyzer.Annotator, aggregator *analytics.Aggregator, query string, maxArticles int, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		source:      source,
		annotator:   annotator,
		aggregator:  aggregator,
		query:       query,
		maxArticles: maxArticles,
		metrics:     m,
		logger:      slog.Default(),
	}
}

// Refresh fetches the current article set and derives a fresh snapshot.
// A fetch failure propagates untouched so the cache can keep serving
// the previous snapshot.
func (p *Pipeline) Refresh(ctx context.Context, now time.Time) (*models.Snapshot, error) {
	ctx, span := otel.Tracer("newswatch").Start(ctx, "pipeline.refresh")
	defer span.End()

	start := time.Now()
	if p.metrics != nil {
		p.metrics.FetchesTotal.Inc()
	}

	raw, err := p.source.Search(ctx, p.query, p.maxArticles)
	if err != nil {
		if p.metrics != nil {
			p.metrics.FetchErrorsTotal.Inc()
		}
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	annotated, skipped := p.annotator.Annotate(raw)
	summary := p.aggregator.Aggregate(annotated, now)

	span.SetAttributes(
		attribute.Int("articles.fetched", len(raw)),
		attribute.Int("articles.annotated", len(annotated)),
		attribute.Int("articles.skipped", skipped),
	)

	if p.metrics != nil {
		p.metrics.ArticlesAnnotatedTotal.Add(float64(len(annotated)))
		p.metrics.ArticlesSkippedTotal.Add(float64(skipped))
		p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		if summary != nil {
			p.metrics.SetCrisisLevel(summary.CrisisLevel)
		}
	}

	p.logger.Info("pipeline refresh complete",
		"fetched", len(raw),
		"annotated", len(annotated),
		"skipped", skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &models.Snapshot{
		Articles:  annotated,
		Analytics: summary,
		Skipped:   skipped,
		FetchedAt: now,
	}, nil
}
