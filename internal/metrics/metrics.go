package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/newswatchhq/newswatch/internal/models"
)

// Metrics bundles every prometheus collector the pipeline reports to.
// Collectors register against the default registerer; tests swap that
// registerer out to avoid duplicate registration.
type Metrics struct {
	FetchesTotal           prometheus.Counter
	FetchErrorsTotal       prometheus.Counter
	CacheHitsTotal         prometheus.Counter
	CacheMissesTotal       prometheus.Counter
	ArticlesAnnotatedTotal prometheus.Counter
	ArticlesSkippedTotal   prometheus.Counter
	RefreshDuration        prometheus.Histogram
	CrisisLevel            prometheus.Gauge
}

// New registers and returns the service collectors.
func New(namespace string) *Metrics {
	return &Metrics{
		FetchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Upstream news fetch attempts.",
		}),
		FetchErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Upstream news fetches that failed.",
		}),
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Requests served from the response cache.",
		}),
		CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Requests that triggered a pipeline refresh.",
		}),
		ArticlesAnnotatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_annotated_total",
			Help:      "Articles annotated across all refreshes.",
		}),
		ArticlesSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Malformed articles skipped during annotation.",
		}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Wall time of a full fetch-annotate-aggregate refresh.",
			Buckets:   prometheus.DefBuckets,
		}),
		CrisisLevel: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "crisis_level",
			Help:      "Current crisis level (0=normal 1=moderate 2=elevated 3=severe).",
		}),
	}
}

// SetCrisisLevel records the latest assessed level on the gauge.
func (m *Metrics) SetCrisisLevel(level models.CrisisLevel) {
	m.CrisisLevel.Set(float64(level.Rank()))
}
