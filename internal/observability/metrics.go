package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the assistant pipeline, registered on the
// default registry and served at /metrics.
var (
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gabo_assistant_turns_total",
		Help: "Assistant turns handled, by intent and answer source.",
	}, []string{"intent", "source"})

	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gabo_assistant_turn_duration_seconds",
		Help:    "End-to-end latency of assistant turns.",
		Buckets: prometheus.DefBuckets,
	})

	FuzzySearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabo_catalog_fuzzy_searches_total",
		Help: "Catalog searches that fell through to the fuzzy stage.",
	})

	LowConfidenceRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabo_catalog_low_confidence_rejections_total",
		Help: "Fuzzy matches discarded at the confidence gate.",
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabo_answer_cache_hits_total",
		Help: "Assistant answers served from the answer cache.",
	})

	StockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabo_stock_alerts_total",
		Help: "Low-stock alerts emitted after dedup.",
	})
)
