// Package metrics defines and registers the custom Prometheus metrics of the
// pricing API. It is the single source of truth for metric names, labels and
// help strings. HTTP request metrics come from echoprometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

const namespace = "pricing"

// ── Query metrics ─────────────────────────────────────────────────────────────

// QueryCacheTotal counts price query cache lookups.
// Label:
//   - result: "hit" or "miss"
var QueryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_cache_total",
		Help:      "Total number of price query cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// QueryDuration measures how long an uncached price query takes against the store.
var QueryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of uncached price queries, count and page fetch included.",
		Buckets:   prometheus.DefBuckets,
	},
)

// QueryCacheEvictedTotal counts entries removed by the periodic cache sweep.
var QueryCacheEvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_cache_evicted_total",
		Help:      "Total number of expired query cache entries removed by the sweeper.",
	},
)

// ── Write metrics ─────────────────────────────────────────────────────────────

// ConflictsTotal counts writes rejected because they overlap a current price.
var ConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conflicts_total",
		Help:      "Total number of price writes rejected by the conflict check.",
	},
)

// PricesWrittenTotal counts successful price writes.
// Label:
//   - operation: "create", "update", "delete" or "import"
var PricesWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prices_written_total",
		Help:      "Total number of price writes, by operation.",
	},
	[]string{"operation"},
)

// RegisterHistoryQueue exposes the number of history entries waiting to be
// persisted. Call it once at startup.
func RegisterHistoryQueue(pending func() int) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_queue_depth",
			Help:      "Current number of price history entries pending in the dispatcher.",
		},
		func() float64 { return float64(pending()) },
	)
}

// Recorder feeds the core's signals into the metrics above.
type Recorder struct{}

func (Recorder) QueryCache(hit bool) {
	if hit {
		QueryCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	QueryCacheTotal.WithLabelValues("miss").Inc()
}

func (Recorder) QueryDuration(d time.Duration) {
	QueryDuration.Observe(d.Seconds())
}

func (Recorder) ConflictDetected() {
	ConflictsTotal.Inc()
}

func (Recorder) PriceWritten(op domain.OperationType) {
	PricesWrittenTotal.WithLabelValues(string(op)).Inc()
}

// CacheSwept is passed to the cache janitor.
func CacheSwept(removed int) {
	QueryCacheEvictedTotal.Add(float64(removed))
}
