// Package metrics exports Prometheus instrumentation for the catalog cache.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mozilla-ai/mcpcat/internal/cache"
)

const namespace = "mcpcat"

const (
	lookupHit   = "hit"
	lookupStale = "stale"
	lookupMiss  = "miss"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Ensure CacheMetrics can observe the cache.
var _ cache.Observer = (*CacheMetrics)(nil)

// CacheMetrics holds the Prometheus collectors fed by cache events.
// A nil *CacheMetrics is a valid no-op observer.
type CacheMetrics struct {
	lookups   *prometheus.CounterVec
	fetches   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	discarded *prometheus.CounterVec
	evictions *prometheus.CounterVec
}

// NewCacheMetrics creates the cache collectors and registers them with reg.
// If reg is nil, it returns nil (no-op metrics).
func NewCacheMetrics(reg prometheus.Registerer) (*CacheMetrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &CacheMetrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by query kind and result (hit, stale, miss).",
		}, []string{"kind", "result"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Catalog fetches applied to the cache by query kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of catalog fetches in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "discarded_total",
			Help:      "Fetch results dropped because a newer fetch superseded them.",
		}, []string{"kind"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Unused cache entries removed.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.lookups, m.fetches, m.duration, m.discarded, m.evictions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register cache metrics: %w", err)
		}
	}

	return m, nil
}

func (m *CacheMetrics) Hit(kind cache.Kind) {
	m.lookup(kind, lookupHit)
}

func (m *CacheMetrics) StaleHit(kind cache.Kind) {
	m.lookup(kind, lookupStale)
}

func (m *CacheMetrics) Miss(kind cache.Kind) {
	m.lookup(kind, lookupMiss)
}

func (m *CacheMetrics) lookup(kind cache.Kind, result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(string(kind), result).Inc()
}

func (m *CacheMetrics) Fetched(kind cache.Kind, took time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}
	m.fetches.WithLabelValues(string(kind), outcome).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(took.Seconds())
}

func (m *CacheMetrics) Discarded(kind cache.Kind) {
	if m == nil {
		return
	}
	m.discarded.WithLabelValues(string(kind)).Inc()
}

func (m *CacheMetrics) Evicted(kind cache.Kind) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(string(kind)).Inc()
}
