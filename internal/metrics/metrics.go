// Package metrics counts fetch outcomes on a private Prometheus registry. The
// registry is exported as a textfile on exit for node_exporter style scraping.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for fetch counts.
const (
	OutcomeNetwork         = "network"
	OutcomeCache           = "cache"
	OutcomeUnavailable     = "unavailable"
	OutcomeCorrupt         = "corrupt"
	OutcomeInvalidEndpoint = "invalid_endpoint"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	fetches            *prometheus.CounterVec
	fallbacks          *prometheus.CounterVec
	cacheWriteFailures prometheus.Counter
	fetchDuration      prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitelist_fetch_total",
			Help: "Fetch attempts by final outcome.",
		}, []string{"outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitelist_fallback_total",
			Help: "Fallbacks to the offline cache by first-stage failure reason.",
		}, []string{"reason"}),
		cacheWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitelist_cache_write_failures_total",
			Help: "Failed best-effort writes of a fresh payload to the cache.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitelist_fetch_duration_seconds",
			Help:    "Wall time of a fetch including any fallback.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.fetches, m.fallbacks, m.cacheWriteFailures, m.fetchDuration)
	return m
}

// ObserveFetch records one completed fetch.
func (m *Metrics) ObserveFetch(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(elapsed.Seconds())
}

// ObserveFallback records why the network result was abandoned.
func (m *Metrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

// CacheWriteFailed records a failed write-through.
func (m *Metrics) CacheWriteFailed() {
	if m == nil {
		return
	}
	m.cacheWriteFailures.Inc()
}

// WriteTextfile writes the registry in text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
