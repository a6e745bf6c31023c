package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counts(t *testing.T) {
	m := New()
	m.ObserveFetch(OutcomeNetwork, 10*time.Millisecond)
	m.ObserveFetch(OutcomeNetwork, 20*time.Millisecond)
	m.ObserveFetch(OutcomeCache, time.Millisecond)
	m.ObserveFallback("status")
	m.CacheWriteFailed()

	if got := testutil.ToFloat64(m.fetches.WithLabelValues(OutcomeNetwork)); got != 2 {
		t.Fatalf("network fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.fetches.WithLabelValues(OutcomeCache)); got != 1 {
		t.Fatalf("cache fetches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("status")); got != 1 {
		t.Fatalf("status fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cacheWriteFailures); got != 1 {
		t.Fatalf("cache write failures = %v, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch(OutcomeNetwork, time.Second)
	m.ObserveFallback("transport")
	m.CacheWriteFailed()
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("WriteTextfile on nil returned error: %v", err)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveFetch(OutcomeCorrupt, time.Millisecond)

	path := filepath.Join(t.TempDir(), "metrics", "sitelist.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if !strings.Contains(string(data), `sitelist_fetch_total{outcome="corrupt"} 1`) {
		t.Fatalf("textfile missing corrupt counter:\n%s", data)
	}
}
