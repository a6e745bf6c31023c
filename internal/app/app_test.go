package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/morikuni/failure/v2"

	"github.com/five82/sitelist/internal/config"
	"github.com/five82/sitelist/internal/fetch"
	"github.com/five82/sitelist/internal/website"
)

const payload = `[
  {"name": "YouTube", "url": "https://www.youtube.com", "icon": "https://example.com/yt.png", "description": "Video platform"},
  {"name": "Google", "url": "https://www.google.com", "icon": "https://example.com/g.png", "description": "Search engine"},
  {"name": "amazon", "url": "https://www.amazon.co.uk", "icon": "https://example.com/a.png", "description": "Shopping"}
]`

// source serves payload until failing is set.
type source struct {
	failing atomic.Bool
	hits    atomic.Int32
}

func (s *source) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	s.hits.Add(1)
	if s.failing.Load() {
		http.Error(w, "unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(payload))
}

func testOptions(t *testing.T, endpoint string) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvEndpoint, "")

	metricsFile := filepath.Join(dir, "metrics.prom")
	body := fmt.Sprintf(`endpoint = %q
timeout = "2s"

[cache]
driver = "fs"
dir = %q

[log]
metrics_file = %q
`, endpoint, filepath.Join(dir, "cache"), metricsFile)

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return Options{ConfigPath: path, PrefsPath: filepath.Join(dir, "prefs.toml")}, metricsFile
}

func decodeNames(t *testing.T, data []byte) []string {
	t.Helper()
	sites, err := website.Decode(bytes.TrimSpace(data), nil)
	if err != nil {
		t.Fatalf("Decode output: %v\n%s", err, data)
	}
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		names = append(names, s.Name)
	}
	return names
}

func TestList_PlainSorted(t *testing.T) {
	srv := httptest.NewServer(&source{})
	defer srv.Close()
	opts, metricsFile := testOptions(t, srv.URL)

	var out bytes.Buffer
	if err := List(context.Background(), opts, ListOptions{Sort: true}, &out); err != nil {
		t.Fatalf("List: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3:\n%s", len(lines), out.String())
	}
	var first []string
	for _, line := range lines {
		first = append(first, strings.Fields(line)[0])
	}
	if diff := cmp.Diff([]string{"NAME", "amazon", "Google", "YouTube"}, first); diff != "" {
		t.Fatalf("row order mismatch (-want +got):\n%s", diff)
	}

	metricsText, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	if !strings.Contains(string(metricsText), `sitelist_fetch_total{outcome="network"} 1`) {
		t.Fatalf("metrics missing network fetch:\n%s", metricsText)
	}
}

func TestList_SearchJSON(t *testing.T) {
	srv := httptest.NewServer(&source{})
	defer srv.Close()
	opts, _ := testOptions(t, srv.URL)

	var out bytes.Buffer
	if err := List(context.Background(), opts, ListOptions{Search: "oo", JSON: true}, &out); err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"Google"}, decodeNames(t, out.Bytes())); diff != "" {
		t.Fatalf("search result mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out.String(), `"id"`) {
		t.Fatalf("JSON output leaked ids:\n%s", out.String())
	}
}

func TestList_FallsBackToOfflineCopy(t *testing.T) {
	src := &source{}
	srv := httptest.NewServer(src)
	defer srv.Close()
	opts, _ := testOptions(t, srv.URL)

	if err := List(context.Background(), opts, ListOptions{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("first List: %v", err)
	}

	src.failing.Store(true)
	var out bytes.Buffer
	if err := List(context.Background(), opts, ListOptions{JSON: true}, &out); err != nil {
		t.Fatalf("List with failing source: %v", err)
	}
	if diff := cmp.Diff([]string{"YouTube", "Google", "amazon"}, decodeNames(t, out.Bytes())); diff != "" {
		t.Fatalf("offline result mismatch (-want +got):\n%s", diff)
	}
	if got := src.hits.Load(); got != 2 {
		t.Fatalf("source hits = %d, want exactly one attempt per List", got)
	}
}

func TestList_NoOfflineCopy(t *testing.T) {
	src := &source{}
	src.failing.Store(true)
	srv := httptest.NewServer(src)
	defer srv.Close()
	opts, _ := testOptions(t, srv.URL)

	var out bytes.Buffer
	err := List(context.Background(), opts, ListOptions{}, &out)
	if !failure.Is(err, fetch.ErrCacheUnavailable) {
		t.Fatalf("err = %v, want ErrCacheUnavailable", err)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output on failure:\n%s", out.String())
	}
}

func TestList_InvalidEndpoint(t *testing.T) {
	opts, _ := testOptions(t, "ftp://example.com/list.json")

	err := List(context.Background(), opts, ListOptions{}, &bytes.Buffer{})
	if !failure.Is(err, fetch.ErrInvalidEndpoint) {
		t.Fatalf("err = %v, want ErrInvalidEndpoint", err)
	}
}

func TestCacheCommands(t *testing.T) {
	srv := httptest.NewServer(&source{})
	defer srv.Close()
	opts, _ := testOptions(t, srv.URL)
	ctx := context.Background()

	var out bytes.Buffer
	if err := ShowCache(ctx, opts, &out); err != nil {
		t.Fatalf("ShowCache: %v", err)
	}
	if !strings.Contains(out.String(), "status:   empty") {
		t.Fatalf("ShowCache before fetch:\n%s", out.String())
	}

	if err := List(ctx, opts, ListOptions{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	out.Reset()
	if err := ShowCache(ctx, opts, &out); err != nil {
		t.Fatalf("ShowCache: %v", err)
	}
	for _, want := range []string{"driver:   fs", "key:      websites_info.json", "status:   ok", "websites: 3"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("ShowCache output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := ClearCache(ctx, opts, &out); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if !strings.Contains(out.String(), "Offline copy removed.") {
		t.Fatalf("ClearCache output:\n%s", out.String())
	}

	out.Reset()
	if err := ClearCache(ctx, opts, &out); err != nil {
		t.Fatalf("second ClearCache: %v", err)
	}
	if !strings.Contains(out.String(), "No offline copy to remove.") {
		t.Fatalf("second ClearCache output:\n%s", out.String())
	}
}

func TestShowCache_Corrupt(t *testing.T) {
	opts, _ := testOptions(t, "https://example.com/list.json")
	cacheFile := filepath.Join(os.Getenv("HOME"), "cache", fetch.DefaultCacheKey)
	if err := os.MkdirAll(filepath.Dir(cacheFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cacheFile, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := ShowCache(context.Background(), opts, &out); err != nil {
		t.Fatalf("ShowCache: %v", err)
	}
	if !strings.Contains(out.String(), "status:   corrupt") {
		t.Fatalf("ShowCache output:\n%s", out.String())
	}
}

func TestVersion(t *testing.T) {
	if v := Version(); !strings.HasPrefix(v, "dev") {
		t.Fatalf("Version() = %q, want dev prefix", v)
	}

	old := version
	version = "1.2.3"
	t.Cleanup(func() { version = old })
	if v := Version(); v != "1.2.3" {
		t.Fatalf("Version() = %q, want 1.2.3", v)
	}
}
