package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/morikuni/failure/v2"

	"github.com/five82/sitelist/internal/blob"
	"github.com/five82/sitelist/internal/fetch"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvEndpoint, "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("Endpoint = %q, want %q", cfg.Endpoint, DefaultEndpoint)
	}
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.Cache.Driver != "fs" || cfg.Cache.Key != fetch.DefaultCacheKey {
		t.Fatalf("Cache = %+v, want fs driver with default key", cfg.Cache)
	}
	wantDir, err := expandPath(defaultCacheDir)
	if err != nil {
		t.Fatalf("expandPath(defaultCacheDir) returned error: %v", err)
	}
	if cfg.Cache.Dir != wantDir {
		t.Fatalf("Cache.Dir = %q, want %q", cfg.Cache.Dir, wantDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvEndpoint, "")

	path := writeConfig(t, `
endpoint = "  https://example.com/sites.json  "
timeout = " 3s "
stable_ids = true

[cache]
driver = " SQLite "
dir = "  ~/cache  "
key = "sites.json"
redis_prefix = "x:"

[log]
level = " DEBUG "
file = "~/logs/sitelist.log"
metrics_file = "~/metrics/sitelist.prom"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := Config{
		Endpoint:  "https://example.com/sites.json",
		Timeout:   3 * time.Second,
		StableIDs: true,
		Cache: CacheConfig{
			Driver:      "sqlite",
			Dir:         filepath.Join(home, "cache"),
			Key:         "sites.json",
			RedisPrefix: "x:",
			S3Region:    defaultS3Region,
		},
		Log: LogConfig{
			Level:       "debug",
			File:        filepath.Join(home, "logs/sitelist.log"),
			MetricsFile: filepath.Join(home, "metrics/sitelist.prom"),
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "")

	path := writeConfig(t, `
endpoint = "   "
timeout = ""

[cache]
driver = ""
key = "  "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverridesEndpoint(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, " http://127.0.0.1:9000/list.json ")

	path := writeConfig(t, `endpoint = "https://example.com/sites.json"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != "http://127.0.0.1:9000/list.json" {
		t.Fatalf("Endpoint = %q, want env override", cfg.Endpoint)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `endpoint = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidTimeoutFails(t *testing.T) {
	path := writeConfig(t, `timeout = "soon"`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("Load error = %v, want timeout parse error", err)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name            string
		mutate          func(*Config)
		invalidEndpoint bool
	}{
		{name: "empty endpoint", mutate: func(c *Config) { c.Endpoint = "" }, invalidEndpoint: true},
		{name: "relative endpoint", mutate: func(c *Config) { c.Endpoint = "sites.json" }, invalidEndpoint: true},
		{name: "ftp endpoint", mutate: func(c *Config) { c.Endpoint = "ftp://example.com/sites.json" }, invalidEndpoint: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }},
		{name: "unknown driver", mutate: func(c *Config) { c.Cache.Driver = "etcd" }},
		{name: "redis without addr", mutate: func(c *Config) { c.Cache.Driver = "redis" }},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Cache.Driver = "s3" }},
		{name: "negative redis db", mutate: func(c *Config) { c.Cache.RedisDB = -1 }},
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "trace" }},
		{name: "empty key", mutate: func(c *Config) { c.Cache.Key = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate returned nil error")
			}
			if got := failure.Is(err, fetch.ErrInvalidEndpoint); got != tt.invalidEndpoint {
				t.Fatalf("Validate error = %v, invalid endpoint = %v, want %v", err, got, tt.invalidEndpoint)
			}
		})
	}
}

func TestValidate_DriversWithRequirements(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	redis := Default()
	redis.Cache.Driver = "redis"
	redis.Cache.RedisAddr = "127.0.0.1:6379"
	if err := redis.Validate(); err != nil {
		t.Fatalf("redis config: %v", err)
	}

	s3 := Default()
	s3.Cache.Driver = "s3"
	s3.Cache.S3Bucket = "sitelist"
	if err := s3.Validate(); err != nil {
		t.Fatalf("s3 config: %v", err)
	}
}

func TestBlobConfig(t *testing.T) {
	cfg := Config{Cache: CacheConfig{
		Driver:            "s3",
		Dir:               "/tmp/cache",
		SQLitePath:        "/tmp/cache/x.db",
		RedisAddr:         "localhost:6379",
		RedisPassword:     "secret",
		RedisDB:           2,
		RedisPrefix:       "p:",
		S3Bucket:          "bucket",
		S3Region:          "eu-west-1",
		S3Endpoint:        "http://minio:9000",
		S3PathStyle:       true,
		S3AccessKeyID:     "AKID",
		S3SecretAccessKey: "SECRET",
	}}

	want := blob.Config{
		Driver:     blob.DriverS3,
		Dir:        "/tmp/cache",
		SQLitePath: "/tmp/cache/x.db",
		Redis:      blob.RedisOptions{Addr: "localhost:6379", Password: "secret", DB: 2, Prefix: "p:"},
		S3: blob.S3Config{
			Bucket:          "bucket",
			Region:          "eu-west-1",
			Endpoint:        "http://minio:9000",
			PathStyle:       true,
			AccessKeyID:     "AKID",
			SecretAccessKey: "SECRET",
		},
	}
	if diff := cmp.Diff(want, cfg.BlobConfig()); diff != "" {
		t.Fatalf("BlobConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenUnset(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/sitelist.log")) {
		t.Fatalf("LogPath = %q, want it to end with /sitelist.log", got)
	}
}
