package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/sitelist/internal/blob"
	"github.com/five82/sitelist/internal/fetch"
)

// Config is the resolved sitelist configuration.
type Config struct {
	Endpoint  string
	Timeout   time.Duration `validate:"gt=0"`
	StableIDs bool
	Cache     CacheConfig
	Log       LogConfig
}

// CacheConfig selects the offline cache backend.
type CacheConfig struct {
	Driver            string `validate:"oneof=fs memory sqlite redis s3"`
	Dir               string `validate:"required"`
	Key               string `validate:"required"`
	SQLitePath        string
	RedisAddr         string `validate:"required_if=Driver redis"`
	RedisPassword     string
	RedisDB           int `validate:"gte=0"`
	RedisPrefix       string
	S3Bucket          string `validate:"required_if=Driver s3"`
	S3Region          string
	S3Endpoint        string
	S3PathStyle       bool
	S3AccessKeyID     string
	S3SecretAccessKey string
}

type LogConfig struct {
	Level       string `validate:"oneof=debug info warn error"`
	File        string
	MetricsFile string
}

const (
	// EnvEndpoint overrides the endpoint from the config file.
	EnvEndpoint = "SITELIST_ENDPOINT"

	DefaultEndpoint = "https://gist.githubusercontent.com/davidjarvis-TE/414edf2b4e878ab7ba1bf6bb1291a89e/raw/7537d5a0a37120e4a7127cc8f65f5265e723ff7b/websites_info.json"

	defaultConfigPath = "~/.config/sitelist/config.toml"
	defaultCacheDir   = "~/.cache/sitelist"
	defaultLogFile    = "~/.local/state/sitelist/sitelist.log"
	defaultTimeout    = 15 * time.Second
	defaultDriver     = "fs"
	defaultLevel      = "info"
	defaultS3Region   = "us-east-1"
)

var validate = validator.New()

type rawConfig struct {
	Endpoint  string `toml:"endpoint"`
	Timeout   string `toml:"timeout"`
	StableIDs bool   `toml:"stable_ids"`
	Cache     struct {
		Driver            string `toml:"driver"`
		Dir               string `toml:"dir"`
		Key               string `toml:"key"`
		SQLitePath        string `toml:"sqlite_path"`
		RedisAddr         string `toml:"redis_addr"`
		RedisPassword     string `toml:"redis_password"`
		RedisDB           int    `toml:"redis_db"`
		RedisPrefix       string `toml:"redis_prefix"`
		S3Bucket          string `toml:"s3_bucket"`
		S3Region          string `toml:"s3_region"`
		S3Endpoint        string `toml:"s3_endpoint"`
		S3PathStyle       bool   `toml:"s3_path_style"`
		S3AccessKeyID     string `toml:"s3_access_key_id"`
		S3SecretAccessKey string `toml:"s3_secret_access_key"`
	} `toml:"cache"`
	Log struct {
		Level       string `toml:"level"`
		File        string `toml:"file"`
		MetricsFile string `toml:"metrics_file"`
	} `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Timeout:  defaultTimeout,
		Cache: CacheConfig{
			Driver:   defaultDriver,
			Dir:      mustExpand(defaultCacheDir),
			Key:      fetch.DefaultCacheKey,
			S3Region: defaultS3Region,
		},
		Log: LogConfig{
			Level: defaultLevel,
			File:  mustExpand(defaultLogFile),
		},
	}
}

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing. SITELIST_ENDPOINT wins over the file.
// Load does not validate; call Validate before use.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timeout: %w", err)
		}
		cfg.Timeout = d
	}
	cfg.StableIDs = raw.StableIDs

	c := raw.Cache
	if v := strings.ToLower(strings.TrimSpace(c.Driver)); v != "" {
		cfg.Cache.Driver = v
	}
	if v := strings.TrimSpace(c.Dir); v != "" {
		cfg.Cache.Dir = mustExpand(v)
	}
	if v := strings.TrimSpace(c.Key); v != "" {
		cfg.Cache.Key = v
	}
	if v := strings.TrimSpace(c.SQLitePath); v != "" {
		cfg.Cache.SQLitePath = mustExpand(v)
	}
	cfg.Cache.RedisAddr = strings.TrimSpace(c.RedisAddr)
	cfg.Cache.RedisPassword = c.RedisPassword
	cfg.Cache.RedisDB = c.RedisDB
	cfg.Cache.RedisPrefix = strings.TrimSpace(c.RedisPrefix)
	cfg.Cache.S3Bucket = strings.TrimSpace(c.S3Bucket)
	if v := strings.TrimSpace(c.S3Region); v != "" {
		cfg.Cache.S3Region = v
	}
	cfg.Cache.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	cfg.Cache.S3PathStyle = c.S3PathStyle
	cfg.Cache.S3AccessKeyID = strings.TrimSpace(c.S3AccessKeyID)
	cfg.Cache.S3SecretAccessKey = strings.TrimSpace(c.S3SecretAccessKey)

	if v := strings.ToLower(strings.TrimSpace(raw.Log.Level)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(raw.Log.File); v != "" {
		cfg.Log.File = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Log.MetricsFile); v != "" {
		cfg.Log.MetricsFile = mustExpand(v)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		cfg.Endpoint = v
	}
}

// Validate reports the first configuration defect. A malformed endpoint is
// returned as a fetch.ErrInvalidEndpoint failure.
func (c Config) Validate() error {
	if _, err := fetch.ParseEndpoint(c.Endpoint); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// BlobConfig maps the cache section onto the blob store configuration.
func (c Config) BlobConfig() blob.Config {
	return blob.Config{
		Driver:     blob.Driver(c.Cache.Driver),
		Dir:        c.Cache.Dir,
		SQLitePath: c.Cache.SQLitePath,
		Redis: blob.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
		S3: blob.S3Config{
			Bucket:          c.Cache.S3Bucket,
			Region:          c.Cache.S3Region,
			Endpoint:        c.Cache.S3Endpoint,
			PathStyle:       c.Cache.S3PathStyle,
			AccessKeyID:     c.Cache.S3AccessKeyID,
			SecretAccessKey: c.Cache.S3SecretAccessKey,
		},
	}
}

// LogPath returns the log file path, defaulting when unset.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.Log.File) == "" {
		return mustExpand(defaultLogFile)
	}
	return c.Log.File
}

// DefaultPath returns the expanded default config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
