// Package blob provides the small key-value byte store used to keep the last
// good payload for offline use, with interchangeable backends.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Driver identifies a concrete backend.
type Driver string

const (
	// DriverFilesystem stores each key as a file under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverMemory keeps values in process memory.
	DriverMemory Driver = "memory"
	// DriverSQLite stores values in a single SQLite table.
	DriverSQLite Driver = "sqlite"
	// DriverRedis stores values as Redis strings.
	DriverRedis Driver = "redis"
	// DriverS3 stores values as objects in an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("blob: not found")

// Store persists opaque byte payloads by key. Put overwrites any previous
// value atomically: readers see either the old or the new payload.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	Driver     Driver
	Dir        string
	SQLitePath string
	Redis      RedisOptions
	S3         S3Config
}

// Open builds the Store selected by cfg.Driver. An empty driver means fs.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		path := cfg.SQLitePath
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(cfg.Dir, "cache.db")
		}
		return NewSQLite(path)
	case DriverRedis:
		return NewRedis(cfg.Redis)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// sanitizeKey rejects keys that are empty or could escape a root directory.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q: contains '..'", key)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid key %q: absolute", key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
