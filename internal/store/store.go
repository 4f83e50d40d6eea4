// Package store provides the key-value backends snapshots are kept in.
//
// All backends hold string values under string keys and report a missing key
// with ErrNotFound. The file and memory backends can enforce a byte quota,
// failing writes with ErrQuotaExceeded the way browser local storage does.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Errors returned by stores.
var (
	ErrNotFound       = errors.New("store: key not found")
	ErrQuotaExceeded  = errors.New("store: quota exceeded")
	ErrClosed         = errors.New("store: closed")
	ErrUnknownBackend = errors.New("store: unknown backend")
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Timestamped is implemented by backends that record when a key was last
// written. A missing key returns ErrNotFound.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// MaxBytes caps the total stored bytes for memory and file. Zero means
	// unlimited.
	MaxBytes int64

	// Dir is the file backend directory.
	Dir string

	// Path is the sqlite database file.
	Path string

	Redis RedisConfig
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Open builds the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(cfg.MaxBytes), nil
	case BackendFile, "":
		return NewFile(cfg.Dir, cfg.MaxBytes)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case BackendRedis:
		s := NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, WithPrefix(cfg.Redis.Prefix))
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Describe returns a short human-readable location for cfg.
func Describe(cfg Config) string {
	switch cfg.Backend {
	case BackendMemory:
		return "memory"
	case BackendSQLite:
		return "sqlite:" + cfg.Path
	case BackendRedis:
		return "redis://" + cfg.Redis.Addr
	default:
		return "file:" + cfg.Dir
	}
}
