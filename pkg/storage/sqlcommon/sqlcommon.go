// Package sqlcommon holds the configuration and query layer shared by
// the SQL-backed datastores.
package sqlcommon

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/skylark-social/skylark/pkg/logger"
)

// Config defines the tunables for a SQL datastore connection. The pool
// must absorb the hydration stage's fan-out: several concurrent
// sub-queries per in-flight request.
type Config struct {
	Logger logger.Logger

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	ExportMetrics bool
}

// DatastoreOption configures a Config.
type DatastoreOption func(*Config)

// WithLogger sets the logger used by the datastore.
func WithLogger(l logger.Logger) DatastoreOption {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// WithMaxOpenConns caps the number of open connections in the pool.
func WithMaxOpenConns(c int) DatastoreOption {
	return func(cfg *Config) {
		cfg.MaxOpenConns = c
	}
}

// WithMaxIdleConns caps the number of idle connections in the pool.
func WithMaxIdleConns(c int) DatastoreOption {
	return func(cfg *Config) {
		cfg.MaxIdleConns = c
	}
}

// WithConnMaxIdleTime sets the maximum idle time for a connection.
func WithConnMaxIdleTime(d time.Duration) DatastoreOption {
	return func(cfg *Config) {
		cfg.ConnMaxIdleTime = d
	}
}

// WithConnMaxLifetime sets the maximum lifetime for a connection.
func WithConnMaxLifetime(d time.Duration) DatastoreOption {
	return func(cfg *Config) {
		cfg.ConnMaxLifetime = d
	}
}

// WithMetrics toggles registration of a DBStats collector.
func WithMetrics(enabled bool) DatastoreOption {
	return func(cfg *Config) {
		cfg.ExportMetrics = enabled
	}
}

// NewConfig creates a Config with defaults and applies the given options.
func NewConfig(opts ...DatastoreOption) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoopLogger()
	}
	return cfg
}

// ApplyPoolSettings copies the pool tunables onto an opened handle.
func (cfg *Config) ApplyPoolSettings(db *sql.DB) {
	if cfg.MaxOpenConns != 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime != 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime != 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// ErrorHandler translates driver-level errors into the storage package
// sentinel errors. Each backend supplies its own.
type ErrorHandler func(err error) error

// WaitReady polls the datastore until it responds or the context
// expires, backing off exponentially between attempts.
func WaitReady(ctx context.Context, ds interface{ IsReady(context.Context) error }) error {
	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	return backoff.Retry(func() error {
		return ds.IsReady(ctx)
	}, policy)
}
