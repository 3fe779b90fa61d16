// Package config contains the knobs and defaults used to configure
// skylark when running as a standalone server.
package config

import (
	"fmt"
	"time"
)

const (
	DefaultHTTPAddr = "0.0.0.0:8080"

	DefaultDatastoreEngine          = "memory"
	DefaultDatastoreMaxOpenConns    = 30
	DefaultDatastoreMaxIdleConns    = 10
	DefaultDatastoreConnMaxIdleTime = 0
	DefaultDatastoreConnMaxLifetime = 0

	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"

	DefaultTraceSamplingRatio = 0.2
)

// DatastoreConfig holds datastore-specific settings.
type DatastoreConfig struct {
	// Engine is the datastore engine to use (e.g. 'memory', 'sqlite', 'postgres').
	Engine string
	URI    string

	// MaxOpenConns is the maximum number of open connections to the database.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of connections in the idle pool.
	MaxIdleConns int

	// ConnMaxIdleTime is the maximum amount of time a connection may be idle.
	ConnMaxIdleTime time.Duration

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	ConnMaxLifetime time.Duration

	// Metrics enables export of database/sql pool metrics.
	Metrics bool
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Addr string

	CORSAllowedOrigins []string
}

// LogConfig holds the logger settings.
type LogConfig struct {
	// Format is one of 'text' or 'json'.
	Format string

	// Level is one of 'none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal'.
	Level string
}

// TraceConfig holds the tracing settings.
type TraceConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRatio  float64
}

// MetricConfig holds the Prometheus exposition settings.
type MetricConfig struct {
	Enabled bool
	Addr    string
}

type Config struct {
	Datastore DatastoreConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Trace     TraceConfig
	Metrics   MetricConfig
}

// DefaultConfig returns the config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Datastore: DatastoreConfig{
			Engine:          DefaultDatastoreEngine,
			MaxOpenConns:    DefaultDatastoreMaxOpenConns,
			MaxIdleConns:    DefaultDatastoreMaxIdleConns,
			ConnMaxIdleTime: DefaultDatastoreConnMaxIdleTime,
			ConnMaxLifetime: DefaultDatastoreConnMaxLifetime,
		},
		HTTP: HTTPConfig{
			Addr:               DefaultHTTPAddr,
			CORSAllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
		Trace: TraceConfig{
			Enabled:     false,
			SampleRatio: DefaultTraceSamplingRatio,
		},
		Metrics: MetricConfig{
			Enabled: true,
			Addr:    "0.0.0.0:2112",
		},
	}
}

// Verify checks the config for inconsistent or unsupported values.
func (cfg *Config) Verify() error {
	switch cfg.Datastore.Engine {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("config 'datastore.engine' must be one of ['memory', 'sqlite', 'postgres']")
	}

	if cfg.Datastore.Engine != "memory" && cfg.Datastore.URI == "" {
		return fmt.Errorf("config 'datastore.uri' is required for engine '%s'", cfg.Datastore.Engine)
	}

	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("config 'log.format' must be one of ['text', 'json']")
	}

	switch cfg.Log.Level {
	case "none", "debug", "info", "warn", "error", "panic", "fatal":
	default:
		return fmt.Errorf(
			"config 'log.level' must be one of ['none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal']",
		)
	}

	if cfg.Trace.Enabled {
		if cfg.Trace.OTLPEndpoint == "" {
			return fmt.Errorf("config 'trace.otlpEndpoint' must be set when tracing is enabled")
		}
		if cfg.Trace.SampleRatio < 0 || cfg.Trace.SampleRatio > 1 {
			return fmt.Errorf("config 'trace.sampleRatio' must be in [0, 1]")
		}
	}

	return nil
}
