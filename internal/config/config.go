// Package config loads the ambient settings of the reorder tools from
// environment variables, applying defaults and validating everything on
// startup so misconfiguration fails fast.
//
// The column orders and file paths of a run are not configured here; they
// are fixed in the command that performs the run.
package config

import (
	"strconv"
	"time"
)

// Config holds all ambient configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Reorder  ReorderConfig
	Logging  LoggingConfig
}

// ServerConfig holds settings for the preview HTTP server.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds the optional run-history database settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; run history is disabled when empty.
	// Supports both DATABASE_URL and DB_URL.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of pooled connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections kept open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// ConnectTimeout bounds the initial connect and ping (default: 5s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"5s"`
}

// Enabled reports whether a run-history database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ReorderConfig holds limits applied to every run.
type ReorderConfig struct {
	// Timeout is the maximum duration of one run (default: 1m)
	Timeout time.Duration `env:"REORDER_TIMEOUT" default:"1m"`

	// MaxBodySize caps the table size accepted by the preview server (default: 10MB)
	MaxBodySize int64 `env:"REORDER_MAX_BODY_SIZE" default:"10485760"`

	// HistoryLimit is how many runs GET /api/runs returns (default: 50)
	HistoryLimit int `env:"REORDER_HISTORY_LIMIT" default:"50"`

	// MaxConcurrent limits parallel preview runs (default: 4)
	MaxConcurrent int `env:"REORDER_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a preview waits for a free slot (default: 5s)
	MaxWait time.Duration `env:"REORDER_MAX_WAIT" default:"5s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
