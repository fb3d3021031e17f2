// Package config loads application settings from environment variables,
// applies defaults and validates them on startup so misconfiguration fails
// fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Dump     DumpConfig
	Upload   UploadConfig
	Export   ExportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout covers reading the whole request, dump upload included (default: 2m)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"2m"`

	// WriteTimeout is the maximum duration for writing a response (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DumpConfig describes the dump the server starts with and how dumps are read.
type DumpConfig struct {
	// Path is a dump file loaded at startup. Empty starts with no dataset.
	Path string `env:"DUMP_PATH"`

	// Schema is the dump schema whose COPY blocks are collected (default: pimpoyo)
	Schema string `env:"DUMP_SCHEMA" default:"pimpoyo"`

	// Encoding is the dump text encoding: utf-8 or latin1 (default: utf-8)
	Encoding string `env:"DUMP_ENCODING" default:"utf-8"`

	// MaxFileSize is the maximum accepted dump size; accepts KB/MB/GB suffixes (default: 256MB)
	MaxFileSize int64 `env:"DUMP_MAX_FILE_SIZE" default:"256MB" unit:"bytes"`

	// ReloadInterval polls Path for changes; 0 disables reloading (default: 0)
	ReloadInterval time.Duration `env:"DUMP_RELOAD_INTERVAL" default:"0s"`

	// HistorySize is how many parse runs are kept (default: 20)
	HistorySize int `env:"DUMP_HISTORY_SIZE" default:"20"`
}

// UploadConfig holds parse concurrency settings.
type UploadConfig struct {
	// MaxConcurrent is the maximum number of parallel parses (default: 2)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for a parse slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration of a single parse (default: 5m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"5m"`
}

// ExportConfig holds database export settings. Export is disabled when
// no database URL is set.
type ExportConfig struct {
	// DatabaseURL is the PostgreSQL connection string for exports.
	// Supports both DATABASE_URL and DB_URL env vars.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of pooled connections (default: 8)
	MaxConns int `env:"DB_MAX_CONNS" default:"8"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// TargetSchema receives the exported tables (default: pimpoyo_export)
	TargetSchema string `env:"EXPORT_TARGET_SCHEMA" default:"pimpoyo_export"`

	// Parallelism is how many tables are copied at once (default: 4)
	Parallelism int `env:"EXPORT_PARALLELISM" default:"4"`

	// SQLitePath is the file written by the SQLite export (default: pimpoyo.db)
	SQLitePath string `env:"EXPORT_SQLITE_PATH" default:"pimpoyo.db"`

	// Timeout bounds one export run (default: 10m)
	Timeout time.Duration `env:"EXPORT_TIMEOUT" default:"10m"`
}

// Enabled reports whether a Postgres export target is configured.
func (c *ExportConfig) Enabled() bool {
	return c.DatabaseURL != ""
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for parse and export endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey protects the parse and export endpoints (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`
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
