// Package config holds the server's startup configuration.
//
// Startup is two-phase: Load decodes the environment, the CLI applies
// its flag overrides, and Validate checks the result before any
// stateful component is constructed from the finished Config. Nothing
// in this package is read lazily after startup.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joeshaw/envdecode"
)

// Transport values accepted by Validate.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config is the complete server configuration.
type Config struct {
	// Host and Port bind the SSE transport; ignored for stdio.
	Host string `env:"TAIGA_MCP_HOST,default=127.0.0.1"`
	Port int    `env:"TAIGA_MCP_PORT,default=8000"`

	// Transport selects stdio (default) or sse.
	Transport string `env:"TAIGA_MCP_TRANSPORT,default=stdio"`

	// RequestsPerMinute is the per-session rate limit capacity.
	RequestsPerMinute int `env:"TAIGA_RATE_LIMIT,default=100"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"TAIGA_LOG_LEVEL,default=info"`

	// CacheDir overrides the token cache location. Empty means the
	// user's cache directory.
	CacheDir string `env:"TAIGA_CACHE_DIR"`

	// GitHub OAuth app credentials for delegated login. Optional;
	// the github login path is unavailable without them.
	GitHubClientID     string `env:"TAIGA_GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"TAIGA_GITHUB_CLIENT_SECRET"`
}

// Load decodes configuration from the environment, leaving defaults in
// place for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations no component should be built from.
// An invalid rate or transport is fatal at startup, never clamped.
func (c Config) Validate() error {
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RequestsPerMinute)
	}
	if c.Transport != TransportStdio && c.Transport != TransportSSE {
		return fmt.Errorf("transport must be %q or %q, got %q", TransportStdio, TransportSSE, c.Transport)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in [1, 65535], got %d", c.Port)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

// SSEAddr returns the bind address for the SSE transport.
func (c Config) SSEAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
