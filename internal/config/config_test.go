package config

import (
	"log/slog"
	"testing"
)

func validConfig() Config {
	return Config{
		Host:              "127.0.0.1",
		Port:              8000,
		Transport:         TransportStdio,
		RequestsPerMinute: 100,
		LogLevel:          "info",
	}
}

func TestLoad_Defaults(t *testing.T) {
	// The test environment has no TAIGA_* variables set, so defaults apply.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.Transport != TransportStdio {
		t.Errorf("Transport = %q, want stdio", cfg.Transport)
	}
	if cfg.RequestsPerMinute != 100 {
		t.Errorf("RequestsPerMinute = %d, want 100", cfg.RequestsPerMinute)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TAIGA_MCP_TRANSPORT", "sse")
	t.Setenv("TAIGA_MCP_PORT", "5000")
	t.Setenv("TAIGA_RATE_LIMIT", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != TransportSSE {
		t.Errorf("Transport = %q, want sse", cfg.Transport)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.RequestsPerMinute != 25 {
		t.Errorf("RequestsPerMinute = %d, want 25", cfg.RequestsPerMinute)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"sse transport", func(c *Config) { c.Transport = TransportSSE }, false},
		{"zero rate", func(c *Config) { c.RequestsPerMinute = 0 }, true},
		{"negative rate", func(c *Config) { c.RequestsPerMinute = -5 }, true},
		{"bad transport", func(c *Config) { c.Transport = "websocket" }, true},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		cfg := validConfig()
		cfg.LogLevel = tt.in
		got, err := cfg.SlogLevel()
		if err != nil {
			t.Errorf("SlogLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSSEAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 9000
	if got := cfg.SSEAddr(); got != "0.0.0.0:9000" {
		t.Errorf("SSEAddr = %q", got)
	}
}
