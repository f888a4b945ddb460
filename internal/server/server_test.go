package server

import (
	"testing"

	"github.com/taigabridge/taiga-mcp/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Host:              "127.0.0.1",
		Port:              8000,
		Transport:         config.TransportStdio,
		RequestsPerMinute: 10,
		LogLevel:          "info",
		CacheDir:          t.TempDir(),
	}
}

func TestNewWiresEverything(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s == nil {
		t.Fatal("New returned nil server")
	}
}

func TestNewRejectsBadRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RequestsPerMinute = 0
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for zero rate limit")
	}
}
