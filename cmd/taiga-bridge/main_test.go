package main

import (
	"testing"

	"github.com/taigabridge/taiga-mcp/internal/config"
)

func TestServeFlagsApplyOverrides(t *testing.T) {
	f := newServeFlags()
	if err := f.fs.Parse([]string{"--port", "9001", "--rate-limit", "5"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	cfg := config.Config{
		Host:              "0.0.0.0",
		Port:              8000,
		Transport:         config.TransportSSE,
		RequestsPerMinute: 100,
		LogLevel:          "warn",
	}
	f.apply(&cfg)

	if cfg.Port != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Port)
	}
	if cfg.RequestsPerMinute != 5 {
		t.Errorf("RequestsPerMinute = %d, want 5", cfg.RequestsPerMinute)
	}
	// Flags the user never set must not clobber the environment.
	if cfg.Transport != config.TransportSSE {
		t.Errorf("Transport = %q, want %q", cfg.Transport, config.TransportSSE)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestServeFlagsApplyNoFlags(t *testing.T) {
	f := newServeFlags()
	if err := f.fs.Parse(nil); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	cfg := config.Config{Port: 8123, Transport: config.TransportStdio, RequestsPerMinute: 42}
	before := cfg
	f.apply(&cfg)

	if cfg != before {
		t.Errorf("config changed without flags: %+v, want %+v", cfg, before)
	}
}
