package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.NarrativeTimeout != 10*time.Second {
		t.Errorf("narrative timeout = %v, want 10s", cfg.NarrativeTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LEARNPULSE_ADDR", ":9999")
	t.Setenv("LEARNPULSE_LOG_LEVEL", "debug")
	t.Setenv("LEARNPULSE_NARRATIVE_TIMEOUT", "5s")
	t.Setenv("LEARNPULSE_DB_PATH", "/tmp/custom.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.NarrativeTimeout != 5*time.Second {
		t.Errorf("narrative timeout = %v, want 5s", cfg.NarrativeTimeout)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7777\"\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LEARNPULSE_CONFIG", path)
	t.Setenv("LEARNPULSE_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7777" {
		t.Errorf("addr = %q, want the file value :7777", cfg.Addr)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("log level = %q, want the env value error", cfg.LogLevel)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("LEARNPULSE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load succeeded with a missing config file")
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("LEARNPULSE_NARRATIVE_TIMEOUT", "0s")
	if _, err := Load(); err == nil {
		t.Error("Load accepted a zero narrative timeout")
	}
}
