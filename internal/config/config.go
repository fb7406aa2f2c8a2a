// Package config loads service configuration by layering defaults, an
// optional YAML file, and LEARNPULSE_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration for the serve command.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath points at the SQLite database holding model artifacts.
	// Empty means the platform default data directory.
	DBPath string `koanf:"db_path"`

	// NarrativeProvider selects the message collaborator: anthropic,
	// openai, gemini, openrouter, or empty to auto-discover from API keys.
	NarrativeProvider string `koanf:"narrative_provider"`

	// NarrativeTimeout bounds one narration round trip before the
	// deterministic fallback message is used.
	NarrativeTimeout time.Duration `koanf:"narrative_timeout"`

	// ShutdownGrace bounds graceful HTTP shutdown.
	ShutdownGrace time.Duration `koanf:"shutdown_grace"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		NarrativeTimeout: 10 * time.Second,
		ShutdownGrace:    10 * time.Second,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LEARNPULSE_CONFIG is set
//  3. env (prefix LEARNPULSE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LEARNPULSE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Env keys map flat: LEARNPULSE_LOG_LEVEL -> log_level. Underscores
	// are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("LEARNPULSE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "learnpulse_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.NarrativeTimeout <= 0 {
		return nil, errors.New("narrative_timeout must be positive")
	}
	return &cfg, nil
}
