// Package config loads library and CLI settings from the environment and
// builds the process logger.
package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds environment settings. Command-line flags override them.
type Config struct {
	// Table is a .cue file or directory replacing the embedded table.
	Table string `env:"SOUND_TABLE"`

	// MaxModifiers bounds the modifier sets enumerated per glyph. Zero
	// leaves them unbounded.
	MaxModifiers int `env:"SOUND_MAX_MODIFIERS"`

	// Accents lists YAML accent files loaded after the table's own accents.
	Accents []string `env:"SOUND_ACCENTS"`

	// Store is the SQLite inventory store path. Empty disables persistence.
	Store string `env:"SOUND_STORE"`

	LogLevel  slog.Level `env:"SOUND_LOG_LEVEL" envDefault:"warn"`
	LogFormat string     `env:"SOUND_LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env cannot check by type.
func (c Config) Validate() error {
	if c.MaxModifiers < 0 {
		return fmt.Errorf("SOUND_MAX_MODIFIERS: must not be negative, got %d", c.MaxModifiers)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("SOUND_LOG_FORMAT: must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return nil
}

// Logger builds a logger writing to w at the configured level and format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
