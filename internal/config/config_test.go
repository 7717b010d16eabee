package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Table)
	assert.Zero(t, cfg.MaxModifiers)
	assert.Empty(t, cfg.Accents)
	assert.Empty(t, cfg.Store)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOUND_TABLE", "/tables/ipa.cue")
	t.Setenv("SOUND_MAX_MODIFIERS", "3")
	t.Setenv("SOUND_ACCENTS", "a.yaml,b.yaml")
	t.Setenv("SOUND_STORE", "inv.db")
	t.Setenv("SOUND_LOG_LEVEL", "debug")
	t.Setenv("SOUND_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		Table:        "/tables/ipa.cue",
		MaxModifiers: 3,
		Accents:      []string{"a.yaml", "b.yaml"},
		Store:        "inv.db",
		LogLevel:     slog.LevelDebug,
		LogFormat:    "json",
	}, cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		errMsg string
	}{
		{"not an int", "SOUND_MAX_MODIFIERS", "many", "parse env:"},
		{"negative", "SOUND_MAX_MODIFIERS", "-1", "must not be negative"},
		{"bad level", "SOUND_LOG_LEVEL", "loud", "parse env:"},
		{"bad format", "SOUND_LOG_FORMAT", "xml", "SOUND_LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("text filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Config{LogLevel: slog.LevelWarn, LogFormat: "text"}.Logger(&buf)

		logger.Info("hidden")
		logger.Warn("shown", "accent", "genam")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=shown")
		assert.Contains(t, out, "accent=genam")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Config{LogLevel: slog.LevelDebug, LogFormat: "json"}.Logger(&buf)

		logger.Debug("built", "phonemes", 42)

		out := strings.TrimSpace(buf.String())
		assert.True(t, strings.HasPrefix(out, "{"))
		assert.Contains(t, out, `"msg":"built"`)
		assert.Contains(t, out, `"phonemes":42`)
	})
}
