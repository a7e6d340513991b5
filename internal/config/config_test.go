// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TERMFOLIO_HOME", dir)
	for _, k := range []string{
		"TERMFOLIO_THEME", "TERMFOLIO_MODE", "TERMFOLIO_TYPING_DELAY_MS", "PORT",
		"TERMFOLIO_ADDR", "TERMFOLIO_SALT", "TERMFOLIO_SSH_ADDR", "TERMFOLIO_DB",
		"TERMFOLIO_CONTENT", "TERMFOLIO_LOG_LEVEL", "TERMFOLIO_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	rc := cfg.RevealSettings()
	require.Equal(t, 0.1, rc.Threshold)
	require.Equal(t, 0.35, rc.BottomMargin)
	require.Equal(t, 28.0, rc.ParallaxMax)
	require.Equal(t, 16*time.Millisecond, rc.FrameInterval)
	require.Equal(t, 45*time.Millisecond, cfg.TypingDelay())
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "matrix", cfg.Terminal.DefaultTheme)
	require.Equal(t, filepath.Join(dir, "termfolio.db"), cfg.Storage.Path)
}

func TestLoad_TOML(t *testing.T) {
	dir := isolate(t)
	data := `
[terminal]
default_theme = "gruvbox"
typing_delay_ms = 10

[reveal]
threshold = 0.5
bottom_margin = 0.2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gruvbox", cfg.Terminal.DefaultTheme)
	require.Equal(t, 10, cfg.Terminal.TypingDelayMs)
	require.Equal(t, 0.5, cfg.Reveal.Threshold)
	require.Equal(t, 0.2, cfg.Reveal.BottomMargin)
	// untouched keys keep defaults
	require.Equal(t, 0.08, cfg.Reveal.ParallaxBase)
	require.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	data := `{"terminal": {"default_theme": "light"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(data), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "light", cfg.Terminal.DefaultTheme)
}

func TestLoad_InvalidTheme(t *testing.T) {
	dir := isolate(t)
	data := "[terminal]\ndefault_theme = \"solarized\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o600))

	_, err := Load()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Equal(t, "terminal.default_theme", verrs[0].Field)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TERMFOLIO_THEME", "MONOKAI")
	t.Setenv("TERMFOLIO_TYPING_DELAY_MS", "5")
	t.Setenv("PORT", "9000")
	t.Setenv("TERMFOLIO_DB", "/tmp/x.db")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	require.Equal(t, "monokai", cfg.Terminal.DefaultTheme)
	require.Equal(t, 5, cfg.Terminal.TypingDelayMs)
	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, "/tmp/x.db", cfg.Storage.Path)

	t.Setenv("TERMFOLIO_ADDR", "127.0.0.1:7000")
	cfg.ApplyEnvOverrides()
	require.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"threshold above one", func(c *Config) { c.Reveal.Threshold = 1.5 }, "reveal"},
		{"negative margin", func(c *Config) { c.Reveal.BottomMargin = -0.1 }, "reveal"},
		{"margin above one", func(c *Config) { c.Reveal.BottomMargin = 1.2 }, "reveal"},
		{"zero parallax max", func(c *Config) { c.Reveal.ParallaxMax = 0 }, "reveal"},
		{"negative typing delay", func(c *Config) { c.Terminal.TypingDelayMs = -1 }, "terminal.typing_delay_ms"},
		{"bad mode", func(c *Config) { c.Terminal.StartMode = "fast" }, "terminal.start_mode"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tc := range tests {
		cfg := Default()
		tc.mutate(cfg)
		err := cfg.Validate()
		var verrs ValidateErrors
		if !errors.As(err, &verrs) {
			t.Errorf("%s: Validate() = %v, want ValidateErrors", tc.name, err)
			continue
		}
		if verrs[0].Field != tc.field {
			t.Errorf("%s: field = %q, want %q", tc.name, verrs[0].Field, tc.field)
		}
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.Terminal.DefaultTheme = "monokai"
	cfg.Reveal.Threshold = 0.25

	require.NoError(t, Save(cfg))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# termfolio configuration file")

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "monokai", loaded.Terminal.DefaultTheme)
	require.Equal(t, 0.25, loaded.Reveal.Threshold)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("terminal.default_theme", "light"))
	require.NoError(t, cfg.Set("reveal.threshold", "0.3"))
	require.NoError(t, cfg.Set("server.track_visitors", "false"))
	require.NoError(t, cfg.Set("ssh.max_sessions", "4"))

	v, err := cfg.Get("terminal.default_theme")
	require.NoError(t, err)
	require.Equal(t, "light", v)
	require.Equal(t, 0.3, cfg.Reveal.Threshold)
	require.False(t, cfg.Server.TrackVisitors)
	require.Equal(t, 4, cfg.SSH.MaxSessions)

	require.Error(t, cfg.Set("reveal.threshold", "lots"))
	require.Error(t, cfg.Set("nope.key", "1"))
	_, err = cfg.Get("reveal")
	require.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	cfg := Default()
	for _, k := range keys {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
	require.Contains(t, keys, "reveal.bottom_margin")
}

func TestString_RedactsSalt(t *testing.T) {
	cfg := Default()
	cfg.Server.Salt = "pepper"
	require.NotContains(t, cfg.String(), "pepper")
	require.Equal(t, "pepper", cfg.Server.Salt)
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
