// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/termfolio/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSetup_FanoutToConsoleAndFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "termfolio.log")

	l, err := Setup(Options{
		LoggingConfig: config.LoggingConfig{Level: "info", File: path},
		Console:       &console,
	})
	require.NoError(t, err)

	l.Info("session started", "session", "abc")
	l.Debug("hidden")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	for name, out := range map[string]string{"console": console.String(), "file": string(data)} {
		if !strings.Contains(out, "session started") || !strings.Contains(out, "app=termfolio") {
			t.Errorf("%s output missing record: %q", name, out)
		}
		if strings.Contains(out, "hidden") {
			t.Errorf("%s output contains debug record below level: %q", name, out)
		}
	}
}

func TestSetup_SetLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		SetLevel(slog.LevelInfo)
	})

	var console bytes.Buffer
	l, err := Setup(Options{LoggingConfig: config.LoggingConfig{Level: "error"}, Console: &console})
	require.NoError(t, err)

	l.Info("dropped")
	SetLevel(slog.LevelDebug)
	l.Debug("kept")

	require.NotContains(t, console.String(), "dropped")
	require.Contains(t, console.String(), "kept")
}

func TestSetup_NoOutputsDiscards(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l, err := Setup(Options{})
	require.NoError(t, err)
	l.Info("nowhere")
	require.NoError(t, l.Close())
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("session.id-1"); got != "SESSION_ID_1" {
		t.Errorf("toJournalKey = %q, want %q", got, "SESSION_ID_1")
	}
}
