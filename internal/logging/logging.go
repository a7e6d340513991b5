// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the process-wide slog logger.
//
// Records fan out to up to three handlers: a text handler on an optional
// console writer (never used while the TUI owns the terminal), a text handler
// on the log file, and the systemd journal when enabled and reachable.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"

	"github.com/jeranaias/termfolio/internal/config"
)

var level = new(slog.LevelVar)

// Options selects the outputs for Setup.
type Options struct {
	config.LoggingConfig

	// Console receives text logs when non-nil (serve and ssh modes).
	Console io.Writer
}

// Logger is the configured logger plus the resources it holds open.
type Logger struct {
	*slog.Logger
	file *os.File
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the level of every logger built by Setup.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Setup builds the logger and installs it as slog's default.
// With no outputs configured, records are discarded.
func Setup(opts Options) (*Logger, error) {
	level.Set(ParseLevel(opts.Level))

	var handlers []slog.Handler
	out := &Logger{}

	if opts.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Console, &slog.HandlerOptions{Level: level}))
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out.file = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	if opts.Journal {
		jh, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			// Report through whatever else is configured and carry on
			if len(handlers) > 0 {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
				record.Add("error", err)
				_ = slogmulti.Fanout(handlers...).Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, jh)
		}
	}

	var h slog.Handler
	switch len(handlers) {
	case 0:
		h = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
	case 1:
		h = handlers[0]
	default:
		h = slogmulti.Fanout(handlers...)
	}

	out.Logger = slog.New(h).With("app", "termfolio")
	slog.SetDefault(out.Logger)
	return out, nil
}

// toJournalKey converts an attribute key to the journal's field syntax:
// uppercase letters, digits and underscores.
func toJournalKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(s))
}
