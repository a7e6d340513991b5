// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/termfolio/internal/config"
	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/logging"
	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

const (
	// reloadDebounce coalesces editor save bursts on the content file.
	reloadDebounce = 300 * time.Millisecond

	recordTimeout = 2 * time.Second
)

// App holds what every subcommand shares: the loaded config, the logger,
// the content bundle and lazily opened storage.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	log    *logging.Logger
	bundle atomic.Pointer[content.Bundle]

	storeOnce sync.Once
	store     *storage.Store

	archiveOnce sync.Once
	archive     *storage.TranscriptArchive

	watcher *content.Watcher
	now     func() time.Time
}

// Bootstrap loads configuration, applies flag overrides, sets up logging
// and loads the content bundle. console receives text logs when non-nil.
func Bootstrap(args Args, console io.Writer) (*App, error) {
	cfg, err := loadConfig(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, args); err != nil {
		return nil, err
	}
	config.SetGlobal(cfg)

	lg, err := logging.Setup(logging.Options{LoggingConfig: cfg.Logging, Console: console})
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("logging: %w", err)}
	}
	slog.SetDefault(lg.Logger)

	bundle, err := content.Load(cfg.Content.Path)
	if err != nil {
		lg.Close()
		return nil, &ConfigError{Err: fmt.Errorf("content: %w", err)}
	}

	app := &App{Config: cfg, Logger: lg.Logger, log: lg, now: time.Now}
	app.bundle.Store(bundle)
	return app, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, &ConfigError{Err: err}
	}
	if err != nil {
		DisplayWarning(fmt.Sprintf("%v (using defaults)", err))
	}
	return cfg, nil
}

// applyOverrides copies command line flags over the loaded configuration.
func applyOverrides(cfg *config.Config, args Args) error {
	if args.Theme != "" {
		if !terminal.IsKnownTheme(args.Theme) {
			return NewValidationErrorWithExample("theme", args.Theme, "unknown theme", "--theme gruvbox")
		}
		cfg.Terminal.DefaultTheme = args.Theme
	}
	if args.Mode != "" {
		mode, err := terminal.ParseMode(args.Mode)
		if err != nil {
			return NewValidationErrorWithExample("mode", args.Mode, err.Error(), "--mode interactive")
		}
		cfg.Terminal.StartMode = string(mode)
	}
	if args.Content != "" {
		cfg.Content.Path = args.Content
	}
	if args.LogLevel != "" {
		cfg.Logging.Level = args.LogLevel
	}
	return nil
}

// Bundle returns the current content.
func (a *App) Bundle() *content.Bundle {
	return a.bundle.Load()
}

// Store opens the database on first use. A failure is logged and nil is
// returned, so commands keep working without persistence.
func (a *App) Store() *storage.Store {
	a.storeOnce.Do(func() {
		st, err := storage.Open(a.Config.Storage.Path)
		if err != nil {
			a.Logger.Warn("storage unavailable", "path", a.Config.Storage.Path, "error", err)
			return
		}
		a.store = st
	})
	return a.store
}

// Prefs returns the persistent preference store, or an in-memory one when
// the database is unavailable.
func (a *App) Prefs() storage.Prefs {
	if st := a.Store(); st != nil {
		return st
	}
	return storage.NewMemoryPrefs()
}

// Archive returns the transcript archive, or nil if its directory cannot
// be created.
func (a *App) Archive() *storage.TranscriptArchive {
	a.archiveOnce.Do(func() {
		arch, err := storage.NewTranscriptArchive(config.DataPath("transcripts"))
		if err != nil {
			a.Logger.Warn("transcript archive unavailable", "error", err)
			return
		}
		a.archive = arch
	})
	return a.archive
}

// CommandRecorder returns a callback that records commands under source.
// It returns nil when there is no database.
func (a *App) CommandRecorder(source string) func(command string, known bool) {
	st := a.Store()
	if st == nil {
		return nil
	}
	return func(command string, known bool) {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		err := st.RecordCommand(ctx, storage.CommandRecord{
			Source:    source,
			Command:   command,
			Known:     known,
			Timestamp: a.now(),
		})
		if err != nil {
			a.Logger.Debug("record command failed", "source", source, "error", err)
		}
	}
}

// Watch reloads the content file on change when content.watch is set. Each
// parsed bundle is stored and handed to onReload.
func (a *App) Watch(onReload func(*content.Bundle)) error {
	if a.Config.Content.Path == "" || !a.Config.Content.Watch || a.watcher != nil {
		return nil
	}
	w, err := content.NewWatcher(a.Config.Content.Path, reloadDebounce, func(b *content.Bundle) {
		a.bundle.Store(b)
		a.Logger.Info("content reloaded", "path", a.Config.Content.Path, "sections", len(b.Sections))
		if onReload != nil {
			onReload(b)
		}
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("content watcher: %w", err)
	}
	if err := w.Watch(); err != nil {
		w.Close()
		return fmt.Errorf("content watcher: %w", err)
	}
	a.watcher = w
	return nil
}

// Subtitle is the header line under the brand.
func (a *App) Subtitle() string {
	return "portfolio shell v" + Version
}

// Close stops the watcher and closes storage and log files.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Logger.Warn("storage close failed", "error", err)
		}
	}
	return a.log.Close()
}

// DisplayWarning prints a warning to stderr.
func DisplayWarning(msg string) {
	fmt.Fprintf(stderr, "%s %s\n", WarningStyle.Render("Warning:"), msg)
}
