// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termfolio/internal/config"
	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/tasks"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// prefsTimeout bounds theme preference reads and writes.
const prefsTimeout = 2 * time.Second

// =============================================================================
// SESSION
// =============================================================================

// SessionOptions configures a Session.
type SessionOptions struct {
	Config *config.Config
	Bundle *content.Bundle

	// Prefs persists the theme when Config.Terminal.PersistTheme is set.
	Prefs storage.Prefs

	Archive *storage.TranscriptArchive

	// Input, Output and Renderer default to the process terminal.
	Input    io.Reader
	Output   io.Writer
	Renderer *lipgloss.Renderer

	// OnCommand is called after every executed command, typed or auto-played.
	OnCommand func(command string, known bool)

	Subtitle string
	Logger   *slog.Logger
}

// Session wires an engine, an auto-play worker and the shell model into one
// running program.
type Session struct {
	engine  *terminal.Engine
	player  *tasks.Player
	program *tea.Program
	logger  *slog.Logger
}

// NewSession builds a session. The program does not start until Run.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	bundle := opts.Bundle
	if bundle == nil {
		bundle = content.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := terminal.ParseMode(cfg.Terminal.StartMode)
	if err != nil {
		return nil, fmt.Errorf("start mode: %w", err)
	}

	s := &Session{logger: logger}

	prefs := opts.Prefs
	if !cfg.Terminal.PersistTheme {
		prefs = nil
	}
	engine := terminal.NewEngine(terminal.Options{
		Theme:         startTheme(ctx, cfg.Terminal.DefaultTheme, prefs, logger),
		Mode:          mode,
		Outputs:       bundle.Outputs,
		HistoryLimit:  cfg.Terminal.HistoryLimit,
		OnThemeChange: themeSaver(prefs, logger),
		Logger:        logger,
	})
	s.engine = engine

	player := tasks.NewPlayer(recordingTerminal{Engine: engine, onCommand: opts.OnCommand}, tasks.PlayerOptions{
		TypingDelay: cfg.TypingDelay(),
		MaxPending:  len(bundle.Sections) * 2,
		OnEvent: func(ev tasks.Event) {
			if s.program != nil {
				s.program.Send(PlayerEventMsg{Event: ev})
			}
		},
		Logger: logger,
	})
	engine.AttachQueue(player)
	s.player = player

	model := New(Options{
		Engine:    engine,
		Player:    player,
		Sections:  bundle.Sections,
		Reveal:    cfg.RevealSettings(),
		Archive:   opts.Archive,
		Renderer:  opts.Renderer,
		Subtitle:  opts.Subtitle,
		OnCommand: opts.OnCommand,
		Logger:    logger,
	})

	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if cfg.Terminal.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	s.program = tea.NewProgram(model, progOpts...)
	return s, nil
}

// Run starts auto-play and blocks until the program exits. Cancelling the
// session context is a normal exit.
func (s *Session) Run() error {
	s.player.Start()
	final, err := s.program.Run()

	if cerr := s.player.Close(); cerr != nil {
		s.logger.Warn("player close failed", "error", cerr)
	}
	if m, ok := final.(Model); ok {
		m.Dispose()
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Reload pushes new content into the running program.
func (s *Session) Reload(b *content.Bundle) {
	s.program.Send(ContentReloadedMsg{Bundle: b})
}

// Resize forwards a window size, for hosts without a TTY such as SSH.
func (s *Session) Resize(width, height int) {
	s.program.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

// Quit asks the program to exit.
func (s *Session) Quit() {
	s.program.Quit()
}

// Engine returns the session's command engine.
func (s *Session) Engine() *terminal.Engine {
	return s.engine
}

// =============================================================================
// THEME PERSISTENCE
// =============================================================================

// startTheme returns the saved theme if there is a valid one, else fallback.
func startTheme(ctx context.Context, fallback string, prefs storage.Prefs, logger *slog.Logger) string {
	if prefs == nil {
		return fallback
	}
	ctx, cancel := context.WithTimeout(ctx, prefsTimeout)
	defer cancel()

	name, err := storage.LoadTheme(ctx, prefs)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fallback
	case err != nil:
		logger.Warn("theme preference unavailable", "error", err)
		return fallback
	case !terminal.IsKnownTheme(name):
		logger.Debug("ignoring unknown saved theme", "theme", name)
		return fallback
	}
	return name
}

func themeSaver(prefs storage.Prefs, logger *slog.Logger) func(string) {
	if prefs == nil {
		return nil
	}
	return func(name string) {
		ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
		defer cancel()
		if err := storage.SaveTheme(ctx, prefs, name); err != nil {
			logger.Warn("theme preference not saved", "theme", name, "error", err)
		}
	}
}

// =============================================================================
// COMMAND RECORDING
// =============================================================================

// recordingTerminal reports auto-played commands to onCommand.
type recordingTerminal struct {
	*terminal.Engine
	onCommand func(string, bool)
}

func (r recordingTerminal) Run(command string) []terminal.Entry {
	entries := r.Engine.Run(command)
	if r.onCommand != nil {
		r.onCommand(command, r.Engine.Known(command))
	}
	return entries
}
