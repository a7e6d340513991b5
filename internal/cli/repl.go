// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/termfolio/internal/config"
	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// lineReader wraps liner with a history file in the config directory.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		out := terminal.Candidates(input)
		for i, c := range out {
			// "theme set <name>" completes to "theme set ".
			if j := strings.Index(c, "<"); j >= 0 {
				out[i] = c[:j]
			}
		}
		return out
	})

	r := &lineReader{line: line, historyFile: config.DataPath("history")}
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *lineReader) read() (string, error) {
	input, err := r.line.Prompt(terminal.Prompt + " ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *lineReader) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			_, _ = r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// RunREPL runs the engine as a line-mode shell. Sections are not revealed
// here; the visitor types commands directly.
func RunREPL(ctx context.Context, app *App) error {
	engine := terminal.NewEngine(terminal.Options{
		Theme:        app.Config.Terminal.DefaultTheme,
		Mode:         terminal.ModeInteractive,
		Outputs:      app.Bundle().Outputs,
		HistoryLimit: app.Config.Terminal.HistoryLimit,
		Logger:       app.Logger,
	})
	if err := app.Watch(func(b *content.Bundle) { engine.SetOutputs(b.Outputs) }); err != nil {
		app.Logger.Warn("content reload disabled", "error", err)
	}

	reader := newLineReader()
	defer reader.Close()

	err := replLoop(ctx, engine, reader.read, stdout, GetTerminalWidth(), app.CommandRecorder("repl"))
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		fmt.Fprintln(stdout)
		return nil
	}
	return err
}

// replLoop reads lines until exit, EOF or ctx ends. read returns io.EOF or
// liner.ErrPromptAborted to stop.
func replLoop(ctx context.Context, engine *terminal.Engine, read func() (string, error), out io.Writer, width int, onCommand func(string, bool)) error {
	fmt.Fprint(out, terminal.RenderTranscript(engine.Transcript(), width))

	for ctx.Err() == nil {
		input, err := read()
		if err != nil {
			return err
		}
		normalized := terminal.Normalize(input)
		switch normalized {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		known := engine.Known(input)
		entries := engine.Run(input)
		if onCommand != nil {
			onCommand(normalized, known)
		}

		if normalized == "clear" {
			// Redraw from the fresh transcript.
			fmt.Fprint(out, "\x1b[H\x1b[2J")
			fmt.Fprint(out, terminal.RenderTranscript(entries, width))
			continue
		}
		// The echo entry duplicates what the visitor just typed.
		for _, e := range entries {
			if e.Kind == terminal.EntryCommand {
				continue
			}
			fmt.Fprint(out, terminal.RenderEntry(e, width))
		}
	}
	return nil
}
