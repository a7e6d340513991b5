// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/termfolio/internal/terminal"
)

// showOptions controls how one command's output is printed.
type showOptions struct {
	JSON     bool
	Width    int
	Markdown bool
}

// RunShow prints the output of a single command and exits. Output is
// rendered as markdown through glamour on a terminal and as plain text
// when piped.
func RunShow(app *App, args Args) error {
	engine := terminal.NewEngine(terminal.Options{
		Theme:   app.Config.Terminal.DefaultTheme,
		Mode:    terminal.ModeInteractive,
		Outputs: app.Bundle().Outputs,
		Logger:  app.Logger,
	})

	width := args.Width
	if width <= 0 {
		width = GetTerminalWidth()
	}
	input := strings.TrimSpace(strings.Join(append([]string{args.Subcommand}, args.Raw...), " "))

	if record := app.CommandRecorder("cli"); record != nil {
		defer record(terminal.Normalize(input), engine.Known(input))
	}
	return showCommand(engine, input, stdout, showOptions{
		JSON:     args.JSON,
		Width:    width,
		Markdown: IsStdoutTTY() && ColorsEnabled(),
	})
}

func showCommand(engine *terminal.Engine, input string, out io.Writer, opts showOptions) error {
	if !engine.Known(input) {
		if s, ok := terminal.Suggest(terminal.Normalize(input)); ok {
			return fmt.Errorf("%w (did you mean %q?)", NewNotFoundError("command", input), s)
		}
		return NewNotFoundError("command", input)
	}

	entries := engine.Run(input)
	if len(entries) == 0 {
		return nil
	}
	last := entries[len(entries)-1]

	if opts.JSON {
		return writeJSON(out, terminal.ViewEntries([]terminal.Entry{last})[0])
	}
	if opts.Markdown {
		if rendered, err := renderMarkdown(terminal.Markdown(last.Lines), opts.Width); err == nil {
			_, err = io.WriteString(out, rendered)
			return err
		}
	}
	_, err := io.WriteString(out, terminal.RenderLines(last.Lines, opts.Width))
	return err
}

// renderMarkdown renders md with glamour at the given wrap width.
func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(md)
}
