// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/jeranaias/termfolio/internal/ui/shell"
)

// RunTUI runs the full-screen portfolio in the local terminal until the
// visitor quits or ctx ends.
func RunTUI(ctx context.Context, app *App) error {
	if !IsTTY() {
		return NewValidationErrorWithExample("stdin", "", "the TUI needs a terminal", "termfolio show about")
	}

	sess, err := shell.NewSession(ctx, shell.SessionOptions{
		Config:    app.Config,
		Bundle:    app.Bundle(),
		Prefs:     app.Prefs(),
		Archive:   app.Archive(),
		OnCommand: app.CommandRecorder("tui"),
		Subtitle:  app.Subtitle(),
		Logger:    app.Logger,
	})
	if err != nil {
		return err
	}
	if err := app.Watch(sess.Reload); err != nil {
		app.Logger.Warn("content reload disabled", "error", err)
	}
	return sess.Run()
}
