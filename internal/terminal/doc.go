// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal implements the command engine behind the portfolio
// terminal.
//
// The engine owns the transcript, the command log, the active theme and the
// current mode. Commands resolve against a static catalog of outputs; a small
// set of built-ins (clear, history, help, theme list, theme set) are handled
// inline. Resolution never fails with a Go error: problems are reported as
// error-toned lines in the transcript.
//
// # Transcript
//
// A transcript is an append-only slice of Entry values. Each entry is either a
// system message, a command echo or an output block made of Line values. Line
// is a closed sum type; renderers switch over its variants:
//
//	for _, line := range entry.Lines {
//	    switch l := line.(type) {
//	    case terminal.Text:
//	    case terminal.Heading:
//	    ...
//	    }
//	}
//
// # Usage
//
//	engine := terminal.NewEngine(terminal.Options{Theme: "matrix"})
//	engine.Run("about")
//	for _, e := range engine.Transcript() {
//	    fmt.Print(terminal.RenderEntry(e, 80))
//	}
package terminal
