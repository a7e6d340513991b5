// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the subcommands of termfolio.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - App: Loaded config, logger, content bundle and lazily opened storage
//
// # Usage
//
//	cmd, args := cli.Parse()
//	app, err := cli.Bootstrap(args, nil)
//	switch cmd {
//	case cli.CmdTUI:
//	    err = cli.RunTUI(ctx, app)
//	case cli.CmdServe:
//	    err = cli.RunServe(ctx, app, args)
//	// ... other commands
//	}
//
// # Commands Overview
//
// Front ends:
//   - tui: Full-screen scroll-reveal portfolio (default)
//   - repl: Line-mode shell with persistent history
//   - serve: JSON API for the browser terminal
//   - ssh: The TUI over SSH
//
// Utilities:
//   - show: Print one command's output (glamour on a terminal)
//   - config: Inspect and edit configuration
//   - transcripts: Saved transcripts
//   - stats: Visitor and command statistics
//
// Most commands support --json.
package cli
