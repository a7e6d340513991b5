// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell is the Bubble Tea program behind the terminal portfolio.
//
// The screen holds a column of section cards and a terminal window. While the
// terminal is in scrollAuto mode, scrolling a section into view queues its
// command for auto-play; in interactive mode the visitor types commands.
//
// The same Model runs locally (cli tui) and per connection over SSH.
package shell
