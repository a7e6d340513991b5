// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the styled building blocks of the termfolio TUI.

# Display Components

Header (header.go) - Title bar with owner name and active theme.
StatusBar (statusbar.go) - Mode, reveal progress, auto-play activity and shortcuts.
TranscriptViewport (viewport.go) - Scrollable terminal output that follows new entries.
SectionsPane (sections.go) - Section cards laid out for the reveal controller,
drawn with parallax and entrance offsets.
CompletionHint (completion.go) - Matching commands shown after an ambiguous tab.
Spinner (spinner.go) - Activity marker while auto-play types.

# Rendering

RenderEntry, RenderLines and RenderTranscript (transcript.go) are the styled
counterparts of the plain renderers in the terminal package. The TUI and the
line REPL both use them.

# Units

SectionsPane reports layout in units of RowUnits per terminal row so the
reveal controller's offsets keep their pixel-like scale.
*/
package components
