// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles turns terminal theme tokens into Lip Gloss styles.

# Themes (theme.go)

A Theme is built from one entry of the terminal theme table (matrix,
gruvbox, monokai, light) on a specific lipgloss.Renderer. The local TUI uses
the default renderer; each SSH session gets a renderer bound to its own
channel so color detection follows the remote client.

	theme := styles.NewTheme(engine.Theme())
	line := theme.ToneStyle(terminal.ToneError).Render("Unknown command")

Style groups:

	Header*    - top bar with brand and subtitle
	Window     - terminal pane border (glow color)
	Heading..  - one style per transcript line kind and tone
	Section*   - reveal pane cards, dimmed while unseen
	StatusBar  - mode, theme and shortcut hints

# Colors (colors.go)

Hex parsing, luminance and blending. Unseen section cards are drawn by
blending the text color toward the window background. StatusIndicators
pairs every colored state with an ASCII marker.

# Animations (animations.go)

Easing functions, a Transition value used to slide revealed sections into
place, and the blinking caret shown while auto-play types a command.
*/
package styles
