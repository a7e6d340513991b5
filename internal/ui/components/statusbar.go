// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - mode, reveal progress and shortcuts
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are shown on wide terminals.
var DefaultShortcuts = []Shortcut{
	{"tab", "complete"},
	{"ctrl+t", "mode"},
	{"ctrl+y", "theme"},
	{"pgdn", "scroll"},
	{"ctrl+c", "quit"},
}

// StatusBar is the bottom status line.
type StatusBar struct {
	Mode          terminal.Mode
	Revealed      int
	Sections      int
	Pending       int  // Queued auto commands
	Typing        bool // Auto-play is typing
	Spinner       string
	Message       string // Transient notice, e.g. "transcript saved"
	Width         int
	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Mode:          terminal.ModeScrollAuto,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetTheme swaps the theme.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// ModeLabel returns the display name for a mode.
func ModeLabel(m terminal.Mode) string {
	if m == terminal.ModeInteractive {
		return "INTERACTIVE"
	}
	return "SCROLL-AUTO"
}

// View renders the status bar, dropping segments that do not fit.
func (s *StatusBar) View() string {
	sep := s.theme.Muted.Render(" | ")

	indicator := styles.StatusIndicators.Idle
	if s.Typing {
		indicator = styles.StatusIndicators.Active
	}
	left := []string{s.theme.ModeStyle(s.Mode).Render(indicator + " " + ModeLabel(s.Mode))}

	if s.Sections > 0 {
		left = append(left, s.theme.StatusBar.UnsetPadding().UnsetBackground().
			Render(fmt.Sprintf("revealed %d/%d", s.Revealed, s.Sections)))
	}
	if s.Typing && s.Spinner != "" {
		left = append(left, s.theme.Accent.Render(s.Spinner+" typing"))
	}
	if s.Pending > 0 {
		left = append(left, s.theme.Muted.Render(fmt.Sprintf("%d queued", s.Pending)))
	}
	left = append(left, s.theme.ThemeBadge.Render(s.theme.Tokens.Label))
	if s.Message != "" {
		left = append(left, s.theme.Success.Render(s.Message))
	}

	leftText := strings.Join(left, sep)
	inner := max(s.Width-2, 10)

	if s.ShowShortcuts && s.Width >= 100 {
		right := s.shortcuts()
		gap := inner - lipgloss.Width(leftText) - lipgloss.Width(right)
		if gap >= 2 {
			return s.theme.StatusBar.Width(s.Width).Render(leftText + strings.Repeat(" ", gap) + right)
		}
	}
	return s.theme.StatusBar.Width(s.Width).MaxHeight(1).Render(leftText)
}

func (s *StatusBar) shortcuts() string {
	parts := make([]string, len(DefaultShortcuts))
	for i, sc := range DefaultShortcuts {
		parts[i] = s.theme.ShortcutKey.Render(sc.Key) + " " + s.theme.ShortcutDesc.Render(sc.Desc)
	}
	return strings.Join(parts, "  ")
}
