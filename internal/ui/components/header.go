// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termfolio/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - title bar with owner and theme
// =============================================================================

// Header is the top title bar.
type Header struct {
	Title    string // Brand (default: "termfolio")
	Subtitle string // Owner name and role
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "termfolio",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTheme swaps the theme.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// View renders the bordered header.
func (h *Header) View() string {
	width := max(h.Width, 40)
	inner := width - 6

	brand := h.theme.Accent.Render("< ") + h.theme.HeaderBrand.Render(h.Title) + h.theme.Accent.Render(" >")
	lines := []string{lipgloss.PlaceHorizontal(inner, lipgloss.Center, brand)}

	sub := h.subtitle()
	if sub != "" {
		lines = append(lines, lipgloss.PlaceHorizontal(inner, lipgloss.Center, h.theme.HeaderSubtitle.Render(sub)))
	}
	return h.theme.Header.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// ViewCompact renders a single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	parts := []string{h.theme.HeaderBrand.Render(h.Title)}
	if sub := h.subtitle(); sub != "" {
		parts = append(parts, h.theme.HeaderSubtitle.Render(sub))
	}
	return strings.Join(parts, h.theme.Muted.Render(" | "))
}

func (h *Header) subtitle() string {
	parts := []string{}
	if h.Subtitle != "" {
		parts = append(parts, h.Subtitle)
	}
	parts = append(parts, "theme: "+h.theme.Tokens.Label)
	return strings.Join(parts, " · ")
}
