// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/termfolio/internal/terminal"
)

// Theme holds every styled component for one terminal theme.
// Styles are bound to a renderer so SSH sessions color for their own client.
type Theme struct {
	Tokens terminal.ThemeTokens

	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// APPLICATION AND HEADER
	// ==========================================================================

	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// TERMINAL WINDOW
	// ==========================================================================

	Window      lipgloss.Style
	WindowTitle lipgloss.Style
	Prompt      lipgloss.Style
	Command     lipgloss.Style
	InputText   lipgloss.Style
	Placeholder lipgloss.Style
	Caret       lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT LINES
	// ==========================================================================

	Heading     lipgloss.Style
	Text        lipgloss.Style
	Accent      lipgloss.Style
	Muted       lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Link        lipgloss.Style
	LinkHref    lipgloss.Style
	Bullet      lipgloss.Style
	ListTitle   lipgloss.Style
	ColumnTitle lipgloss.Style
	ASCII       lipgloss.Style

	// ==========================================================================
	// SECTIONS PANE
	// ==========================================================================

	SectionsPane   lipgloss.Style
	SectionCard    lipgloss.Style
	SectionUnseen  lipgloss.Style
	SectionLabel   lipgloss.Style
	SectionSummary lipgloss.Style
	SectionBody    lipgloss.Style
	Button         lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar       lipgloss.Style
	ModeScroll      lipgloss.Style
	ModeInteractive lipgloss.Style
	ThemeBadge      lipgloss.Style
	ShortcutKey     lipgloss.Style
	ShortcutDesc    lipgloss.Style
}

// NewTheme builds the named theme for the process's own terminal.
func NewTheme(name string) *Theme {
	return NewThemeWithRenderer(name, lipgloss.DefaultRenderer())
}

// NewThemeWithRenderer builds the named theme on a specific renderer.
// Unknown names resolve the same way the command engine resolves them.
func NewThemeWithRenderer(name string, r *lipgloss.Renderer) *Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	tok := terminal.ThemeByName(name)
	t := &Theme{
		Tokens:       tok,
		IsDark:       IsDarkHex(tok.Background),
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// Name returns the theme name.
func (t *Theme) Name() string {
	return t.Tokens.Name
}

// Renderer returns the renderer the styles are bound to.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// initStyles initializes all the lip gloss styles from the tokens.
func (t *Theme) initStyles() {
	tok := t.Tokens
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	s := t.renderer.NewStyle

	t.App = s().Background(c(tok.Body))

	// Header
	t.Header = s().
		Foreground(c(tok.Primary)).
		Background(c(tok.Background)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(tok.Border)).
		Padding(0, 2)

	t.HeaderBrand = s().Bold(true).Foreground(c(tok.Glow))
	t.HeaderTitle = s().Bold(true).Foreground(c(tok.Primary))
	t.HeaderSubtitle = s().Italic(true).Foreground(c(tok.Secondary))

	// Terminal window
	t.Window = s().
		Foreground(c(tok.Primary)).
		Background(c(tok.Background)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(tok.Glow)).
		Padding(0, 1)

	t.WindowTitle = s().Foreground(c(tok.Muted))
	t.Prompt = s().Bold(true).Foreground(c(tok.Prompt))
	t.Command = s().Foreground(c(tok.Primary))
	t.InputText = s().Foreground(c(tok.Primary))
	t.Placeholder = s().Italic(true).Foreground(c(tok.Muted))
	t.Caret = s().Foreground(c(tok.Glow))

	// Transcript lines
	t.Heading = s().Bold(true).Foreground(c(tok.Accent))
	t.Text = s().Foreground(c(tok.Primary))
	t.Accent = s().Foreground(c(tok.Accent))
	t.Muted = s().Foreground(c(tok.Muted))
	t.Success = s().Foreground(c(tok.Success))
	t.Error = s().Bold(true).Foreground(c(tok.Error))
	t.Link = s().Underline(true).Foreground(c(tok.Link))
	t.LinkHref = s().Foreground(c(tok.Muted))
	t.Bullet = s().Foreground(c(tok.Accent))
	t.ListTitle = s().Bold(true).Foreground(c(tok.Secondary))
	t.ColumnTitle = s().Bold(true).Underline(true).Foreground(c(tok.Secondary))
	t.ASCII = s().Bold(true).Foreground(c(tok.Glow))

	// Sections pane
	t.SectionsPane = s().Padding(0, 1)

	t.SectionCard = s().
		Foreground(c(tok.Primary)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(c(tok.Border)).
		PaddingLeft(2).
		MarginBottom(1)

	t.SectionUnseen = t.SectionCard.
		Foreground(BlendHex(tok.Primary, tok.Background, 0.6)).
		BorderForeground(BlendHex(tok.Border, tok.Background, 0.6))

	t.SectionLabel = s().Bold(true).Foreground(c(tok.Accent))
	t.SectionSummary = s().Italic(true).Foreground(c(tok.Secondary))
	t.SectionBody = s().Foreground(c(tok.Primary))
	t.Button = s().
		Foreground(c(tok.ButtonText)).
		Background(c(tok.ButtonBg)).
		Padding(0, 1)

	// Status bar
	t.StatusBar = s().
		Foreground(c(tok.Secondary)).
		Background(BlendHex(tok.Background, tok.Body, 0.5)).
		Padding(0, 1)

	t.ModeScroll = s().Bold(true).Foreground(c(tok.Success))
	t.ModeInteractive = s().Bold(true).Foreground(c(tok.Accent))
	t.ThemeBadge = s().Foreground(c(tok.Icon))
	t.ShortcutKey = s().Bold(true).Foreground(c(tok.Prompt))
	t.ShortcutDesc = s().Foreground(c(tok.Muted))
}

// ToneStyle returns the style for a text line tone.
func (t *Theme) ToneStyle(tone terminal.Tone) lipgloss.Style {
	switch tone {
	case terminal.ToneAccent:
		return t.Accent
	case terminal.ToneMuted:
		return t.Muted
	case terminal.ToneSuccess:
		return t.Success
	case terminal.ToneError:
		return t.Error
	default:
		return t.Text
	}
}

// ModeStyle returns the status bar style for an engine mode.
func (t *Theme) ModeStyle(m terminal.Mode) lipgloss.Style {
	if m == terminal.ModeInteractive {
		return t.ModeInteractive
	}
	return t.ModeScroll
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns: terminal only
	LayoutMedium                   // 60-100 columns: stacked panes
	LayoutWide                     // > 100 columns: side by side
)
