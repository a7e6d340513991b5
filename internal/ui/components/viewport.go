// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT VIEWPORT - scrollable terminal output
// =============================================================================

// TranscriptViewport is the scrollable terminal output area. It follows new
// output until the user scrolls up.
type TranscriptViewport struct {
	viewport   viewport.Model
	theme      *styles.Theme
	entries    []terminal.Entry
	width      int
	height     int
	autoScroll bool
}

// NewTranscriptViewport creates an empty viewport.
func NewTranscriptViewport(theme *styles.Theme) *TranscriptViewport {
	vp := viewport.New(80, 20)
	return &TranscriptViewport{
		viewport:   vp,
		theme:      theme,
		width:      80,
		height:     20,
		autoScroll: true,
	}
}

// SetSize updates the viewport dimensions.
func (tv *TranscriptViewport) SetSize(width, height int) {
	tv.width = max(width, 10)
	tv.height = max(height, 1)
	tv.viewport.Width = tv.width
	tv.viewport.Height = tv.height
	tv.updateContent()
}

// SetTheme swaps the theme and re-renders.
func (tv *TranscriptViewport) SetTheme(theme *styles.Theme) {
	tv.theme = theme
	tv.updateContent()
}

// SetEntries replaces the transcript.
func (tv *TranscriptViewport) SetEntries(entries []terminal.Entry) {
	tv.entries = entries
	tv.updateContent()
}

func (tv *TranscriptViewport) updateContent() {
	content := strings.TrimSuffix(RenderTranscript(tv.theme, tv.entries, tv.width), "\n")
	tv.viewport.SetContent(content)
	if tv.autoScroll {
		tv.viewport.GotoBottom()
	}
}

// ScrollUp scrolls up and stops following new output.
func (tv *TranscriptViewport) ScrollUp(lines int) {
	tv.autoScroll = false
	tv.viewport.LineUp(lines)
}

// ScrollDown scrolls down; reaching the bottom resumes following.
func (tv *TranscriptViewport) ScrollDown(lines int) {
	tv.viewport.LineDown(lines)
	if tv.viewport.AtBottom() {
		tv.autoScroll = true
	}
}

// ScrollToBottom jumps to the newest output and resumes following.
func (tv *TranscriptViewport) ScrollToBottom() {
	tv.viewport.GotoBottom()
	tv.autoScroll = true
}

// AtBottom returns true if the newest output is visible.
func (tv *TranscriptViewport) AtBottom() bool {
	return tv.viewport.AtBottom()
}

// Following reports whether new output scrolls into view.
func (tv *TranscriptViewport) Following() bool {
	return tv.autoScroll
}

// Update handles mouse wheel scrolling.
func (tv *TranscriptViewport) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(tea.MouseMsg); ok {
		switch m.Type {
		case tea.MouseWheelUp:
			tv.ScrollUp(3)
			return nil
		case tea.MouseWheelDown:
			tv.ScrollDown(3)
			return nil
		}
	}
	var cmd tea.Cmd
	tv.viewport, cmd = tv.viewport.Update(msg)
	return cmd
}

// View renders the visible part of the transcript.
func (tv *TranscriptViewport) View() string {
	return tv.viewport.View()
}
