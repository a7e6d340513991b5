// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/ui/styles"
	"github.com/jeranaias/termfolio/internal/util"
)

// Hint lines under the prompt.
const (
	scrollHint      = "Scroll to reveal sections or press ctrl+t to type."
	interactiveHint = "Type `help` for commands. tab completes, esc returns to scroll mode."
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the shell.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	bodyH := max(m.height-lipgloss.Height(header)-1, windowChrome+2)
	paneW, paneH, termW, termH := m.bodySplit(bodyH)

	pane := lipgloss.NewStyle().Width(paneW).Height(paneH).MaxHeight(paneH).
		Render(m.pane.View(m.controller, m.now()))
	term := m.renderTerminal(termW, termH)

	var body string
	if m.layoutMode == styles.LayoutWide {
		body = lipgloss.JoinHorizontal(lipgloss.Top, pane, term)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, pane, term)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.status.View())
}

func (m Model) renderHeader() string {
	if m.layoutMode == styles.LayoutNarrow {
		return m.header.ViewCompact()
	}
	return m.header.View()
}

// renderTerminal renders the terminal window: title, transcript, prompt and
// the hint area.
func (m Model) renderTerminal(width, height int) string {
	inner := max(width-4, 4)

	title := m.theme.WindowTitle.Render(util.TruncateWidth(windowTitle, inner))
	rows := []string{title, m.transcript.View(), m.renderPrompt(inner), m.renderHint(inner)}

	return m.theme.Window.
		Width(width - 2).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderPrompt shows the editable input in interactive mode. In scrollAuto
// mode it shows the auto-typed text followed by a blinking caret.
func (m Model) renderPrompt(width int) string {
	prompt := m.theme.Prompt.Render(terminal.Prompt) + " "
	if m.engine.Mode() == terminal.ModeInteractive {
		return prompt + m.input.View()
	}

	typed, active := m.engine.Typing()
	if !active {
		return prompt
	}
	avail := max(width-lipgloss.Width(prompt)-1, 1)
	caret := styles.CaretFrame(m.now().Sub(m.caretStart))
	return prompt + m.theme.InputText.Render(util.TruncateWidth(typed, avail)) + m.theme.Caret.Render(caret)
}

func (m Model) renderHint(width int) string {
	if m.engine.Mode() == terminal.ModeInteractive {
		if m.hint.Visible() {
			return m.hint.View()
		}
		return m.theme.Muted.Render(util.TruncateWidth(interactiveHint, width))
	}
	if _, active := m.engine.Typing(); active {
		return ""
	}
	return m.theme.Muted.Render(util.TruncateWidth(scrollHint, width))
}
