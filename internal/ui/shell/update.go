// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termfolio/internal/tasks"
	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case FrameMsg:
		return m.handleFrame(msg)

	case PlayerEventMsg:
		return m.handlePlayerEvent(msg)

	case ContentReloadedMsg:
		return m.handleContentReload(msg)

	case TranscriptSavedMsg:
		if msg.Error != nil {
			m.logger.Warn("transcript save failed", "error", msg.Error)
			cmd := m.setStatus("save failed")
			return m, cmd
		}
		cmd := m.setStatus("saved " + msg.ID)
		return m, cmd

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status.Message = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.status.Spinner = m.spinner.View()
		return m, cmd
	}

	if m.engine.Mode() == terminal.ModeInteractive {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layoutMode = m.theme.GetLayoutMode()
	m.applyLayout()

	if err := m.controller.Observe(m.pane.Layout()); err != nil {
		m.logger.Debug("observe skipped", "error", err)
	}
	m.ready = true
	cmd := m.scrolled()
	return m, cmd
}

// applyLayout sizes every component for the current window.
func (m *Model) applyLayout() {
	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)

	bodyH := max(m.height-lipgloss.Height(m.renderHeader())-1, windowChrome+2)
	paneW, paneH, termW, termH := m.bodySplit(bodyH)

	m.pane.SetSize(paneW-2, paneH)
	m.transcript.SetSize(termW-4, max(termH-windowChrome-m.hintRows(), 1))
	m.input.Width = max(termW-8, 4)
}

// bodySplit returns the sizes of the sections pane and the terminal window.
// Wide terminals place them side by side; others stack the pane on top.
func (m *Model) bodySplit(bodyH int) (paneW, paneH, termW, termH int) {
	if m.layoutMode == styles.LayoutWide {
		paneW = m.width * 2 / 5
		return paneW, bodyH, m.width - paneW, bodyH
	}
	paneH = max(bodyH*2/5, 4)
	return m.width, paneH, m.width, bodyH - paneH
}

// hintRows is the height of the line(s) under the prompt.
func (m *Model) hintRows() int {
	if m.hint.Visible() {
		return lipgloss.Height(m.hint.View())
	}
	return 1
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.ToggleMode):
		return m.toggleMode()

	case key.Matches(msg, m.keys.CycleTheme):
		m.engine.CycleTheme()
		m.syncTheme()
		cmd := m.setStatus("theme: " + m.theme.Tokens.Label)
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.engine.Run("clear")
		m.transcript.ScrollToBottom()
		m.syncTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		cmd := m.saveTranscript()
		return m, cmd

	case key.Matches(msg, m.keys.PageDown):
		m.pane.PageDown()
		cmd := m.scrolled()
		return m, cmd

	case key.Matches(msg, m.keys.PageUp):
		m.pane.PageUp()
		cmd := m.scrolled()
		return m, cmd
	}

	if m.engine.Mode() == terminal.ModeInteractive {
		return m.handleInteractiveKey(msg)
	}
	return m.handleScrollKey(msg)
}

// handleScrollKey handles keys while the prompt is read-only.
func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Escape):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ScrollDown):
		m.pane.ScrollBy(1)

	case key.Matches(msg, m.keys.ScrollUp):
		m.pane.ScrollBy(-1)

	case key.Matches(msg, m.keys.Top):
		m.pane.ScrollBy(-m.pane.ScrollTop())

	case key.Matches(msg, m.keys.Bottom):
		if ids := m.sectionIDs(); len(ids) > 0 {
			m.pane.ScrollToSection(ids[len(ids)-1])
		}

	case key.Matches(msg, m.keys.Submit):
		// The read-only prompt invites typing: enter switches modes.
		return m.toggleMode()

	default:
		return m, nil
	}
	cmd := m.scrolled()
	return m, cmd
}

// handleInteractiveKey handles keys while the visitor types commands.
func (m Model) handleInteractiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.toggleMode()

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return m, nil

	case key.Matches(msg, m.keys.HistoryPrev):
		m.recall(-1)
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext):
		m.recall(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.historyPos = -1
	if m.hint.Visible() {
		m.hint.Update(m.input.Value())
		m.applyLayout()
	}
	return m, cmd
}

// submit runs the typed command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.input.Reset()
	m.historyPos = -1
	m.draft = ""
	m.hint.Clear()

	if m.engine.Run(value) != nil && m.onCommand != nil {
		m.onCommand(value, m.engine.Known(value))
	}
	m.transcript.ScrollToBottom()
	m.syncTheme()
	m.syncTranscript()
	m.applyLayout()
	return m, nil
}

// complete applies tab completion and shows the candidates when ambiguous.
func (m *Model) complete() {
	value := m.input.Value()
	if completed := terminal.Complete(value); completed != value {
		m.input.SetValue(completed)
		m.input.CursorEnd()
	}
	m.hint.Update(m.input.Value())
	m.applyLayout()
}

// recall walks the command log. dir is -1 for older, 1 for newer.
func (m *Model) recall(dir int) {
	history := m.engine.History()
	if len(history) == 0 {
		return
	}

	pos := m.historyPos
	if pos == -1 {
		if dir > 0 {
			return
		}
		m.draft = m.input.Value()
		pos = len(history)
	}
	pos += dir

	switch {
	case pos < 0:
		pos = 0
	case pos >= len(history):
		m.historyPos = -1
		m.input.SetValue(m.draft)
		m.input.CursorEnd()
		return
	}
	m.historyPos = pos
	m.input.SetValue(history[pos])
	m.input.CursorEnd()
}

// toggleMode flips the engine mode and moves focus to or from the input.
func (m Model) toggleMode() (tea.Model, tea.Cmd) {
	mode := m.engine.ToggleMode()
	m.status.Mode = mode
	m.hint.Clear()
	m.historyPos = -1
	m.applyLayout()

	if mode == terminal.ModeInteractive {
		cmd := tea.Batch(m.input.Focus(), textinput.Blink, m.setStatus("interactive terminal"))
		return m, cmd
	}
	m.input.Blur()
	m.caretStart = m.now()
	cmd := tea.Batch(m.setStatus("scroll mode"), m.scheduleFrame())
	return m, cmd
}

// =============================================================================
// MOUSE
// =============================================================================

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	overPane := m.overPane(msg.X, msg.Y)

	switch msg.Type {
	case tea.MouseWheelDown:
		if overPane {
			m.pane.ScrollBy(3)
			cmd := m.scrolled()
			return m, cmd
		}
	case tea.MouseWheelUp:
		if overPane {
			m.pane.ScrollBy(-3)
			cmd := m.scrolled()
			return m, cmd
		}
	}
	if !overPane {
		return m, m.transcript.Update(msg)
	}
	return m, nil
}

// overPane reports whether a screen cell belongs to the sections pane.
func (m *Model) overPane(x, y int) bool {
	top := lipgloss.Height(m.renderHeader())
	if y < top {
		return false
	}
	bodyH := max(m.height-top-1, windowChrome+2)
	paneW, paneH, _, _ := m.bodySplit(bodyH)
	if m.layoutMode == styles.LayoutWide {
		return x < paneW
	}
	return y < top+paneH
}

// =============================================================================
// FRAMES
// =============================================================================

// scrolled reports the pane viewport to the controller, starts entrance
// slides for sections that fired and schedules a frame.
func (m *Model) scrolled() tea.Cmd {
	now := m.now()
	for _, s := range m.controller.Scroll(m.pane.Viewport()) {
		m.pane.Reveal(s.ID, m.revealCfg.EntranceOffset, now)
	}
	m.status.Revealed = len(m.controller.TriggeredIDs())
	m.syncQueue()
	return m.scheduleFrame()
}

// needsFrame reports whether anything on screen is still moving.
func (m *Model) needsFrame(now time.Time) bool {
	if m.controller.FramePending() || m.pane.Animating(now) {
		return true
	}
	_, typing := m.engine.Typing()
	return typing
}

// frameInterval returns the delay before the next frame.
func (m *Model) frameInterval(now time.Time) time.Duration {
	if m.controller.FramePending() || m.pane.Animating(now) {
		return max(m.revealCfg.FrameInterval, minFrameInterval)
	}
	return styles.CursorBlinkRate
}

// scheduleFrame queues one FrameMsg unless one is already queued or nothing
// is moving.
func (m *Model) scheduleFrame() tea.Cmd {
	now := m.now()
	if m.frameQueued || !m.needsFrame(now) {
		return nil
	}
	m.frameQueued = true
	return tea.Tick(m.frameInterval(now), func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

func (m Model) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	m.frameQueued = false
	m.controller.Tick(msg.Time)
	cmd := m.scheduleFrame()
	return m, cmd
}

// =============================================================================
// AUTO-PLAY
// =============================================================================

func (m Model) handlePlayerEvent(msg PlayerEventMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.Phase {
	case tasks.PhaseTyping:
		m.status.Typing = true
		if cmd := m.spinner.Start(); cmd != nil {
			m.caretStart = m.now()
			cmds = append(cmds, cmd)
		}
	case tasks.PhaseExecuted, tasks.PhaseCanceled:
		m.status.Typing = false
		m.syncTheme()
		m.syncTranscript()
	}

	m.syncQueue()
	if m.status.Pending == 0 && !m.status.Typing {
		m.spinner.Stop()
	}
	m.status.Spinner = m.spinner.View()
	cmds = append(cmds, m.scheduleFrame())
	cmd := tea.Batch(cmds...)
	return m, cmd
}

// =============================================================================
// CONTENT RELOAD
// =============================================================================

// handleContentReload swaps in new sections and outputs. Sections already
// revealed stay revealed and do not fire again.
func (m Model) handleContentReload(msg ContentReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Bundle == nil {
		return m, nil
	}
	m.engine.SetOutputs(msg.Bundle.Outputs)

	revealed := m.controller.TriggeredIDs()
	m.controller.Dispose()
	m.sections = msg.Bundle.Sections
	m.controller = newController(m.engine, m.sections, m.revealCfg, revealed, m.logger)
	m.pane.SetSections(m.sections)
	m.status.Sections = len(m.sections)

	if m.ready {
		if err := m.controller.Observe(m.pane.Layout()); err != nil {
			m.logger.Debug("observe skipped", "error", err)
		}
	}
	m.logger.Info("content reloaded", "sections", len(m.sections))
	cmd := tea.Batch(m.scrolled(), m.setStatus("content reloaded"))
	return m, cmd
}

// =============================================================================
// HELPERS
// =============================================================================

// syncTranscript re-renders the transcript if the engine changed.
func (m *Model) syncTranscript() {
	v := m.engine.Version()
	if v == m.version {
		return
	}
	m.version = v
	m.transcript.SetEntries(m.engine.Transcript())
}

// syncTheme rebuilds styles when the engine theme changed.
func (m *Model) syncTheme() {
	name := m.engine.Theme()
	if name == m.themeName {
		return
	}
	m.themeName = name
	m.theme = styles.NewThemeWithRenderer(name, m.renderer)
	m.theme.SetSize(m.width, m.height)

	m.header.SetTheme(m.theme)
	m.status.SetTheme(m.theme)
	m.pane.SetTheme(m.theme)
	m.transcript.SetTheme(m.theme)
	m.hint.SetTheme(m.theme)
	m.input.PlaceholderStyle = m.theme.Placeholder
	m.input.TextStyle = m.theme.InputText
	m.input.Cursor.Style = m.theme.Caret

	if m.ready {
		m.applyLayout()
		if err := m.controller.Observe(m.pane.Layout()); err != nil {
			m.logger.Debug("observe skipped", "error", err)
		}
	}
}

func (m *Model) syncQueue() {
	if m.player != nil {
		m.status.Pending = m.player.Pending()
	}
}

// setStatus shows a transient status message.
func (m *Model) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.status.Message = text
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// saveTranscript archives the transcript off the update loop.
func (m *Model) saveTranscript() tea.Cmd {
	if m.archive == nil {
		return m.setStatus("saving disabled")
	}
	archive := m.archive
	theme := m.engine.Theme()
	entries := m.engine.Transcript()
	now := m.now()
	return func() tea.Msg {
		id, err := archive.Save(theme, entries, now)
		return TranscriptSavedMsg{ID: id, Error: err}
	}
}

func (m *Model) sectionIDs() []string {
	ids := make([]string, len(m.sections))
	for i, s := range m.sections {
		ids[i] = s.ID
	}
	return ids
}
