// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SPINNER - activity marker while auto-play types
// =============================================================================

// Spinner wraps the bubbles spinner with start/stop state.
type Spinner struct {
	spinner   spinner.Model
	isActive  bool
	startTime time.Time
}

// NewSpinner creates an ASCII line spinner.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Spinner{spinner: s}
}

// Start activates the spinner. It returns the first tick only when the
// spinner was idle, so repeated starts do not double the tick rate.
func (s *Spinner) Start() tea.Cmd {
	if s.isActive {
		return nil
	}
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Update advances the spinner frame. Ticks arriving after Stop are dropped.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View returns the current frame, or "" when stopped.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	return s.spinner.View()
}
