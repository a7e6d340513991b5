// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/ui/styles"
)

// =============================================================================
// COMPLETION HINT - candidate commands under the prompt
// =============================================================================

// CompletionHint lists the catalog commands matching the current input after
// a tab press that could not complete to a single command.
type CompletionHint struct {
	candidates []string
	maxVisible int
	theme      *styles.Theme
}

// NewCompletionHint creates an empty hint.
func NewCompletionHint(theme *styles.Theme) *CompletionHint {
	return &CompletionHint{maxVisible: 6, theme: theme}
}

// SetTheme swaps the theme.
func (c *CompletionHint) SetTheme(theme *styles.Theme) {
	c.theme = theme
}

// Update recomputes candidates for input. Fewer than two matches clear the hint.
func (c *CompletionHint) Update(input string) {
	cands := terminal.Candidates(input)
	if strings.TrimSpace(input) == "" || len(cands) < 2 {
		c.candidates = nil
		return
	}
	c.candidates = cands
}

// Clear hides the hint.
func (c *CompletionHint) Clear() {
	c.candidates = nil
}

// Visible reports whether there is anything to show.
func (c *CompletionHint) Visible() bool {
	return len(c.candidates) > 0
}

// Candidates returns the current candidates.
func (c *CompletionHint) Candidates() []string {
	return c.candidates
}

// View renders one candidate per row with its description.
func (c *CompletionHint) View() string {
	if !c.Visible() {
		return ""
	}
	shown := c.candidates
	more := 0
	if len(shown) > c.maxVisible {
		more = len(shown) - c.maxVisible
		shown = shown[:c.maxVisible]
	}

	rows := make([]string, 0, len(shown)+1)
	for _, key := range shown {
		row := c.theme.Accent.Render(key)
		if d, ok := terminal.LookupCommand(key); ok {
			row += "  " + c.theme.Muted.Render(d.Description)
		}
		rows = append(rows, row)
	}
	if more > 0 {
		rows = append(rows, c.theme.Muted.Render("+"+strconv.Itoa(more)+" more"))
	}
	return strings.Join(rows, "\n")
}
