// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/ui/styles"
)

// =============================================================================
// STYLED TRANSCRIPT RENDERING
// =============================================================================

// RenderEntry renders one transcript entry with theme colors.
// Every returned row ends with a newline.
func RenderEntry(theme *styles.Theme, e terminal.Entry, width int) string {
	if e.Kind == terminal.EntryCommand {
		return theme.Prompt.Render(terminal.Prompt) + " " + theme.Command.Render(e.Command) + "\n"
	}
	return RenderLines(theme, e.Lines, width)
}

// RenderTranscript renders all entries in order.
func RenderTranscript(theme *styles.Theme, entries []terminal.Entry, width int) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(RenderEntry(theme, e, width))
	}
	return b.String()
}

// RenderLines renders output lines with theme colors, wrapping text to width.
func RenderLines(theme *styles.Theme, lines []terminal.Line, width int) string {
	var b strings.Builder
	for _, line := range lines {
		switch l := line.(type) {
		case terminal.Text:
			style := theme.ToneStyle(l.Tone)
			if width > 0 {
				style = style.Width(width)
			}
			b.WriteString(style.Render(l.Value) + "\n")
		case terminal.Heading:
			b.WriteString(theme.Heading.Render(strings.ToUpper(l.Value)) + "\n")
		case terminal.List:
			if l.Title != "" {
				b.WriteString(theme.ListTitle.Render(l.Title) + "\n")
			}
			for _, item := range l.Items {
				b.WriteString("  " + theme.Bullet.Render("•") + " " + theme.Text.Render(item) + "\n")
			}
		case terminal.Columns:
			b.WriteString(renderStyledColumns(theme, l, width))
		case terminal.Link:
			b.WriteString(renderLink(theme, l) + "\n")
		case terminal.ASCII:
			b.WriteString(theme.ASCII.Render(strings.Join(l.Lines, "\n")) + "\n")
		case terminal.Spacer:
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderLink(theme *styles.Theme, l terminal.Link) string {
	var parts []string
	if l.Prefix != "" {
		parts = append(parts, theme.Muted.Render(l.Prefix))
	}
	parts = append(parts, theme.Link.Render(l.Label))
	if l.ShowsHref() {
		parts = append(parts, theme.LinkHref.Render("<"+l.Href+">"))
	}
	return strings.Join(parts, " ")
}

// renderStyledColumns reuses the plain layout and colors the title row.
func renderStyledColumns(theme *styles.Theme, c terminal.Columns, width int) string {
	plain := terminal.RenderColumns(c, width)
	if plain == "" {
		return ""
	}
	rows := strings.Split(strings.TrimSuffix(plain, "\n"), "\n")
	titles := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		titles[col.Title] = true
	}

	var b strings.Builder
	for i, row := range rows {
		// Side-by-side layout puts every title on row 0; stacked layout puts
		// each title on its own unindented row.
		if i == 0 || titles[row] {
			b.WriteString(theme.ColumnTitle.Render(row) + "\n")
			continue
		}
		b.WriteString(theme.Text.Render(row) + "\n")
	}
	return b.String()
}
