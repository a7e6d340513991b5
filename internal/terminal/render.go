// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Prompt is printed before echoed commands.
const Prompt = "visitor@termfolio:~$"

// =============================================================================
// PLAIN TEXT
// =============================================================================

// RenderEntry renders one transcript entry as plain text.
func RenderEntry(e Entry, width int) string {
	if e.Kind == EntryCommand {
		return Prompt + " " + e.Command + "\n"
	}
	return RenderLines(e.Lines, width)
}

// RenderTranscript renders a whole transcript as plain text.
func RenderTranscript(entries []Entry, width int) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(RenderEntry(e, width))
	}
	return b.String()
}

// RenderLines renders lines as plain text, one line per row.
// Columns are laid out side by side when width allows and stacked otherwise.
func RenderLines(lines []Line, width int) string {
	var b strings.Builder
	for _, line := range lines {
		switch l := line.(type) {
		case Text:
			b.WriteString(l.Value + "\n")
		case Heading:
			b.WriteString(strings.ToUpper(l.Value) + "\n")
		case List:
			if l.Title != "" {
				b.WriteString(l.Title + "\n")
			}
			for _, item := range l.Items {
				b.WriteString("  • " + item + "\n")
			}
		case Columns:
			b.WriteString(RenderColumns(l, width))
		case Link:
			b.WriteString(linkText(l) + "\n")
		case ASCII:
			b.WriteString(strings.Join(l.Lines, "\n") + "\n")
		case Spacer:
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ShowsHref reports whether the link target is printed after the label.
// It is hidden for mail links and when it repeats the label.
func (l Link) ShowsHref() bool {
	return l.Href != "" && l.Href != l.Label && !strings.HasPrefix(l.Href, "mailto:")
}

func linkText(l Link) string {
	text := l.Label
	if l.ShowsHref() {
		text = fmt.Sprintf("%s <%s>", l.Label, l.Href)
	}
	if l.Prefix != "" {
		text = l.Prefix + " " + text
	}
	return text
}

// RenderColumns lays out columns as plain text, padding each column to its
// widest cell. Columns stack vertically when they do not fit in width.
func RenderColumns(c Columns, width int) string {
	if len(c.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(c.Columns))
	rows := 0
	total := 0
	for i, col := range c.Columns {
		w := runewidth.StringWidth(col.Title)
		for _, item := range col.Items {
			if iw := runewidth.StringWidth(item) + 2; iw > w {
				w = iw
			}
		}
		widths[i] = w
		total += w + 3
		if len(col.Items) > rows {
			rows = len(col.Items)
		}
	}

	var b strings.Builder
	if width > 0 && total > width {
		for _, col := range c.Columns {
			b.WriteString(col.Title + "\n")
			for _, item := range col.Items {
				b.WriteString("  " + item + "\n")
			}
		}
		return b.String()
	}

	cells := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		cells[i] = runewidth.FillRight(col.Title, widths[i])
	}
	b.WriteString(strings.TrimRight(strings.Join(cells, "   "), " ") + "\n")
	for r := 0; r < rows; r++ {
		for i, col := range c.Columns {
			cell := ""
			if r < len(col.Items) {
				cell = "  " + col.Items[r]
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "   "), " ") + "\n")
	}
	return b.String()
}

// =============================================================================
// MARKDOWN
// =============================================================================

// Markdown renders lines as a markdown document.
func Markdown(lines []Line) string {
	var b strings.Builder
	for _, line := range lines {
		switch l := line.(type) {
		case Text:
			switch l.Tone {
			case ToneAccent:
				b.WriteString("**" + l.Value + "**\n\n")
			case ToneMuted:
				b.WriteString("*" + l.Value + "*\n\n")
			case ToneError:
				b.WriteString("> " + l.Value + "\n\n")
			default:
				b.WriteString(l.Value + "\n\n")
			}
		case Heading:
			b.WriteString("## " + l.Value + "\n\n")
		case List:
			if l.Title != "" {
				b.WriteString("**" + l.Title + "**\n\n")
			}
			for _, item := range l.Items {
				b.WriteString("- " + item + "\n")
			}
			b.WriteString("\n")
		case Columns:
			for _, col := range l.Columns {
				b.WriteString("### " + col.Title + "\n\n")
				for _, item := range col.Items {
					b.WriteString("- " + item + "\n")
				}
				b.WriteString("\n")
			}
		case Link:
			if l.Prefix != "" {
				b.WriteString(l.Prefix + " ")
			}
			fmt.Fprintf(&b, "[%s](%s)\n\n", l.Label, l.Href)
		case ASCII:
			b.WriteString("```\n" + strings.Join(l.Lines, "\n") + "\n```\n\n")
		case Spacer:
			b.WriteString("\n")
		}
	}
	return b.String()
}
