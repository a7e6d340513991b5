// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown. Commands become console blocks
// and output blocks use the same markdown as `termfolio show`.
func (e *MarkdownExporter) Export(t *storage.SavedTranscript) ([]byte, error) {
	if err := validate(t); err != nil {
		return nil, err
	}
	blocks, err := decode(t)
	if err != nil {
		return nil, err
	}
	commands := t.Commands()

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "title: %s\n", escapeYAML("termfolio transcript "+t.ID))
		fmt.Fprintf(&sb, "theme: %s\n", escapeYAML(t.Theme))
		fmt.Fprintf(&sb, "date: %s\n", t.SavedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "commands: %d\n", len(commands))
		fmt.Fprintf(&sb, "exported: %s\n", e.options.now().Format(time.RFC3339))
		sb.WriteString("generator: termfolio\n")
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# Transcript %s\n\n", escapeMarkdown(t.ID))

	if e.options.IncludeMetadata {
		fmt.Fprintf(&sb, "- **Theme**: %s\n", t.Theme)
		fmt.Fprintf(&sb, "- **Saved**: %s\n", formatTimestamp(t.SavedAt))
		fmt.Fprintf(&sb, "- **Commands**: %d\n", len(commands))
		sb.WriteString("\n---\n\n")
	}

	for _, b := range blocks {
		if b.kind == terminal.EntryCommand {
			sb.WriteString("```console\n")
			fmt.Fprintf(&sb, "%s %s\n", terminal.Prompt, b.command)
			sb.WriteString("```\n")
			if e.options.IncludeTimestamps && !b.at.IsZero() {
				fmt.Fprintf(&sb, "<sub>%s</sub>\n", formatShortTimestamp(b.at))
			}
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(terminal.Markdown(b.lines))
	}

	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "*Exported from termfolio on %s*\n", e.options.now().Format("January 2, 2006 at 3:04 PM"))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML quotes a frontmatter value when it holds special characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
