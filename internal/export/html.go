// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page styled with the
// transcript's theme.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *storage.SavedTranscript) ([]byte, error) {
	if err := validate(t); err != nil {
		return nil, err
	}
	blocks, err := decode(t)
	if err != nil {
		return nil, err
	}
	theme := terminal.ThemeByName(t.Theme)

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>termfolio transcript %s</title>\n", html.EscapeString(t.ID))
	sb.WriteString("    <meta name=\"generator\" content=\"termfolio\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", t.SavedAt.Format(time.RFC3339))
	sb.WriteString(css(theme))
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"theme-%s\">\n", html.EscapeString(theme.Name))
	sb.WriteString("    <div class=\"window\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		fmt.Fprintf(&sb, "            <h1>Transcript %s</h1>\n", html.EscapeString(t.ID))
		sb.WriteString("            <div class=\"metadata\">\n")
		fmt.Fprintf(&sb, "                <span><strong>Theme:</strong> %s</span>\n", html.EscapeString(theme.Label))
		fmt.Fprintf(&sb, "                <span><strong>Saved:</strong> %s</span>\n", formatTimestamp(t.SavedAt))
		fmt.Fprintf(&sb, "                <span><strong>Commands:</strong> %d</span>\n", len(t.Commands()))
		sb.WriteString("            </div>\n")
		sb.WriteString("        </header>\n")
	}

	sb.WriteString("        <main class=\"terminal\">\n")
	for _, b := range blocks {
		if b.kind == terminal.EntryCommand {
			sb.WriteString(e.renderCommand(b))
			continue
		}
		sb.WriteString("            <section class=\"output\">\n")
		for _, line := range b.lines {
			sb.WriteString(renderLine(line))
		}
		sb.WriteString("            </section>\n")
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>termfolio</strong> on %s</p>\n",
		e.options.now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderCommand(b block) string {
	var sb strings.Builder
	sb.WriteString("            <div class=\"command\">")
	fmt.Fprintf(&sb, "<span class=\"prompt\">%s</span> %s", html.EscapeString(terminal.Prompt), html.EscapeString(b.command))
	if e.options.IncludeTimestamps && !b.at.IsZero() {
		fmt.Fprintf(&sb, " <span class=\"timestamp\">%s</span>", formatShortTimestamp(b.at))
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

// renderLine renders one output line. All text is escaped.
func renderLine(line terminal.Line) string {
	const indent = "                "
	esc := html.EscapeString

	switch l := line.(type) {
	case terminal.Text:
		tone := l.Tone
		if tone == "" {
			tone = terminal.ToneDefault
		}
		return fmt.Sprintf("%s<p class=\"tone-%s\">%s</p>\n", indent, esc(string(tone)), esc(l.Value))
	case terminal.Heading:
		return fmt.Sprintf("%s<h2>%s</h2>\n", indent, esc(l.Value))
	case terminal.List:
		var sb strings.Builder
		if l.Title != "" {
			fmt.Fprintf(&sb, "%s<p class=\"list-title\">%s</p>\n", indent, esc(l.Title))
		}
		sb.WriteString(indent + "<ul>\n")
		for _, item := range l.Items {
			fmt.Fprintf(&sb, "%s    <li>%s</li>\n", indent, esc(item))
		}
		sb.WriteString(indent + "</ul>\n")
		return sb.String()
	case terminal.Columns:
		var sb strings.Builder
		sb.WriteString(indent + "<div class=\"columns\">\n")
		for _, col := range l.Columns {
			fmt.Fprintf(&sb, "%s    <div class=\"column\"><h3>%s</h3><ul>", indent, esc(col.Title))
			for _, item := range col.Items {
				fmt.Fprintf(&sb, "<li>%s</li>", esc(item))
			}
			sb.WriteString("</ul></div>\n")
		}
		sb.WriteString(indent + "</div>\n")
		return sb.String()
	case terminal.Link:
		prefix := ""
		if l.Prefix != "" {
			prefix = esc(l.Prefix) + " "
		}
		return fmt.Sprintf("%s<p class=\"link\">%s<a href=\"%s\" rel=\"noopener noreferrer\">%s</a></p>\n",
			indent, prefix, esc(safeHref(l.Href)), esc(l.Label))
	case terminal.ASCII:
		return fmt.Sprintf("%s<pre class=\"ascii\">%s</pre>\n", indent, esc(strings.Join(l.Lines, "\n")))
	case terminal.Spacer:
		return indent + "<div class=\"spacer\"></div>\n"
	}
	return ""
}

// safeHref allows web and mail links only.
func safeHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return href
	}
	return "#"
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// css returns the page styles with the theme's tokens as custom properties.
func css(t terminal.ThemeTokens) string {
	var sb strings.Builder
	sb.WriteString("    <style>\n")
	sb.WriteString("        :root {\n")
	for _, v := range [][2]string{
		{"body", t.Body},
		{"background", t.Background},
		{"border", t.Border},
		{"glow", t.Glow},
		{"primary", t.Primary},
		{"secondary", t.Secondary},
		{"prompt", t.Prompt},
		{"accent", t.Accent},
		{"link", t.Link},
		{"success", t.Success},
		{"error", t.Error},
		{"muted", t.Muted},
	} {
		fmt.Fprintf(&sb, "            --%s: %s;\n", v[0], cssValue(v[1]))
	}
	sb.WriteString("        }\n")
	sb.WriteString(baseCSS)
	sb.WriteString("    </style>\n")
	return sb.String()
}

// cssValue keeps only characters that can appear in a color value.
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("#(),.% ", r):
			return r
		}
		return -1
	}, s)
}

const baseCSS = `        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: "SF Mono", "Monaco", "Inconsolata", "Fira Code", monospace;
            font-size: 15px;
            line-height: 1.6;
            background: var(--body);
            color: var(--primary);
            padding: 24px;
        }
        .window {
            max-width: 960px;
            margin: 0 auto;
            background: var(--background);
            border: 1px solid var(--border);
            border-radius: 12px;
            box-shadow: 0 0 24px var(--glow);
            overflow: hidden;
        }
        .header { padding: 24px 32px; border-bottom: 1px solid var(--border); }
        .header h1 { font-size: 22px; color: var(--accent); margin-bottom: 8px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 13px; color: var(--secondary); }
        .terminal { padding: 24px 32px; }
        .command { margin: 16px 0 8px; }
        .prompt { color: var(--prompt); }
        .timestamp { color: var(--muted); font-size: 12px; margin-left: 8px; }
        .output { margin-bottom: 8px; }
        .output p { margin: 4px 0; }
        .output h2 { font-size: 17px; color: var(--accent); margin: 8px 0; }
        .output h3 { font-size: 15px; color: var(--secondary); }
        .output ul { list-style: none; margin: 4px 0 4px 16px; }
        .output li::before { content: "- "; color: var(--muted); }
        .tone-accent { color: var(--accent); }
        .tone-muted { color: var(--muted); }
        .tone-success { color: var(--success); }
        .tone-error { color: var(--error); }
        .list-title { color: var(--secondary); font-weight: bold; }
        .columns { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 16px; }
        .link a { color: var(--link); }
        .ascii { color: var(--accent); white-space: pre; overflow-x: auto; }
        .spacer { height: 12px; }
        .footer { padding: 16px 32px; border-top: 1px solid var(--border); color: var(--muted); font-size: 12px; }
`
