// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func testOptions(dir string) *Options {
	return &Options{OutputDir: dir, IncludeMetadata: true, IncludeTimestamps: true, Now: func() time.Time { return fixedNow }}
}

func sampleTranscript(t *testing.T, theme string, cmds ...string) *storage.SavedTranscript {
	t.Helper()
	engine := terminal.NewEngine(terminal.Options{
		Theme: theme,
		Mode:  terminal.ModeInteractive,
		Now:   func() time.Time { return fixedNow },
	})
	for _, c := range cmds {
		engine.Run(c)
	}
	return &storage.SavedTranscript{
		ID:      "20250601-093000-abcd",
		Theme:   theme,
		SavedAt: fixedNow,
		Entries: terminal.ViewEntries(engine.Transcript()),
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		mime   string
	}{
		{"markdown", ".md", "text/markdown"},
		{"MD", ".md", "text/markdown"},
		{"html", ".html", "text/html"},
		{"json", ".json", "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := ForFormat(tt.format, nil)
			require.NoError(t, err)
			require.Equal(t, tt.ext, e.FileExtension())
			require.Equal(t, tt.mime, e.MimeType())
		})
	}

	_, err := ForFormat("pdf", nil)
	require.Error(t, err)
}

func TestMarkdownExporter(t *testing.T) {
	tr := sampleTranscript(t, "gruvbox", "about", "skills")

	out, err := NewMarkdownExporter(testOptions("")).Export(tr)
	require.NoError(t, err)
	md := string(out)

	require.True(t, strings.HasPrefix(md, "---\n"))
	require.Contains(t, md, "theme: gruvbox\n")
	require.Contains(t, md, "commands: 2\n")
	require.Contains(t, md, "```console\n"+terminal.Prompt+" about\n```")
	require.Contains(t, md, "## About")
	require.Contains(t, md, "## Skills")
	require.Contains(t, md, "June 1, 2025")
	require.Less(t, strings.Index(md, " about\n"), strings.Index(md, " skills\n"))
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	tr := sampleTranscript(t, "matrix", "about")
	opts := testOptions("")
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(tr)
	require.NoError(t, err)
	require.False(t, strings.HasPrefix(string(out), "---\n"))
	require.NotContains(t, string(out), "<sub>")
}

func TestHTMLExporter(t *testing.T) {
	tr := sampleTranscript(t, "monokai", "about", "contact")

	out, err := NewHTMLExporter(testOptions("")).Export(tr)
	require.NoError(t, err)
	page := string(out)

	theme := terminal.ThemeByName("monokai")
	require.Contains(t, page, "<body class=\"theme-monokai\">")
	require.Contains(t, page, "--background: "+theme.Background+";")
	require.Contains(t, page, "<span class=\"prompt\">visitor@termfolio:~$</span> about")
	require.Contains(t, page, "<h2>About</h2>")
	require.Contains(t, page, "<a href=")
}

func TestHTMLExporter_EscapesContent(t *testing.T) {
	tr := sampleTranscript(t, "matrix", "<script>alert(1)</script>")

	out, err := NewHTMLExporter(testOptions("")).Export(tr)
	require.NoError(t, err)
	require.NotContains(t, string(out), "<script>alert(1)</script>")
	require.Contains(t, string(out), "&lt;script&gt;")
}

func TestSafeHref(t *testing.T) {
	require.Equal(t, "https://example.com", safeHref("https://example.com"))
	require.Equal(t, "mailto:ada@example.com", safeHref("mailto:ada@example.com"))
	require.Equal(t, "#", safeHref("javascript:alert(1)"))
	require.Equal(t, "#", safeHref("%zz"))
}

func TestCSSValue(t *testing.T) {
	require.Equal(t, "#00ff41", cssValue("#00ff41"))
	require.Equal(t, "rgba(0, 255, 65, 0.3)", cssValue("rgba(0, 255, 65, 0.3)"))
	require.Equal(t, "redbodydisplaynone", cssValue("red;}body{display:none"))
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	tr := sampleTranscript(t, "light", "about")

	out, err := NewJSONExporter(nil).Export(tr)
	require.NoError(t, err)

	var got storage.SavedTranscript
	require.NoError(t, json.Unmarshal(out, &got))
	require.Equal(t, tr.ID, got.ID)
	require.Equal(t, []string{"about"}, got.Commands())
}

func TestExport_RejectsInvalid(t *testing.T) {
	for _, e := range []Exporter{NewMarkdownExporter(nil), NewHTMLExporter(nil)} {
		_, err := e.Export(nil)
		require.Error(t, err)

		_, err = e.Export(&storage.SavedTranscript{ID: "x", SavedAt: fixedNow})
		require.Error(t, err)

		tr := sampleTranscript(t, "matrix", "about")
		tr.SavedAt = time.Time{}
		_, err = e.Export(tr)
		require.Error(t, err)
	}
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	tr := sampleTranscript(t, "matrix", "projects")

	path, err := ExportToFile(tr, NewMarkdownExporter(testOptions(dir)), testOptions(dir))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "transcript_20250601-093000-abcd.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), terminal.Prompt+" projects")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a/b\\c:d", "a-b-c-d"},
		{"with space", "with_space"},
		{"", "transcript"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sanitizeFilename(tt.in))
	}
}
