// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a saved transcript to a file format.
type Exporter interface {
	// Export converts a transcript to the target format and returns the content.
	Export(t *storage.SavedTranscript) ([]byte, error)

	// FileExtension returns the file extension, e.g. ".md".
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// IncludeMetadata includes the header block (theme, dates, counts).
	IncludeMetadata bool

	// IncludeTimestamps includes per-command timestamps.
	IncludeTimestamps bool

	// Now stamps the "exported" line. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Now:               time.Now,
	}
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Formats lists the accepted format names.
var Formats = []string{"markdown", "html", "json"}

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	}
	return nil, fmt.Errorf("unsupported export format %q (use %s)", format, strings.Join(Formats, ", "))
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a transcript with exporter and returns the written path.
func ExportToFile(t *storage.SavedTranscript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := "transcript_" + sanitizeFilename(t.ID) + exporter.FileExtension()
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// validate rejects transcripts that cannot be exported.
func validate(t *storage.SavedTranscript) error {
	if t == nil {
		return errors.New("transcript is nil")
	}
	if len(t.Entries) == 0 {
		return errors.New("transcript has no entries")
	}
	if t.SavedAt.IsZero() {
		return errors.New("transcript has invalid save timestamp")
	}
	return nil
}

// block is one decoded transcript entry.
type block struct {
	kind    terminal.EntryKind
	command string
	at      time.Time
	lines   []terminal.Line
}

// decode turns stored entry views back into renderable lines.
func decode(t *storage.SavedTranscript) ([]block, error) {
	out := make([]block, 0, len(t.Entries))
	for _, e := range t.Entries {
		b := block{kind: e.Kind, command: e.Text, at: e.CreatedAt}
		if e.Kind != terminal.EntryCommand {
			lines, err := terminal.ParseLines(e.Lines)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", e.ID, err)
			}
			b.lines = lines
		}
		out = append(out, b)
	}
	return out, nil
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	runes := []rune(s)
	if len(runes) > 50 {
		runes = runes[:50]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return "transcript"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
