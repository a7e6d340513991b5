// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/termfolio/internal/export"
	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// HandleTranscripts handles "termfolio transcripts [list|show|delete|export]".
// Transcripts are saved from the TUI with ctrl+s.
func HandleTranscripts(app *App, args Args) error {
	arch := app.Archive()
	if arch == nil {
		return NewCommandError("transcripts", args.Subcommand, "archive unavailable", nil)
	}
	return handleTranscripts(arch, args)
}

func handleTranscripts(arch *storage.TranscriptArchive, args Args) error {
	switch args.Subcommand {
	case "", "list":
		return listTranscripts(arch, args.JSON)
	case "show", "delete", "export":
		if len(args.Raw) != 1 {
			return NewValidationErrorWithExample("arguments", strings.Join(args.Raw, " "),
				args.Subcommand+" needs a transcript ID", "termfolio transcripts "+args.Subcommand+" <id>")
		}
		switch args.Subcommand {
		case "show":
			return showTranscript(arch, args.Raw[0], args.JSON, args.Width)
		case "export":
			return exportTranscript(arch, args.Raw[0], args.Format, args.OutDir, args.JSON)
		}
		return deleteTranscript(arch, args.Raw[0])
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand,
			"unknown transcripts subcommand", "termfolio transcripts list")
	}
}

func listTranscripts(arch *storage.TranscriptArchive, jsonMode bool) error {
	metas, err := arch.List()
	if err != nil {
		return NewCommandError("transcripts", "list", "could not read archive", err)
	}
	if jsonMode {
		return writeJSON(stdout, metas)
	}
	if len(metas) == 0 {
		fmt.Fprintln(stdout, DimStyle.Render("No saved transcripts. Press ctrl+s in the TUI to save one."))
		return nil
	}

	fmt.Fprintln(stdout, TitleStyle.Render("Saved transcripts"))
	for _, m := range metas {
		fmt.Fprintf(stdout, "%s  %s  %-8s %2d  %s\n",
			ValueStyle.Render(m.ID),
			DimStyle.Render(m.SavedAt.Local().Format("2006-01-02 15:04")),
			m.Theme,
			m.Commands,
			DimStyle.Render(m.Preview))
	}
	return nil
}

func showTranscript(arch *storage.TranscriptArchive, id string, jsonMode bool, width int) error {
	t, err := arch.Load(id)
	if errors.Is(err, storage.ErrTranscriptNotFound) {
		return NewNotFoundError("transcript", id)
	}
	if err != nil {
		return NewCommandError("transcripts", "show", "could not read transcript", err)
	}
	if jsonMode {
		return writeJSON(stdout, t)
	}
	if width <= 0 {
		width = GetTerminalWidth()
	}

	fmt.Fprintln(stdout, DimStyle.Render(fmt.Sprintf("# %s  theme %s  saved %s", t.ID, t.Theme, t.SavedAt.Local().Format("2006-01-02 15:04"))))
	for _, e := range t.Entries {
		if e.Kind == terminal.EntryCommand {
			fmt.Fprintf(stdout, "%s %s\n", terminal.Prompt, e.Text)
			continue
		}
		lines, err := terminal.ParseLines(e.Lines)
		if err != nil {
			return NewCommandError("transcripts", "show", "transcript is corrupt", err)
		}
		fmt.Fprint(stdout, terminal.RenderLines(lines, width))
	}
	return nil
}

func exportTranscript(arch *storage.TranscriptArchive, id, format, outDir string, jsonMode bool) error {
	opts := export.DefaultOptions()
	opts.OutputDir = outDir
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return NewValidationErrorWithExample("format", format, err.Error(), "--format html")
	}

	t, err := arch.Load(id)
	if errors.Is(err, storage.ErrTranscriptNotFound) {
		return NewNotFoundError("transcript", id)
	}
	if err != nil {
		return NewCommandError("transcripts", "export", "could not read transcript", err)
	}

	path, err := export.ExportToFile(t, exporter, opts)
	if err != nil {
		return NewCommandError("transcripts", "export", "could not write file", err)
	}
	if jsonMode {
		return writeJSON(stdout, map[string]string{"id": id, "path": path, "mime_type": exporter.MimeType()})
	}
	fmt.Fprintf(stdout, "%s exported %s to %s\n", SuccessStyle.Render("[OK]"), id, path)
	return nil
}

func deleteTranscript(arch *storage.TranscriptArchive, id string) error {
	err := arch.Delete(id)
	if errors.Is(err, storage.ErrTranscriptNotFound) {
		return NewNotFoundError("transcript", id)
	}
	if err != nil {
		return NewCommandError("transcripts", "delete", "could not remove transcript", err)
	}
	fmt.Fprintf(stdout, "%s deleted %s\n", SuccessStyle.Render("[OK]"), id)
	return nil
}
