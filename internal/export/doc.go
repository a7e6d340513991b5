// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes saved transcripts to shareable files.
//
// # Supported Formats
//
//   - Markdown: Console blocks for commands, markdown for output
//   - HTML: Standalone page colored with the transcript's theme
//   - JSON: The stored structure, loadable by the archive
//
// # Usage
//
//	exporter, err := export.ForFormat("html", nil)
//	path, err := export.ExportToFile(transcript, exporter, &export.Options{OutputDir: "."})
package export
