// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by termfolio packages.
//
//   - AtomicWriteFile: crash-safe file writes (config, transcripts, host keys)
//   - TruncateRunes, TruncateWidth, PadRight: display-width aware text fitting
package util
