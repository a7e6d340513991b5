// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"fmt"
	"time"
)

// =============================================================================
// ENTRY
// =============================================================================

// EntryKind identifies what a transcript entry holds.
type EntryKind string

const (
	// EntrySystem is a startup message (banner, welcome).
	EntrySystem EntryKind = "system"

	// EntryCommand is the echo of a command as typed.
	EntryCommand EntryKind = "command"

	// EntryOutput is the resolved output of a command.
	EntryOutput EntryKind = "output"
)

// Entry is one item of the transcript.
type Entry struct {
	// ID is unique within an engine, formed from the kind and sequence.
	ID string

	// Seq increases monotonically in append order.
	Seq uint64

	Kind EntryKind

	// Command holds the echoed text for EntryCommand, and the command that
	// produced the block for EntryOutput.
	Command string

	// Lines is the renderable body for system and output entries.
	Lines []Line

	CreatedAt time.Time
}

func newEntry(seq uint64, kind EntryKind, command string, lines []Line, now time.Time) Entry {
	return Entry{
		ID:        fmt.Sprintf("%s-%d", kind, seq),
		Seq:       seq,
		Kind:      kind,
		Command:   command,
		Lines:     lines,
		CreatedAt: now,
	}
}

// HasError reports whether any line of the entry is error-toned.
func (e Entry) HasError() bool {
	for _, l := range e.Lines {
		if IsError(l) {
			return true
		}
	}
	return false
}
