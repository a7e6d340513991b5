// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/util"
)

// ErrTranscriptNotFound is returned when a saved transcript does not exist.
var ErrTranscriptNotFound = errors.New("transcript not found")

// =============================================================================
// SAVED TRANSCRIPT TYPE
// =============================================================================

// SavedTranscript is a terminal transcript written to disk.
type SavedTranscript struct {
	ID      string               `json:"id"`
	Theme   string               `json:"theme"`
	SavedAt time.Time            `json:"saved_at"`
	Entries []terminal.EntryView `json:"entries"`
}

// Commands returns the command texts in the transcript, in order.
func (t *SavedTranscript) Commands() []string {
	var out []string
	for _, e := range t.Entries {
		if e.Kind == terminal.EntryCommand {
			out = append(out, e.Text)
		}
	}
	return out
}

// TranscriptMeta is the listing form of a saved transcript.
type TranscriptMeta struct {
	ID       string    `json:"id"`
	Theme    string    `json:"theme"`
	SavedAt  time.Time `json:"saved_at"`
	Commands int       `json:"commands"`
	Preview  string    `json:"preview"`
}

// =============================================================================
// TRANSCRIPT ARCHIVE
// =============================================================================

// TranscriptArchive stores transcripts as JSON files in a directory.
type TranscriptArchive struct {
	// BaseDir holds one <id>.json file per transcript
	BaseDir string

	// MaxTranscripts limits stored transcripts (0 = unlimited)
	MaxTranscripts int
}

// NewTranscriptArchive creates an archive rooted at baseDir.
func NewTranscriptArchive(baseDir string) (*TranscriptArchive, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &TranscriptArchive{BaseDir: baseDir, MaxTranscripts: 50}, nil
}

// Save writes the entries and returns the new transcript ID.
func (a *TranscriptArchive) Save(theme string, entries []terminal.Entry, now time.Time) (string, error) {
	t := SavedTranscript{
		ID:      newTranscriptID(now),
		Theme:   theme,
		SavedAt: now,
		Entries: terminal.ViewEntries(entries),
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	if err := util.AtomicWriteFile(a.filePath(t.ID), data, 0o600); err != nil {
		return "", err
	}
	if a.MaxTranscripts > 0 {
		a.enforceLimit()
	}
	return t.ID, nil
}

// enforceLimit removes the oldest transcripts beyond MaxTranscripts.
func (a *TranscriptArchive) enforceLimit() {
	metas, err := a.List()
	if err != nil || len(metas) <= a.MaxTranscripts {
		return
	}
	// List is newest first
	for _, m := range metas[a.MaxTranscripts:] {
		_ = a.Delete(m.ID)
	}
}

// Load reads a transcript by ID.
func (a *TranscriptArchive) Load(id string) (*SavedTranscript, error) {
	data, err := os.ReadFile(a.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}
	var t SavedTranscript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", id, err)
	}
	return &t, nil
}

// List returns saved transcripts, most recent first. Unreadable files are skipped.
func (a *TranscriptArchive) List() ([]TranscriptMeta, error) {
	entries, err := os.ReadDir(a.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptMeta{}, nil
		}
		return nil, err
	}

	metas := []TranscriptMeta{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		t, err := a.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		cmds := t.Commands()
		metas = append(metas, TranscriptMeta{
			ID:       t.ID,
			Theme:    t.Theme,
			SavedAt:  t.SavedAt,
			Commands: len(cmds),
			Preview:  util.TruncateRunes(strings.Join(cmds, ", "), 60),
		})
	}

	sort.SliceStable(metas, func(i, j int) bool {
		if metas[i].SavedAt.Equal(metas[j].SavedAt) {
			return metas[i].ID > metas[j].ID
		}
		return metas[i].SavedAt.After(metas[j].SavedAt)
	})
	return metas, nil
}

// Delete removes a transcript by ID.
func (a *TranscriptArchive) Delete(id string) error {
	if err := os.Remove(a.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}
	return nil
}

func (a *TranscriptArchive) filePath(id string) string {
	return filepath.Join(a.BaseDir, id+".json")
}

// newTranscriptID returns a sortable ID: timestamp plus a random suffix.
func newTranscriptID(now time.Time) string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return now.UTC().Format("20060102-150405.000000000")
	}
	return now.UTC().Format("20060102-150405") + "-" + hex.EncodeToString(b)
}
