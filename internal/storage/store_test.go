// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "termfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// PREFERENCE TESTS
// =============================================================================

func TestStore_ThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := LoadTheme(ctx, s)
	require.True(t, errors.Is(err, ErrNotFound), "unset theme should be ErrNotFound, got %v", err)

	require.NoError(t, SaveTheme(ctx, s, "gruvbox"))
	require.NoError(t, SaveTheme(ctx, s, "monokai"))

	theme, err := LoadTheme(ctx, s)
	require.NoError(t, err)
	require.Equal(t, "monokai", theme)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "termfolio.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetPref(ctx, ThemeKey, "light"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetPref(ctx, ThemeKey)
	require.NoError(t, err)
	require.Equal(t, "light", got)
}

func TestMemoryPrefs(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryPrefs()

	_, err := LoadTheme(ctx, m)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, SaveTheme(ctx, m, "matrix"))
	got, err := LoadTheme(ctx, m)
	require.NoError(t, err)
	require.Equal(t, "matrix", got)
}

// =============================================================================
// VISITOR TESTS
// =============================================================================

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	visits := []Visit{
		{HashedIP: "aaaa", Path: "/", Timestamp: base},
		{HashedIP: "aaaa", Path: "/api/sections", Timestamp: base.Add(time.Minute)},
		{HashedIP: "bbbb", Path: "/", Timestamp: base.Add(2 * time.Minute)},
		{HashedIP: "cccc", Path: "/", Timestamp: base.Add(-48 * time.Hour)},
	}
	for _, v := range visits {
		require.NoError(t, s.RecordVisit(ctx, v))
	}

	cmds := []CommandRecord{
		{Source: "http", Command: "about", Known: true, Timestamp: base},
		{Source: "ssh", Command: "about", Known: true, Timestamp: base},
		{Source: "http", Command: "skills", Known: true, Timestamp: base},
		{Source: "http", Command: "sudo", Known: false, Timestamp: base},
	}
	for _, c := range cmds {
		require.NoError(t, s.RecordCommand(ctx, c))
	}

	st, err := s.Stats(ctx, base.Add(-time.Hour), 5)
	require.NoError(t, err)
	require.Equal(t, 3, st.Visits)
	require.Equal(t, 2, st.UniqueVisitors)
	require.Equal(t, 4, st.Commands)
	require.Equal(t, 1, st.UnknownCount)
	require.Equal(t, []CountEntry{{Value: "/", Count: 2}, {Value: "/api/sections", Count: 1}}, st.TopPaths)
	require.Equal(t, []CountEntry{{Value: "about", Count: 2}, {Value: "skills", Count: 1}}, st.TopCommands)
}

func TestStore_RecordVisitRequiresHash(t *testing.T) {
	s := openTestStore(t)
	err := s.RecordVisit(context.Background(), Visit{Path: "/"})
	require.Error(t, err)
}

func TestStore_PruneVisits(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "old", Timestamp: base.Add(-72 * time.Hour)}))
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "new", Timestamp: base}))

	n, err := s.PruneVisits(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	st, err := s.Stats(ctx, time.Unix(0, 0), 5)
	require.NoError(t, err)
	require.Equal(t, 1, st.Visits)
}
