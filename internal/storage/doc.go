// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists termfolio state in SQLite.
//
// The store keeps three things: key-value preferences (the selected theme
// under "terminal-theme"), a visitor log written by the HTTP server, and a
// log of commands run through remote sessions for the stats endpoint.
//
// Usage:
//
//	store, err := storage.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	theme, err := store.LoadTheme(ctx)
//	if errors.Is(err, storage.ErrNotFound) {
//	    theme = terminal.DefaultTheme
//	}
package storage
