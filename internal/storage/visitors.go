// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"time"
)

// Visit is one tracked HTTP request. HashedIP never holds a raw address.
type Visit struct {
	HashedIP  string
	UserAgent string
	Path      string
	Timestamp time.Time
}

// CommandRecord is one command run through a remote session.
type CommandRecord struct {
	Source    string
	Command   string
	Known     bool
	Timestamp time.Time
}

// CountEntry pairs a value with how often it occurred.
type CountEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Stats summarizes visitors and commands since a point in time.
type Stats struct {
	Since          time.Time    `json:"since"`
	Visits         int          `json:"visits"`
	UniqueVisitors int          `json:"unique_visitors"`
	Commands       int          `json:"commands"`
	UnknownCount   int          `json:"unknown_commands"`
	TopPaths       []CountEntry `json:"top_paths"`
	TopCommands    []CountEntry `json:"top_commands"`
}

// RecordVisit appends a visit. A zero timestamp is replaced with now.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.HashedIP == "" {
		return fmt.Errorf("record visit: hashed ip is required")
	}
	ts := v.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)",
		v.HashedIP, v.UserAgent, v.Path, ts.Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordCommand appends a command record. A zero timestamp is replaced with now.
func (s *Store) RecordCommand(ctx context.Context, c CommandRecord) error {
	ts := c.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	known := 0
	if c.Known {
		known = 1
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO commands (source, command, known, timestamp) VALUES (?, ?, ?, ?)",
		c.Source, c.Command, known, ts.Unix())
	if err != nil {
		return fmt.Errorf("record command: %w", err)
	}
	return nil
}

// Stats aggregates activity at or after since. limit caps the top lists.
func (s *Store) Stats(ctx context.Context, since time.Time, limit int) (Stats, error) {
	if limit <= 0 {
		limit = 5
	}
	st := Stats{Since: since, TopPaths: []CountEntry{}, TopCommands: []CountEntry{}}
	cutoff := since.Unix()

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT hashed_ip) FROM visitors WHERE timestamp >= ?", cutoff,
	).Scan(&st.Visits, &st.UniqueVisitors)
	if err != nil {
		return st, fmt.Errorf("stats: count visitors: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN known = 0 THEN 1 ELSE 0 END), 0) FROM commands WHERE timestamp >= ?", cutoff,
	).Scan(&st.Commands, &st.UnknownCount)
	if err != nil {
		return st, fmt.Errorf("stats: count commands: %w", err)
	}

	st.TopPaths, err = s.topCounts(ctx,
		"SELECT path, COUNT(*) AS n FROM visitors WHERE timestamp >= ? GROUP BY path ORDER BY n DESC, path ASC LIMIT ?",
		cutoff, limit)
	if err != nil {
		return st, fmt.Errorf("stats: top paths: %w", err)
	}

	st.TopCommands, err = s.topCounts(ctx,
		"SELECT command, COUNT(*) AS n FROM commands WHERE timestamp >= ? AND known = 1 GROUP BY command ORDER BY n DESC, command ASC LIMIT ?",
		cutoff, limit)
	if err != nil {
		return st, fmt.Errorf("stats: top commands: %w", err)
	}
	return st, nil
}

func (s *Store) topCounts(ctx context.Context, query string, args ...any) ([]CountEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CountEntry{}
	for rows.Next() {
		var e CountEntry
		if err := rows.Scan(&e.Value, &e.Count); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PruneVisits deletes visitor and command rows older than before.
func (s *Store) PruneVisits(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM visitors WHERE timestamp < ?", before.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM commands WHERE timestamp < ?", before.Unix()); err != nil {
		return n, fmt.Errorf("prune commands: %w", err)
	}
	return n, nil
}
