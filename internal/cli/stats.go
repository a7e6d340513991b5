// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/termfolio/internal/storage"
)

const statsTopN = 10

// HandleStats prints visitor and command counts for the last args.Days days.
func HandleStats(ctx context.Context, app *App, args Args) error {
	st := app.Store()
	if st == nil {
		return NewCommandError("stats", "query", "storage unavailable", nil)
	}
	since := time.Now().AddDate(0, 0, -args.Days)
	stats, err := st.Stats(ctx, since, statsTopN)
	if err != nil {
		return NewCommandError("stats", "query", "could not read statistics", err)
	}
	return printStats(stats, args.Days, args.JSON)
}

func printStats(s storage.Stats, days int, jsonMode bool) error {
	if jsonMode {
		return writeJSON(stdout, s)
	}

	fmt.Fprintln(stdout, TitleStyle.Render(fmt.Sprintf("termfolio stats (last %d days)", days)))
	fmt.Fprintln(stdout, RenderKV("Visits", s.Visits))
	fmt.Fprintln(stdout, RenderKV("Unique visitors", s.UniqueVisitors))
	fmt.Fprintln(stdout, RenderKV("Commands", s.Commands))
	fmt.Fprintln(stdout, RenderKV("Unknown commands", s.UnknownCount))

	printTop("Top commands", s.TopCommands)
	printTop("Top paths", s.TopPaths)
	return nil
}

func printTop(title string, entries []storage.CountEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, DimStyle.Render(title))
	for _, e := range entries {
		fmt.Fprintln(stdout, RenderKV("  "+e.Value, e.Count))
	}
}
