// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks plays auto-triggered terminal commands one at a time.
//
// Commands are wrapped in Task values and pushed onto a FIFO Queue. A Player
// owns a single worker goroutine that pops tasks in order, animates typing the
// command character by character, then runs it against the terminal. A task
// never starts typing before the previous task's output has been appended.
//
// Usage:
//
//	player := tasks.NewPlayer(engine, tasks.PlayerOptions{})
//	player.Start()
//	defer player.Close()
//
//	_ = player.Enqueue("about")
//	_ = player.Enqueue("skills")
//
// Close cancels the in-flight animation and drops pending tasks.
package tasks
