// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal tracks which narrative sections have scrolled into view and
// computes their parallax offsets.
//
// The host loop (a Bubble Tea program, an HTTP client, a test) feeds the
// controller two kinds of input:
//
//   - Scroll reports a new viewport. The controller intersects every section
//     with the viewport, extended downward by a bottom margin, and fires the
//     trigger callback for each section that becomes visible for the first
//     time. A section fires at most once for the controller's lifetime.
//   - Tick is called once per frame. Parallax is recomputed only when the
//     viewport changed and at most once per frame interval.
//
// Lifecycle: a Controller starts idle, moves to observing on Observe and to
// disposed on Dispose. A disposed controller ignores all input.
package reveal
