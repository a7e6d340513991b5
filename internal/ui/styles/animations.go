// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// EASING
// =============================================================================

// EasingFunc maps progress in [0,1] to output in [0,1].
type EasingFunc func(t float64) float64

// EaseLinear - constant speed
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutQuad - decelerating to zero
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// EaseOutCubic - decelerating to zero (smoother)
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Transition animates a value from From to To over Duration.
type Transition struct {
	From, To float64
	Start    time.Time
	Duration time.Duration
	Easing   EasingFunc
}

// Value returns the eased value at now.
func (tr Transition) Value(now time.Time) float64 {
	if tr.Duration <= 0 || !now.Before(tr.Start.Add(tr.Duration)) {
		return tr.To
	}
	p := float64(now.Sub(tr.Start)) / float64(tr.Duration)
	if p < 0 {
		p = 0
	}
	ease := tr.Easing
	if ease == nil {
		ease = EaseLinear
	}
	return tr.From + (tr.To-tr.From)*ease(p)
}

// Done reports whether the transition has finished at now.
func (tr Transition) Done(now time.Time) bool {
	return !now.Before(tr.Start.Add(tr.Duration))
}

// EntranceDuration is how long a section takes to slide into place once revealed.
const EntranceDuration = 450 * time.Millisecond

// =============================================================================
// TYPING CARET
// =============================================================================

// TypingCursor frames for the blinking caret
var TypingCursor = []string{"▌", " "}

// CursorBlinkRate is the rate at which the caret blinks
var CursorBlinkRate = 530 * time.Millisecond

// CaretFrame returns the caret glyph for elapsed time since blinking began.
func CaretFrame(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	return TypingCursor[int(elapsed/CursorBlinkRate)%len(TypingCursor)]
}
