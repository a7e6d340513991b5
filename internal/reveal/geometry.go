// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import "math"

// Rect is a section's vertical extent in document coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// Bottom returns the document coordinate just past the section.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center returns the vertical center in document coordinates.
func (r Rect) Center() float64 { return r.Top + r.Height/2 }

// Viewport is the visible window over the document.
type Viewport struct {
	ScrollTop float64
	Height    float64
}

// Center returns the viewport's vertical center in viewport coordinates.
func (v Viewport) Center() float64 { return v.Height / 2 }

// IntersectionRatio returns the fraction of r visible inside the viewport
// extended downward by margin*Height. It is 0 when they do not overlap.
// Zero-height rects count as fully visible when inside the root.
func IntersectionRatio(r Rect, v Viewport, margin float64) float64 {
	rootTop := v.ScrollTop
	rootBottom := v.ScrollTop + v.Height*(1+margin)

	if r.Height <= 0 {
		if r.Top >= rootTop && r.Top <= rootBottom {
			return 1
		}
		return 0
	}

	top := max(r.Top, rootTop)
	bottom := min(r.Bottom(), rootBottom)
	if bottom <= top {
		return 0
	}
	return (bottom - top) / r.Height
}

// clamp limits v to [-limit, limit]. NaN maps to 0.
func clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(-limit, min(v, limit))
}
