// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// HEX COLOR HELPERS
// =============================================================================

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns the relative luminance in [0,1].
func (c RGB) Luminance() float64 {
	lin := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// Blend mixes a toward b by t in [0,1].
func Blend(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}

// IsDarkHex reports whether a background color is dark. Unparseable input is
// treated as dark.
func IsDarkHex(s string) bool {
	c, err := ParseHex(s)
	if err != nil {
		return true
	}
	return c.Luminance() < 0.4
}

// BlendHex mixes two hex colors. When either fails to parse, a is returned.
func BlendHex(a, b string, t float64) lipgloss.Color {
	ca, err := ParseHex(a)
	if err != nil {
		return lipgloss.Color(a)
	}
	cb, err := ParseHex(b)
	if err != nil {
		return lipgloss.Color(a)
	}
	return lipgloss.Color(Blend(ca, cb, t).Hex())
}

// =============================================================================
// ACCESSIBILITY
// =============================================================================

// StatusIndicatorSet holds ASCII markers shown next to colored states so the
// state reads without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Active  string
	Idle    string
}

// StatusIndicators are always rendered alongside status colors.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Active:  "[*]",
	Idle:    "[ ]",
}
