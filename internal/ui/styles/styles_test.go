// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/termfolio/internal/terminal"
)

func asciiRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return r
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewTheme_AllKnownThemes(t *testing.T) {
	for _, name := range terminal.ThemeNames() {
		th := NewThemeWithRenderer(name, asciiRenderer())
		if th.Name() != name {
			t.Errorf("NewTheme(%q).Name() = %q", name, th.Name())
		}
		wantDark := name != "light"
		if th.IsDark != wantDark {
			t.Errorf("NewTheme(%q).IsDark = %v, want %v", name, th.IsDark, wantDark)
		}
	}
}

func TestNewTheme_UnknownFallsBack(t *testing.T) {
	th := NewThemeWithRenderer("solarized", asciiRenderer())
	want := terminal.ThemeByName("solarized").Name
	if th.Name() != want {
		t.Errorf("Name() = %q, want %q", th.Name(), want)
	}
}

func TestToneStyle_PlainProfileKeepsText(t *testing.T) {
	th := NewThemeWithRenderer("matrix", asciiRenderer())
	tones := []terminal.Tone{
		terminal.ToneDefault, terminal.ToneAccent, terminal.ToneMuted,
		terminal.ToneSuccess, terminal.ToneError, "",
	}
	for _, tone := range tones {
		if got := th.ToneStyle(tone).Render("ok"); got != "ok" {
			t.Errorf("ToneStyle(%q).Render = %q, want %q", tone, got, "ok")
		}
	}
}

func TestGetLayoutMode(t *testing.T) {
	th := NewThemeWithRenderer("matrix", asciiRenderer())
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		th.SetSize(tt.width, 30)
		if got := th.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

// =============================================================================
// COLOR TESTS
// =============================================================================

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#0cff98", RGB{0x0c, 0xff, 0x98}, false},
		{"fff", RGB{0xff, 0xff, 0xff}, false},
		{" #000000 ", RGB{}, false},
		{"#12345", RGB{}, true},
		{"#zzzzzz", RGB{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestBlend(t *testing.T) {
	black, white := RGB{}, RGB{255, 255, 255}
	if got := Blend(black, white, 0.5).Hex(); got != "#808080" {
		t.Errorf("Blend midpoint = %s, want #808080", got)
	}
	if got := Blend(black, white, -1); got != black {
		t.Errorf("Blend below range = %+v", got)
	}
	if got := Blend(black, white, 2); got != white {
		t.Errorf("Blend above range = %+v", got)
	}
	if got := BlendHex("bogus", "#ffffff", 0.5); got != lipgloss.Color("bogus") {
		t.Errorf("BlendHex with bad input = %v", got)
	}
}

func TestIsDarkHex(t *testing.T) {
	if !IsDarkHex("#03140a") {
		t.Error("matrix background should be dark")
	}
	if IsDarkHex("#ffffff") {
		t.Error("white should not be dark")
	}
	if !IsDarkHex("nope") {
		t.Error("unparseable color should default to dark")
	}
}

// =============================================================================
// ANIMATION TESTS
// =============================================================================

func TestTransition(t *testing.T) {
	start := time.Unix(100, 0)
	tr := Transition{From: 40, To: 0, Start: start, Duration: 400 * time.Millisecond, Easing: EaseLinear}

	if got := tr.Value(start); got != 40 {
		t.Errorf("Value(start) = %v, want 40", got)
	}
	if got := tr.Value(start.Add(200 * time.Millisecond)); math.Abs(got-20) > 1e-9 {
		t.Errorf("Value(mid) = %v, want 20", got)
	}
	if got := tr.Value(start.Add(time.Second)); got != 0 {
		t.Errorf("Value(after) = %v, want 0", got)
	}
	if tr.Done(start.Add(100 * time.Millisecond)) {
		t.Error("Done() before the end")
	}
	if !tr.Done(start.Add(400 * time.Millisecond)) {
		t.Error("Done() at the end should be true")
	}
}

func TestEasingEndpoints(t *testing.T) {
	for name, f := range map[string]EasingFunc{
		"linear": EaseLinear, "outQuad": EaseOutQuad, "outCubic": EaseOutCubic,
	} {
		if f(0) != 0 || f(1) != 1 {
			t.Errorf("%s: f(0)=%v f(1)=%v, want 0 and 1", name, f(0), f(1))
		}
	}
}

func TestCaretFrame(t *testing.T) {
	if CaretFrame(0) != TypingCursor[0] {
		t.Error("caret should start visible")
	}
	if CaretFrame(CursorBlinkRate) != TypingCursor[1] {
		t.Error("caret should blink after one interval")
	}
	if CaretFrame(-time.Second) != TypingCursor[0] {
		t.Error("negative elapsed should clamp")
	}
}
