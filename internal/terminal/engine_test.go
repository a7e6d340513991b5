// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// HELPERS
// =============================================================================

func lastOutput(t *testing.T, e *Engine) Entry {
	t.Helper()
	tr := e.Transcript()
	require.NotEmpty(t, tr)
	last := tr[len(tr)-1]
	require.Equal(t, EntryOutput, last.Kind)
	return last
}

func errorLines(lines []Line) []Text {
	var out []Text
	for _, l := range lines {
		if IsError(l) {
			out = append(out, l.(Text))
		}
	}
	return out
}

type recordingQueue struct {
	commands []string
}

func (q *recordingQueue) Enqueue(command string) error {
	q.commands = append(q.commands, command)
	return nil
}

// =============================================================================
// RUN TESTS
// =============================================================================

func TestNewEngine_StartsWithSystemEntries(t *testing.T) {
	e := NewEngine(Options{})
	tr := e.Transcript()

	require.Len(t, tr, 2)
	for _, entry := range tr {
		if entry.Kind != EntrySystem {
			t.Errorf("entry %s kind = %s, want system", entry.ID, entry.Kind)
		}
	}
	if e.Theme() != DefaultTheme {
		t.Errorf("Theme() = %q, want %q", e.Theme(), DefaultTheme)
	}
	if e.Mode() != ModeScrollAuto {
		t.Errorf("Mode() = %q, want %q", e.Mode(), ModeScrollAuto)
	}
}

func TestRun_KnownCommandAppendsEchoThenOutput(t *testing.T) {
	keys := []string{
		"help", "commands", "about", "education", "skills", "experience",
		"projects", "contact", "theme list", "history", "banner",
	}

	for _, key := range keys {
		e := NewEngine(Options{})
		before := len(e.Transcript())

		appended := e.Run(key)

		tr := e.Transcript()
		require.Len(t, tr, before+2, key)
		require.Len(t, appended, 2, key)
		if tr[before].Kind != EntryCommand || tr[before].Command != key {
			t.Errorf("Run(%q) echo = %+v, want command entry", key, tr[before])
		}
		if tr[before+1].Kind != EntryOutput {
			t.Errorf("Run(%q) second entry kind = %s, want output", key, tr[before+1].Kind)
		}
		if tr[before+1].HasError() {
			t.Errorf("Run(%q) produced an error line", key)
		}
	}
}

func TestRun_BlankInputIsIgnored(t *testing.T) {
	e := NewEngine(Options{})
	for _, input := range []string{"", "   ", "\t\n"} {
		if got := e.Run(input); got != nil {
			t.Errorf("Run(%q) = %v, want nil", input, got)
		}
	}
	require.Len(t, e.Transcript(), 2)
	require.Empty(t, e.History())
}

func TestRun_NormalizesInput(t *testing.T) {
	e := NewEngine(Options{})
	e.Run("  ABOUT  ")

	tr := e.Transcript()
	require.Len(t, tr, 4)
	if tr[2].Command != "ABOUT" {
		t.Errorf("echo = %q, want trimmed original text", tr[2].Command)
	}
	if tr[3].HasError() {
		t.Error("normalized command should resolve to about output")
	}
	require.Equal(t, []string{"ABOUT"}, e.History())
}

func TestRun_ClearResetsTranscript(t *testing.T) {
	e := NewEngine(Options{})
	initial := e.Transcript()

	e.Run("about")
	e.Run("skills")
	e.Run("clear")

	tr := e.Transcript()
	require.Len(t, tr, len(initial))
	for i, entry := range tr {
		if entry.Kind != EntrySystem {
			t.Errorf("entry %d kind = %s, want system", i, entry.Kind)
		}
		if entry.Command != initial[i].Command {
			t.Errorf("entry %d = %q, want %q", i, entry.Command, initial[i].Command)
		}
	}
	require.Equal(t, []string{"about", "skills"}, e.History())
}

func TestRun_SequenceIsMonotonic(t *testing.T) {
	e := NewEngine(Options{})
	e.Run("about")
	e.Run("clear")
	e.Run("skills")

	var last uint64
	for _, entry := range e.Transcript() {
		if entry.Seq <= last {
			t.Fatalf("seq %d after %d", entry.Seq, last)
		}
		last = entry.Seq
	}
}

func TestRun_UnknownCommandIsOneErrorLinePlusOptionalHint(t *testing.T) {
	inputs := []string{"foobar", "sudo rm -rf /", "theme", "hlp", "abuot"}

	for _, input := range inputs {
		e := NewEngine(Options{})
		e.Run(input)

		out := lastOutput(t, e)
		errs := errorLines(out.Lines)
		require.Len(t, errs, 1, input)
		if !strings.Contains(errs[0].Value, `"`+input+`"`) {
			t.Errorf("Run(%q) error = %q, want it to name the command", input, errs[0].Value)
		}
		require.LessOrEqual(t, len(out.Lines), 2, input)
		if len(out.Lines) == 2 {
			hint, ok := out.Lines[1].(Text)
			require.True(t, ok, input)
			require.Equal(t, ToneMuted, hint.Tone, input)
		}
	}
}

func TestRun_UnknownCommandHintFollowsErrorLine(t *testing.T) {
	e := NewEngine(Options{})
	e.Run("abuot")

	out := lastOutput(t, e)
	require.Len(t, out.Lines, 2)
	require.Len(t, errorLines(out.Lines[:1]), 1)
	hint, ok := out.Lines[1].(Text)
	require.True(t, ok)
	require.Equal(t, ToneMuted, hint.Tone)
	require.Contains(t, hint.Value, "`about`")
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestRun_ThemeSet(t *testing.T) {
	var changed []string
	e := NewEngine(Options{OnThemeChange: func(name string) { changed = append(changed, name) }})

	e.Run("theme set monokai")

	require.Equal(t, "monokai", e.Theme())
	require.Equal(t, []string{"monokai"}, changed)
	out := lastOutput(t, e)
	require.Len(t, out.Lines, 1)
	require.Equal(t, Text{Value: `Theme set to "monokai".`, Tone: ToneSuccess}, out.Lines[0])
}

func TestRun_ThemeSetErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"theme set bogus", `Theme "bogus" not found. Try ` + "`theme list`."},
		{"theme set", "Specify a theme name e.g. `theme set monokai`."},
		{"theme set   ", "Specify a theme name e.g. `theme set monokai`."},
	}

	for _, tc := range tests {
		e := NewEngine(Options{Theme: "gruvbox"})
		e.Run(tc.input)

		if e.Theme() != "gruvbox" {
			t.Errorf("Run(%q) changed theme to %q", tc.input, e.Theme())
		}
		out := lastOutput(t, e)
		errs := errorLines(out.Lines)
		require.Len(t, errs, 1, tc.input)
		if errs[0].Value != tc.want {
			t.Errorf("Run(%q) = %q, want %q", tc.input, errs[0].Value, tc.want)
		}
	}
}

func TestRun_ThemeListMarksCurrent(t *testing.T) {
	e := NewEngine(Options{Theme: "light"})
	e.Run("theme list")

	out := lastOutput(t, e)
	require.Len(t, out.Lines, 2)
	list, ok := out.Lines[1].(List)
	require.True(t, ok)
	require.Equal(t, []string{"matrix", "gruvbox", "monokai", "light  ← current"}, list.Items)
}

func TestEngine_UnknownStartingThemeFallsBack(t *testing.T) {
	e := NewEngine(Options{Theme: "solarized"})
	require.Equal(t, DefaultTheme, e.Theme())
}

func TestEngine_CycleTheme(t *testing.T) {
	e := NewEngine(Options{})
	want := []string{"gruvbox", "monokai", "light", "matrix"}
	for _, w := range want {
		if got := e.CycleTheme(); got != w {
			t.Errorf("CycleTheme() = %q, want %q", got, w)
		}
	}
}

func TestEngine_SetThemeRejectsUnknown(t *testing.T) {
	e := NewEngine(Options{})
	err := e.SetTheme("nope")
	require.True(t, errors.Is(err, ErrUnknownTheme))
	require.Equal(t, DefaultTheme, e.Theme())
}

// =============================================================================
// HISTORY & HELP TESTS
// =============================================================================

func TestRun_HistoryListsPriorCommands(t *testing.T) {
	e := NewEngine(Options{})
	e.Run("about")
	e.Run("skills")
	e.Run("history")

	out := lastOutput(t, e)
	require.Len(t, out.Lines, 2)
	require.Equal(t, Heading{Value: "History"}, out.Lines[0])
	require.Equal(t, List{Items: []string{"1. about", "2. skills"}}, out.Lines[1])
}

func TestRun_HistoryShowsLastEightWithAbsoluteNumbers(t *testing.T) {
	e := NewEngine(Options{})
	for i := 0; i < 10; i++ {
		e.Run("about")
	}
	e.Run("history")

	out := lastOutput(t, e)
	list := out.Lines[1].(List)
	require.Len(t, list.Items, 8)
	require.Equal(t, "3. about", list.Items[0])
	require.Equal(t, "10. about", list.Items[7])
}

func TestRun_HistoryEmpty(t *testing.T) {
	e := NewEngine(Options{})
	e.Run("history")

	out := lastOutput(t, e)
	require.Equal(t, Text{Value: "No commands yet.", Tone: ToneMuted}, out.Lines[1])
}

func TestRun_HelpListsCatalog(t *testing.T) {
	e := NewEngine(Options{})
	e.Run("help")

	out := lastOutput(t, e)
	require.Equal(t, Heading{Value: "Available Commands"}, out.Lines[0])
	list := out.Lines[1].(List)
	require.Len(t, list.Items, len(Catalog()))
	require.Equal(t, "help             - List available commands", list.Items[0])
	require.Equal(t, "theme set <name> - Switch the terminal theme", list.Items[8])
}

// =============================================================================
// MODE TESTS
// =============================================================================

func TestEngine_EnqueueAutoCommandRespectsMode(t *testing.T) {
	e := NewEngine(Options{})
	q := &recordingQueue{}
	e.AttachQueue(q)

	require.NoError(t, e.EnqueueAutoCommand("about"))

	e.SetMode(ModeInteractive)
	err := e.EnqueueAutoCommand("skills")
	require.ErrorIs(t, err, ErrInteractiveMode)

	require.Equal(t, []string{"about"}, q.commands)
}

func TestEngine_ToggleMode(t *testing.T) {
	e := NewEngine(Options{})
	require.Equal(t, ModeInteractive, e.ToggleMode())
	require.Equal(t, ModeScrollAuto, e.ToggleMode())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"scrollAuto", ModeScrollAuto, false},
		{"auto", ModeScrollAuto, false},
		{"Interactive", ModeInteractive, false},
		{"fast", "", true},
	}

	for _, tc := range tests {
		got, err := ParseMode(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestEngine_TypingState(t *testing.T) {
	e := NewEngine(Options{})
	v := e.Version()

	e.SetTyping("ab", true)
	text, active := e.Typing()
	require.Equal(t, "ab", text)
	require.True(t, active)
	require.Greater(t, e.Version(), v)
}

func TestEngine_Known(t *testing.T) {
	e := NewEngine(Options{})
	tests := []struct {
		input string
		known bool
	}{
		{"help", true},
		{"  ABOUT ", true},
		{"theme list", true},
		{"theme set nope", true},
		{"clear", true},
		{"sudo", false},
		{"", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.known, e.Known(tt.input), tt.input)
	}
}

func TestEngine_SetOutputsKeepsTranscript(t *testing.T) {
	e := NewEngine(Options{})
	e.Run("about")
	before := len(e.Transcript())

	e.SetOutputs(Outputs{"about": {Text{Value: "new about"}}})
	require.Len(t, e.Transcript(), before)

	e.Run("about")
	require.Equal(t, "new about", lastOutput(t, e).Lines[0].(Text).Value)
	require.False(t, e.Known("skills"))

	e.SetOutputs(nil)
	require.True(t, e.Known("skills"))
}
