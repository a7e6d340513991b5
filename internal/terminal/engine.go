// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects how commands reach the engine.
type Mode string

const (
	// ModeScrollAuto plays commands automatically as sections scroll into view.
	ModeScrollAuto Mode = "scrollAuto"

	// ModeInteractive lets the user type commands.
	ModeInteractive Mode = "interactive"
)

// String returns the mode name.
func (m Mode) String() string { return string(m) }

// ParseMode parses a mode name, accepting a few spellings.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scrollauto", "scroll", "auto":
		return ModeScrollAuto, nil
	case "interactive", "typing":
		return ModeInteractive, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// =============================================================================
// ENGINE
// =============================================================================

const (
	// DefaultHistoryLimit is how many commands `history` shows.
	DefaultHistoryLimit = 8

	helpKeyWidth = 16
)

// ErrInteractiveMode is returned by EnqueueAutoCommand outside scrollAuto mode.
var ErrInteractiveMode = errors.New("auto commands are ignored in interactive mode")

// AutoQueue accepts commands for serial auto-play.
type AutoQueue interface {
	Enqueue(command string) error
}

// Options configures an Engine.
type Options struct {
	// Theme is the starting theme. Unknown names fall back to DefaultTheme.
	Theme string

	// Mode is the starting mode. Defaults to ModeScrollAuto.
	Mode Mode

	// Outputs overrides the static command outputs.
	Outputs Outputs

	// HistoryLimit bounds the `history` listing. Defaults to 8.
	HistoryLimit int

	// OnThemeChange is called after every successful theme change.
	OnThemeChange func(name string)

	// Now is the clock used for entry timestamps.
	Now func() time.Time

	Logger *slog.Logger
}

// Engine owns the transcript, command log, theme and mode.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	outputs      Outputs
	historyLimit int
	now          func() time.Time
	logger       *slog.Logger
	onTheme      func(string)

	transcript []Entry
	commandLog []string
	seq        uint64
	theme      string
	mode       Mode
	queue      AutoQueue

	typing       string
	typingActive bool

	// version increases on every state change so renderers can skip work.
	version uint64
}

// NewEngine creates an engine whose transcript holds the startup entries.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		outputs:      opts.Outputs,
		historyLimit: opts.HistoryLimit,
		now:          opts.Now,
		logger:       opts.Logger,
		onTheme:      opts.OnThemeChange,
		theme:        opts.Theme,
		mode:         opts.Mode,
	}
	if e.outputs == nil {
		e.outputs = DefaultOutputs()
	}
	if e.historyLimit <= 0 {
		e.historyLimit = DefaultHistoryLimit
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if !IsKnownTheme(e.theme) {
		e.theme = DefaultTheme
	}
	if e.mode == "" {
		e.mode = ModeScrollAuto
	}
	e.resetLocked()
	return e
}

// AttachQueue sets the queue used by EnqueueAutoCommand.
func (e *Engine) AttachQueue(q AutoQueue) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = q
}

// SetOutputs replaces the static command outputs. The transcript is kept.
func (e *Engine) SetOutputs(o Outputs) {
	if o == nil {
		o = DefaultOutputs()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputs = o
	e.version++
}

// =============================================================================
// RUN
// =============================================================================

// Run executes one command and returns the entries it appended.
// Blank input is ignored. `clear` resets the transcript and returns the
// fresh startup entries. Resolution problems become error lines.
func (e *Engine) Run(input string) []Entry {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	normalized := Normalize(trimmed)

	e.mu.Lock()
	if normalized == "clear" {
		e.resetLocked()
		out := e.copyTranscriptLocked()
		e.mu.Unlock()
		e.logger.Debug("terminal cleared")
		return out
	}

	start := len(e.transcript)
	e.appendLocked(EntryCommand, trimmed, nil)

	lines, changed := e.resolveLocked(trimmed, normalized)
	e.appendLocked(EntryOutput, trimmed, lines)
	e.commandLog = append(e.commandLog, trimmed)

	appended := make([]Entry, len(e.transcript)-start)
	copy(appended, e.transcript[start:])
	onTheme := e.onTheme
	e.mu.Unlock()

	if changed != "" && onTheme != nil {
		onTheme(changed)
	}
	e.logger.Debug("command executed", "command", trimmed, "error", appended[len(appended)-1].HasError())
	return appended
}

// Known reports whether input resolves to a command rather than the
// unknown-command reply.
func (e *Engine) Known(input string) bool {
	n := Normalize(input)
	switch n {
	case "clear", "help", "commands", "history", "theme list":
		return true
	}
	if strings.HasPrefix(n, "theme set") {
		return true
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.outputs[n]
	return ok
}

// Normalize trims, folds compatibility forms, lowercases and collapses
// internal whitespace.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// resolveLocked returns the output lines for a command and the name of the
// theme it switched to, if any.
func (e *Engine) resolveLocked(trimmed, normalized string) ([]Line, string) {
	if strings.HasPrefix(normalized, "theme set") {
		return e.themeSetLocked(strings.TrimSpace(strings.TrimPrefix(normalized, "theme set")))
	}

	switch normalized {
	case "help", "commands":
		return helpLines(), ""
	case "history":
		return e.historyLinesLocked(), ""
	case "theme list":
		return themeListLines(e.theme), ""
	}

	if lines, ok := e.outputs[normalized]; ok {
		return lines, ""
	}
	return unknownLines(trimmed, normalized), ""
}

func (e *Engine) themeSetLocked(target string) ([]Line, string) {
	if target == "" {
		return []Line{ErrorLine("Specify a theme name e.g. `theme set monokai`.")}, ""
	}
	if !IsKnownTheme(target) {
		return []Line{ErrorLine(fmt.Sprintf("Theme %q not found. Try `theme list`.", target))}, ""
	}
	e.theme = target
	return []Line{Text{Value: fmt.Sprintf("Theme set to %q.", target), Tone: ToneSuccess}}, target
}

func (e *Engine) historyLinesLocked() []Line {
	if len(e.commandLog) == 0 {
		return []Line{
			Heading{Value: "History"},
			Text{Value: "No commands yet.", Tone: ToneMuted},
		}
	}

	first := len(e.commandLog) - e.historyLimit
	if first < 0 {
		first = 0
	}
	items := make([]string, 0, len(e.commandLog)-first)
	for i := first; i < len(e.commandLog); i++ {
		items = append(items, fmt.Sprintf("%d. %s", i+1, e.commandLog[i]))
	}
	return []Line{Heading{Value: "History"}, List{Items: items}}
}

func helpLines() []Line {
	items := make([]string, len(catalog))
	for i, c := range catalog {
		items[i] = fmt.Sprintf("%-*s - %s", helpKeyWidth, c.Key, c.Description)
	}
	return []Line{Heading{Value: "Available Commands"}, List{Items: items}}
}

func themeListLines(active string) []Line {
	names := ThemeNames()
	for i, name := range names {
		if name == active {
			names[i] = name + "  ← current"
		}
	}
	return []Line{Heading{Value: "Themes"}, List{Items: names}}
}

func unknownLines(trimmed, normalized string) []Line {
	lines := []Line{ErrorLine(fmt.Sprintf("Unknown command %q. Type `help` to see options.", trimmed))}
	if s, ok := Suggest(normalized); ok {
		lines = append(lines, Text{Value: fmt.Sprintf("Did you mean `%s`?", s), Tone: ToneMuted})
	}
	return lines
}

// =============================================================================
// AUTO-PLAY
// =============================================================================

// EnqueueAutoCommand hands a command to the attached auto queue.
// It returns ErrInteractiveMode outside scrollAuto mode.
func (e *Engine) EnqueueAutoCommand(command string) error {
	e.mu.RLock()
	mode, q := e.mode, e.queue
	e.mu.RUnlock()

	if mode != ModeScrollAuto {
		return ErrInteractiveMode
	}
	if q == nil {
		return errors.New("no auto queue attached")
	}
	return q.Enqueue(command)
}

// SetTyping records the partially typed auto command shown in the prompt.
func (e *Engine) SetTyping(text string, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typing, e.typingActive = text, active
	e.version++
}

// Typing returns the partially typed auto command and whether typing is
// in progress.
func (e *Engine) Typing() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.typing, e.typingActive
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns a copy of the transcript.
func (e *Engine) Transcript() []Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.copyTranscriptLocked()
}

// History returns a copy of the full command log.
func (e *Engine) History() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.commandLog))
	copy(out, e.commandLog)
	return out
}

// Version returns a counter that changes whenever engine state changes.
func (e *Engine) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// SetMode switches the mode.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != m {
		e.mode = m
		e.version++
	}
}

// ToggleMode flips between scrollAuto and interactive and returns the new mode.
func (e *Engine) ToggleMode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == ModeInteractive {
		e.mode = ModeScrollAuto
	} else {
		e.mode = ModeInteractive
	}
	e.version++
	return e.mode
}

// Theme returns the active theme name.
func (e *Engine) Theme() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.theme
}

// SetTheme switches the active theme without touching the transcript.
func (e *Engine) SetTheme(name string) error {
	if !IsKnownTheme(name) {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	e.mu.Lock()
	e.theme = name
	e.version++
	onTheme := e.onTheme
	e.mu.Unlock()

	if onTheme != nil {
		onTheme(name)
	}
	return nil
}

// CycleTheme advances to the next theme and returns its name.
func (e *Engine) CycleTheme() string {
	next := NextTheme(e.Theme())
	_ = e.SetTheme(next)
	return next
}

// =============================================================================
// INTERNAL
// =============================================================================

// resetLocked replaces the transcript with the startup entries.
func (e *Engine) resetLocked() {
	e.transcript = e.transcript[:0:0]
	e.appendLocked(EntrySystem, "banner", e.outputs["banner"])
	e.appendLocked(EntrySystem, "welcome", e.outputs["welcome"])
}

func (e *Engine) appendLocked(kind EntryKind, command string, lines []Line) {
	e.seq++
	e.version++
	e.transcript = append(e.transcript, newEntry(e.seq, kind, command, lines, e.now()))
}

func (e *Engine) copyTranscriptLocked() []Entry {
	out := make([]Entry, len(e.transcript))
	copy(out, e.transcript)
	return out
}
