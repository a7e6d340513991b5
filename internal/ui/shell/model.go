// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/reveal"
	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/tasks"
	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/ui/components"
	"github.com/jeranaias/termfolio/internal/ui/styles"
)

const (
	// statusTimeout is how long transient status messages stay visible.
	statusTimeout = 3 * time.Second

	// windowChrome is the rows the terminal window uses besides the
	// transcript: border (2), title, prompt.
	windowChrome = 4

	// minFrameInterval keeps remote sessions from redrawing at 60fps.
	minFrameInterval = 33 * time.Millisecond

	windowTitle = "visitor@termfolio: ~"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model.
type Options struct {
	// Engine is required.
	Engine *terminal.Engine

	// Player is the auto-play worker attached to Engine. It may be nil, in
	// which case queued counts are not shown.
	Player *tasks.Player

	// Sections in scroll order. Defaults to the built-in sections.
	Sections []content.Section

	// Reveal tunes visibility and parallax. Zero means reveal.DefaultConfig.
	Reveal reveal.Config

	// Archive receives ctrl+s saves. Nil disables saving.
	Archive *storage.TranscriptArchive

	// Renderer is the lipgloss renderer of the output. SSH sessions pass one
	// per channel; nil uses the default renderer.
	Renderer *lipgloss.Renderer

	// Subtitle is shown under the brand, e.g. owner name and role.
	Subtitle string

	// OnCommand is called after every typed command.
	OnCommand func(command string, known bool)

	Keys   *KeyMap
	Now    func() time.Time
	Logger *slog.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the shell.
type Model struct {
	// Core
	engine     *terminal.Engine
	player     *tasks.Player
	controller *reveal.Controller
	archive    *storage.TranscriptArchive
	revealCfg  reveal.Config
	sections   []content.Section

	// Styling
	renderer   *lipgloss.Renderer
	theme      *styles.Theme
	themeName  string
	layoutMode styles.LayoutMode

	// UI components
	header     *components.Header
	status     *components.StatusBar
	pane       *components.SectionsPane
	transcript *components.TranscriptViewport
	hint       *components.CompletionHint
	spinner    components.Spinner
	input      textinput.Model
	keys       KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// Render bookkeeping
	version     uint64
	frameQueued bool
	caretStart  time.Time

	// History recall (-1 when not recalling)
	historyPos int
	draft      string

	statusSeq int
	onCommand func(string, bool)

	now    func() time.Time
	logger *slog.Logger
}

// New creates a shell model. Observation starts with the first window size.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Reveal == (reveal.Config{}) {
		opts.Reveal = reveal.DefaultConfig()
	}
	if opts.Sections == nil {
		opts.Sections = content.DefaultSections()
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	themeName := opts.Engine.Theme()
	theme := styles.NewThemeWithRenderer(themeName, opts.Renderer)

	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "type a command, e.g. help"
	input.CharLimit = 256
	input.PlaceholderStyle = theme.Placeholder
	input.TextStyle = theme.InputText
	input.Cursor.Style = theme.Caret

	m := Model{
		engine:     opts.Engine,
		player:     opts.Player,
		archive:    opts.Archive,
		revealCfg:  opts.Reveal,
		sections:   opts.Sections,
		renderer:   opts.Renderer,
		theme:      theme,
		themeName:  themeName,
		header:     components.NewHeader(theme),
		status:     components.NewStatusBar(theme),
		pane:       components.NewSectionsPane(theme, opts.Sections),
		transcript: components.NewTranscriptViewport(theme),
		hint:       components.NewCompletionHint(theme),
		spinner:    components.NewSpinner(),
		input:      input,
		keys:       keys,
		historyPos: -1,
		caretStart: opts.Now(),
		onCommand:  opts.OnCommand,
		now:        opts.Now,
		logger:     opts.Logger,
	}
	m.header.Subtitle = opts.Subtitle
	m.controller = newController(opts.Engine, opts.Sections, opts.Reveal, nil, opts.Logger)
	m.status.Sections = len(opts.Sections)
	m.status.Mode = opts.Engine.Mode()
	if m.status.Mode == terminal.ModeInteractive {
		m.input.Focus()
	}
	m.syncTranscript()
	return m
}

// newController builds a reveal controller whose triggers feed the engine's
// auto queue. Triggers that arrive in interactive mode are dropped.
func newController(engine *terminal.Engine, sections []content.Section, cfg reveal.Config, initial []string, logger *slog.Logger) *reveal.Controller {
	return reveal.NewController(sections, reveal.Options{
		Config:           cfg,
		InitialTriggered: initial,
		OnTrigger: func(s content.Section) {
			err := engine.EnqueueAutoCommand(s.Command)
			switch {
			case err == nil:
				logger.Debug("section revealed", "section", s.ID, "command", s.Command)
			case errors.Is(err, terminal.ErrInteractiveMode):
				logger.Debug("section revealed in interactive mode", "section", s.ID)
			default:
				logger.Warn("auto command not queued", "section", s.ID, "error", err)
			}
		},
	})
}

// Init starts the cursor blink when the shell opens in interactive mode.
func (m Model) Init() tea.Cmd {
	if m.engine.Mode() == terminal.ModeInteractive {
		return textinput.Blink
	}
	return nil
}

// Controller returns the reveal controller.
func (m Model) Controller() *reveal.Controller {
	return m.controller
}

// Engine returns the command engine.
func (m Model) Engine() *terminal.Engine {
	return m.engine
}

// Dispose stops reveal observation. Call it once the program has exited.
func (m Model) Dispose() {
	m.controller.Dispose()
}
