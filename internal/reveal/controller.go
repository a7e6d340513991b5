// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/termfolio/internal/content"
)

// ErrDisposed is returned when observing with a disposed controller.
var ErrDisposed = errors.New("reveal controller disposed")

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config tunes visibility detection and parallax.
type Config struct {
	// Threshold is the minimum visible fraction that counts as intersecting.
	Threshold float64

	// BottomMargin extends the viewport downward, as a fraction of its height,
	// so tall sections reveal before their top reaches the fold.
	BottomMargin float64

	// ParallaxBase and ParallaxStep give a section's speed: base + order*step,
	// with order starting at 1.
	ParallaxBase float64
	ParallaxStep float64

	// ParallaxMax clamps offsets to [-ParallaxMax, ParallaxMax].
	ParallaxMax float64

	// EntranceOffset is added to sections that have not been revealed yet.
	EntranceOffset float64

	// FrameInterval is the minimum time between parallax computations.
	FrameInterval time.Duration
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Threshold:      0.1,
		BottomMargin:   0.35,
		ParallaxBase:   0.08,
		ParallaxStep:   0.03,
		ParallaxMax:    28,
		EntranceOffset: 40,
		FrameInterval:  16 * time.Millisecond,
	}
}

// Validate checks the tuning is usable.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0, 1], got %v", c.Threshold)
	}
	if c.BottomMargin < 0 || c.BottomMargin > 1 {
		return fmt.Errorf("bottom margin must be within [0, 1], got %v", c.BottomMargin)
	}
	if c.ParallaxMax <= 0 {
		return fmt.Errorf("parallax max must be positive, got %v", c.ParallaxMax)
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("frame interval must not be negative, got %v", c.FrameInterval)
	}
	return nil
}

// Speed returns the parallax speed for a section at order (1-based).
func (c Config) Speed(order int) float64 {
	return c.ParallaxBase + float64(order)*c.ParallaxStep
}

// ParallaxOffset returns the clamped offset for a section whose center sits
// sectionCenter pixels from the top of the viewport.
func (c Config) ParallaxOffset(order int, sectionCenter, viewportCenter float64) float64 {
	return clamp((viewportCenter-sectionCenter)*c.Speed(order), c.ParallaxMax)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// State is the controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateObserving
	StateDisposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateObserving:
		return "observing"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// TriggerFunc is called once per section, the first time it becomes visible.
type TriggerFunc func(content.Section)

// Watcher is the host-facing surface of the controller.
type Watcher interface {
	// OnVisible marks a section visible, firing its trigger the first time.
	OnVisible(sectionID string) bool

	// Tick runs at most one parallax computation per frame interval.
	Tick(now time.Time) bool
}

var _ Watcher = (*Controller)(nil)

// Controller owns the triggered-section set and parallax offsets.
type Controller struct {
	mu sync.Mutex

	cfg       Config
	sections  []content.Section
	order     map[string]int
	onTrigger TriggerFunc

	state     State
	layout    map[string]Rect
	triggered map[string]bool
	viewport  Viewport

	framePending bool
	lastFrame    time.Time
	offsets      map[string]float64
}

// Options configures a Controller.
type Options struct {
	Config Config

	// InitialTriggered lists sections already revealed, e.g. restored state.
	// They never fire.
	InitialTriggered []string

	OnTrigger TriggerFunc
}

// NewController creates an idle controller over sections in scroll order.
func NewController(sections []content.Section, opts Options) *Controller {
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	c := &Controller{
		cfg:       cfg,
		sections:  append([]content.Section(nil), sections...),
		order:     make(map[string]int, len(sections)),
		onTrigger: opts.OnTrigger,
		layout:    make(map[string]Rect, len(sections)),
		triggered: make(map[string]bool, len(sections)),
		offsets:   make(map[string]float64, len(sections)),
	}
	for i, s := range sections {
		c.order[s.ID] = i + 1
	}
	for _, id := range opts.InitialTriggered {
		if _, ok := c.order[id]; ok {
			c.triggered[id] = true
		}
	}
	return c
}

// Observe starts observation with the given section layout.
// Calling Observe again replaces the layout.
func (c *Controller) Observe(layout map[string]Rect) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDisposed {
		return ErrDisposed
	}
	c.layout = make(map[string]Rect, len(layout))
	for id, r := range layout {
		if _, ok := c.order[id]; ok {
			c.layout[id] = r
		}
	}
	c.state = StateObserving
	c.framePending = true
	return nil
}

// Dispose stops observation and cancels any pending frame.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDisposed
	c.framePending = false
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// =============================================================================
// VISIBILITY
// =============================================================================

// Scroll records a new viewport, fires triggers for newly visible sections
// and schedules a parallax frame. It returns the sections that fired, in
// scroll order.
func (c *Controller) Scroll(v Viewport) []content.Section {
	c.mu.Lock()
	if c.state != StateObserving {
		c.mu.Unlock()
		return nil
	}
	c.viewport = v
	c.framePending = true

	var fired []content.Section
	for _, s := range c.sections {
		r, ok := c.layout[s.ID]
		if !ok || c.triggered[s.ID] {
			continue
		}
		ratio := IntersectionRatio(r, v, c.cfg.BottomMargin)
		if ratio > 0 && ratio >= c.cfg.Threshold {
			c.triggered[s.ID] = true
			fired = append(fired, s)
		}
	}
	onTrigger := c.onTrigger
	c.mu.Unlock()

	if onTrigger != nil {
		for _, s := range fired {
			onTrigger(s)
		}
	}
	return fired
}

// OnVisible marks a section visible. It reports whether the section fired,
// which happens only on its first visibility.
func (c *Controller) OnVisible(sectionID string) bool {
	c.mu.Lock()
	if c.state != StateObserving || c.triggered[sectionID] {
		c.mu.Unlock()
		return false
	}
	idx, ok := c.order[sectionID]
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.triggered[sectionID] = true
	c.framePending = true
	s := c.sections[idx-1]
	onTrigger := c.onTrigger
	c.mu.Unlock()

	if onTrigger != nil {
		onTrigger(s)
	}
	return true
}

// Triggered reports whether a section has been revealed.
func (c *Controller) Triggered(sectionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.triggered[sectionID]
}

// TriggeredIDs returns the revealed section ids in scroll order.
func (c *Controller) TriggeredIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for _, s := range c.sections {
		if c.triggered[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// =============================================================================
// PARALLAX
// =============================================================================

// Tick recomputes parallax offsets if a frame is pending and at least one
// frame interval has passed since the last computation. It reports whether
// offsets were recomputed.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateObserving || !c.framePending {
		return false
	}
	if !c.lastFrame.IsZero() && now.Sub(c.lastFrame) < c.cfg.FrameInterval {
		return false
	}

	center := c.viewport.Center()
	for id, r := range c.layout {
		if c.viewport.Height <= 0 {
			c.offsets[id] = 0
			continue
		}
		sectionCenter := r.Center() - c.viewport.ScrollTop
		c.offsets[id] = c.cfg.ParallaxOffset(c.order[id], sectionCenter, center)
	}
	c.lastFrame = now
	c.framePending = false
	return true
}

// FramePending reports whether a parallax computation is waiting for Tick.
func (c *Controller) FramePending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateObserving && c.framePending
}

// Offset returns the total vertical offset for a section: the last computed
// parallax plus the entrance offset while the section is unrevealed.
func (c *Controller) Offset(sectionID string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := 0.0
	if c.state == StateObserving {
		offset = c.offsets[sectionID]
	}
	if !c.triggered[sectionID] {
		offset += c.cfg.EntranceOffset
	}
	return offset
}

// Parallax returns the last computed parallax offset, without entrance offset.
func (c *Controller) Parallax(sectionID string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsets[sectionID]
}

// Sections returns the observed sections in scroll order.
func (c *Controller) Sections() []content.Section {
	return append([]content.Section(nil), c.sections...)
}

// Config returns the controller's tuning.
func (c *Controller) Config() Config {
	return c.cfg
}
