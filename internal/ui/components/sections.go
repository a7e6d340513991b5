// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/reveal"
	"github.com/jeranaias/termfolio/internal/ui/styles"
	"github.com/jeranaias/termfolio/internal/util"
)

// RowUnits is the number of layout units in one terminal row. The reveal
// controller works in these units so its tuning reads like CSS pixels.
const RowUnits = 10.0

// OffsetSource supplies per-section offsets. *reveal.Controller satisfies it.
type OffsetSource interface {
	Parallax(sectionID string) float64
	Triggered(sectionID string) bool
	Config() reveal.Config
}

// =============================================================================
// SECTIONS PANE - scrollable column of section cards
// =============================================================================

// SectionsPane lays out section cards and renders the visible window with
// parallax and entrance offsets applied.
type SectionsPane struct {
	theme    *styles.Theme
	sections []content.Section

	width  int
	height int
	scroll int

	cards [][]string
	tops  []int
	total int

	entrances map[string]styles.Transition
}

// NewSectionsPane creates a pane over sections in scroll order.
func NewSectionsPane(theme *styles.Theme, sections []content.Section) *SectionsPane {
	p := &SectionsPane{
		theme:     theme,
		sections:  append([]content.Section(nil), sections...),
		width:     40,
		height:    20,
		entrances: make(map[string]styles.Transition),
	}
	p.layout()
	return p
}

// SetTheme swaps the theme and re-renders the cards.
func (p *SectionsPane) SetTheme(theme *styles.Theme) {
	p.theme = theme
	p.layout()
}

// SetSize updates the pane dimensions and re-lays out the cards.
func (p *SectionsPane) SetSize(width, height int) {
	p.width = max(width, 10)
	p.height = max(height, 1)
	p.layout()
}

// SetSections replaces the sections (content reload).
func (p *SectionsPane) SetSections(sections []content.Section) {
	p.sections = append([]content.Section(nil), sections...)
	p.layout()
}

// Height returns the pane height in rows.
func (p *SectionsPane) Height() int {
	return p.height
}

// layout renders every card and assigns document rows.
func (p *SectionsPane) layout() {
	p.cards = p.cards[:0]
	p.tops = p.tops[:0]
	row := 0
	for _, s := range p.sections {
		card := p.renderCard(s, p.theme.SectionCard)
		p.cards = append(p.cards, card)
		p.tops = append(p.tops, row)
		row += len(card) + 1
	}
	p.total = row
	p.clampScroll()
}

func (p *SectionsPane) renderCard(s content.Section, style lipgloss.Style) []string {
	inner := max(p.width-4, 6)
	rows := []string{
		p.theme.SectionLabel.Render(strings.ToUpper(s.Label)) + "  " + p.theme.Button.Render(s.Command),
		p.theme.SectionSummary.Render(util.TruncateWidth(s.Summary, inner)),
	}
	for _, r := range s.Body() {
		rows = append(rows, p.theme.SectionBody.Render(util.TruncateWidth(r, inner)))
	}
	block := style.UnsetMarginBottom().Width(p.width - 1).Render(strings.Join(rows, "\n"))
	return strings.Split(block, "\n")
}

// Layout returns each section's extent in layout units.
func (p *SectionsPane) Layout() map[string]reveal.Rect {
	out := make(map[string]reveal.Rect, len(p.sections))
	for i, s := range p.sections {
		out[s.ID] = reveal.Rect{
			Top:    float64(p.tops[i]) * RowUnits,
			Height: float64(len(p.cards[i])) * RowUnits,
		}
	}
	return out
}

// Viewport returns the visible window in layout units.
func (p *SectionsPane) Viewport() reveal.Viewport {
	return reveal.Viewport{
		ScrollTop: float64(p.scroll) * RowUnits,
		Height:    float64(p.height) * RowUnits,
	}
}

// =============================================================================
// SCROLLING
// =============================================================================

// ScrollBy moves the window by rows and reports whether it moved.
func (p *SectionsPane) ScrollBy(rows int) bool {
	before := p.scroll
	p.scroll += rows
	p.clampScroll()
	return p.scroll != before
}

// PageDown scrolls one page down.
func (p *SectionsPane) PageDown() bool { return p.ScrollBy(p.height) }

// PageUp scrolls one page up.
func (p *SectionsPane) PageUp() bool { return p.ScrollBy(-p.height) }

// ScrollToSection brings a section's top into view.
func (p *SectionsPane) ScrollToSection(id string) bool {
	for i, s := range p.sections {
		if s.ID == id {
			before := p.scroll
			p.scroll = p.tops[i]
			p.clampScroll()
			return p.scroll != before
		}
	}
	return false
}

// ScrollTop returns the first visible row.
func (p *SectionsPane) ScrollTop() int {
	return p.scroll
}

// AtBottom reports whether the last row is visible.
func (p *SectionsPane) AtBottom() bool {
	return p.scroll >= p.maxScroll()
}

func (p *SectionsPane) maxScroll() int {
	return max(p.total-p.height, 0)
}

func (p *SectionsPane) clampScroll() {
	p.scroll = max(0, min(p.scroll, p.maxScroll()))
}

// =============================================================================
// ENTRANCE ANIMATION
// =============================================================================

// Reveal starts the entrance slide for a newly triggered section.
func (p *SectionsPane) Reveal(id string, from float64, now time.Time) {
	p.entrances[id] = styles.Transition{
		From:     from,
		To:       0,
		Start:    now,
		Duration: styles.EntranceDuration,
		Easing:   styles.EaseOutCubic,
	}
}

// Animating reports whether any entrance slide is still running.
func (p *SectionsPane) Animating(now time.Time) bool {
	for id, tr := range p.entrances {
		if !tr.Done(now) {
			return true
		}
		delete(p.entrances, id)
	}
	return false
}

// Offset returns the vertical offset in rows for a section at now.
func (p *SectionsPane) Offset(src OffsetSource, id string, now time.Time) int {
	units := src.Parallax(id)
	if !src.Triggered(id) {
		units += src.Config().EntranceOffset
	} else if tr, ok := p.entrances[id]; ok {
		units += tr.Value(now)
	}
	return int(math.Round(units / RowUnits))
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the visible rows. Cards are shifted by their offsets; later
// cards draw over earlier ones where they overlap.
func (p *SectionsPane) View(src OffsetSource, now time.Time) string {
	canvas := make([]string, p.height)
	for i, s := range p.sections {
		card := p.cards[i]
		if !src.Triggered(s.ID) {
			card = p.renderCard(s, p.theme.SectionUnseen)
		}
		top := p.tops[i] + p.Offset(src, s.ID, now) - p.scroll
		for j, row := range card {
			y := top + j
			if y >= 0 && y < p.height {
				canvas[y] = row
			}
		}
	}
	return p.theme.SectionsPane.Render(strings.Join(canvas, "\n"))
}
