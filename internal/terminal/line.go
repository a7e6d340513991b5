// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

// =============================================================================
// TONE
// =============================================================================

// Tone selects the color treatment of a text line.
type Tone string

const (
	ToneDefault Tone = "default"
	ToneAccent  Tone = "accent"
	ToneMuted   Tone = "muted"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// String returns the tone name.
func (t Tone) String() string {
	if t == "" {
		return string(ToneDefault)
	}
	return string(t)
}

// =============================================================================
// LINE VARIANTS
// =============================================================================

// Line is one renderable unit of command output.
// The set of implementations is closed: Text, Heading, List, Columns, Link,
// ASCII and Spacer.
type Line interface {
	// Kind returns the variant name, used by JSON encoders.
	Kind() string
	line()
}

// Text is a plain line of prose with a tone.
type Text struct {
	Value string
	Tone  Tone
}

// Heading is a section title inside an output block.
type Heading struct {
	Value string
}

// List is a bulleted list with an optional title.
type List struct {
	Title string
	Items []string
}

// Column is one titled group inside Columns.
type Column struct {
	Title string   `json:"title" yaml:"title"`
	Items []string `json:"items" yaml:"items"`
}

// Columns lays titled groups side by side.
type Columns struct {
	Columns []Column
}

// Link is a labelled external reference. Prefix is printed before the label.
type Link struct {
	Prefix string
	Label  string
	Href   string
}

// ASCII is a preformatted block that must not be wrapped.
type ASCII struct {
	Lines []string
}

// Spacer is an empty vertical gap.
type Spacer struct{}

func (Text) Kind() string    { return "text" }
func (Heading) Kind() string { return "heading" }
func (List) Kind() string    { return "list" }
func (Columns) Kind() string { return "columns" }
func (Link) Kind() string    { return "link" }
func (ASCII) Kind() string   { return "ascii" }
func (Spacer) Kind() string  { return "spacer" }

func (Text) line()    {}
func (Heading) line() {}
func (List) line()    {}
func (Columns) line() {}
func (Link) line()    {}
func (ASCII) line()   {}
func (Spacer) line()  {}

// ErrorLine returns an error-toned text line.
func ErrorLine(msg string) Line {
	return Text{Value: msg, Tone: ToneError}
}

// IsError reports whether the line is error-toned text.
func IsError(l Line) bool {
	t, ok := l.(Text)
	return ok && t.Tone == ToneError
}
