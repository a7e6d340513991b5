// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"fmt"
	"time"
)

// =============================================================================
// SERIALIZABLE VIEWS
// =============================================================================

// LineView is the flat, tagged encoding of a Line used by JSON and YAML.
type LineView struct {
	Type    string   `json:"type" yaml:"type"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Tone    Tone     `json:"tone,omitempty" yaml:"tone,omitempty"`
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Items   []string `json:"items,omitempty" yaml:"items,omitempty"`
	Columns []Column `json:"columns,omitempty" yaml:"columns,omitempty"`
	Prefix  string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Href    string   `json:"href,omitempty" yaml:"href,omitempty"`
	Lines   []string `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// ViewOf converts a Line to its tagged encoding.
func ViewOf(line Line) LineView {
	switch l := line.(type) {
	case Text:
		return LineView{Type: l.Kind(), Text: l.Value, Tone: l.Tone}
	case Heading:
		return LineView{Type: l.Kind(), Text: l.Value}
	case List:
		return LineView{Type: l.Kind(), Title: l.Title, Items: l.Items}
	case Columns:
		return LineView{Type: l.Kind(), Columns: l.Columns}
	case Link:
		return LineView{Type: l.Kind(), Prefix: l.Prefix, Label: l.Label, Href: l.Href}
	case ASCII:
		return LineView{Type: l.Kind(), Lines: l.Lines}
	case Spacer:
		return LineView{Type: l.Kind()}
	}
	return LineView{}
}

// Line converts the encoding back to a Line.
func (v LineView) Line() (Line, error) {
	switch v.Type {
	case "text":
		return Text{Value: v.Text, Tone: v.Tone}, nil
	case "heading":
		return Heading{Value: v.Text}, nil
	case "list":
		return List{Title: v.Title, Items: v.Items}, nil
	case "columns":
		return Columns{Columns: v.Columns}, nil
	case "link":
		return Link{Prefix: v.Prefix, Label: v.Label, Href: v.Href}, nil
	case "ascii":
		return ASCII{Lines: v.Lines}, nil
	case "spacer":
		return Spacer{}, nil
	}
	return nil, fmt.Errorf("unknown line type %q", v.Type)
}

// ViewLines converts a slice of lines.
func ViewLines(lines []Line) []LineView {
	out := make([]LineView, len(lines))
	for i, l := range lines {
		out[i] = ViewOf(l)
	}
	return out
}

// ParseLines converts a slice of encoded lines, stopping at the first error.
func ParseLines(views []LineView) ([]Line, error) {
	out := make([]Line, 0, len(views))
	for i, v := range views {
		l, err := v.Line()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// EntryView is the JSON encoding of a transcript entry.
type EntryView struct {
	ID        string     `json:"id"`
	Seq       uint64     `json:"seq"`
	Kind      EntryKind  `json:"kind"`
	Text      string     `json:"text,omitempty"`
	Lines     []LineView `json:"lines,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ViewEntries converts transcript entries to their JSON encoding.
func ViewEntries(entries []Entry) []EntryView {
	out := make([]EntryView, len(entries))
	for i, e := range entries {
		v := EntryView{ID: e.ID, Seq: e.Seq, Kind: e.Kind, CreatedAt: e.CreatedAt}
		if e.Kind == EntryCommand {
			v.Text = e.Command
		} else {
			v.Lines = ViewLines(e.Lines)
		}
		out[i] = v
	}
	return out
}
