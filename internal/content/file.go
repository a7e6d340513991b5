// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/termfolio/internal/terminal"
)

// =============================================================================
// BUNDLE
// =============================================================================

// Bundle is the full set of content served by the terminal.
type Bundle struct {
	Sections []Section
	Outputs  terminal.Outputs
}

// Default returns the built-in content.
func Default() *Bundle {
	return &Bundle{
		Sections: DefaultSections(),
		Outputs:  terminal.DefaultOutputs(),
	}
}

// SectionByID looks up a section.
func (b *Bundle) SectionByID(id string) (Section, bool) {
	for _, s := range b.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// fileFormat is the on-disk YAML layout.
type fileFormat struct {
	Sections []Section                       `yaml:"sections"`
	Outputs  map[string][]terminal.LineView `yaml:"outputs"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a content file and merges it over the built-in content.
// Sections in the file replace the built-in list entirely; outputs replace
// built-in outputs key by key. An empty path returns the defaults.
func Load(path string) (*Bundle, error) {
	b := Default()
	if path == "" {
		return b, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	if err := b.merge(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func (b *Bundle) merge(data []byte) error {
	var f fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse content: %w", err)
	}

	if len(f.Sections) > 0 {
		b.Sections = f.Sections
	}
	for key, views := range f.Outputs {
		lines, err := terminal.ParseLines(views)
		if err != nil {
			return fmt.Errorf("output %q: %w", key, err)
		}
		b.Outputs[terminal.Normalize(key)] = lines
	}
	return b.Validate()
}

// Validate checks section ids are unique and every section has a command.
func (b *Bundle) Validate() error {
	seen := make(map[string]bool, len(b.Sections))
	for i, s := range b.Sections {
		if s.ID == "" {
			return fmt.Errorf("section %d: missing id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("section %q: duplicate id", s.ID)
		}
		seen[s.ID] = true
		if s.Command == "" {
			return fmt.Errorf("section %q: missing command", s.ID)
		}
	}
	return nil
}
