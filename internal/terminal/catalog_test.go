// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"
	"testing"
)

func TestCatalog_KeysUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Catalog() {
		if seen[c.Key] {
			t.Errorf("duplicate catalog key %q", c.Key)
		}
		seen[c.Key] = true
	}
}

func TestCatalog_StaticCommandsHaveOutputs(t *testing.T) {
	builtins := map[string]bool{
		"help": true, "theme list": true, "theme set <name>": true,
		"clear": true, "history": true,
	}
	outputs := DefaultOutputs()
	for _, c := range Catalog() {
		if builtins[c.Key] {
			continue
		}
		if _, ok := outputs[c.Key]; !ok {
			t.Errorf("catalog key %q has no static output", c.Key)
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ab", "about"},
		{"th", "theme "},
		{"theme l", "theme list"},
		{"theme s", "theme set "},
		{"e", "education"},
		{"h", "help"},
		{"hi", "history"},
		{"CON", "contact"},
		{"zzz", "zzz"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Complete(tc.input); got != tc.want {
			t.Errorf("Complete(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates("theme")
	want := []string{"theme list", "theme set <name>"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Candidates(%q) = %v, want %v", "theme", got, want)
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"hlp", "help", true},
		{"abuot", "about", true},
		{"contcat", "contact", true},
		{"xyzzy", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := Suggest(tc.input)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Suggest(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		query, target string
		want          bool
	}{
		{"hlp", "help", true},
		{"tl", "theme list", true},
		{"xyz", "about", false},
		{"", "about", true},
		{"aboutme", "about", false},
	}

	for _, tc := range tests {
		if _, got := FuzzyMatch(tc.query, tc.target); got != tc.want {
			t.Errorf("FuzzyMatch(%q, %q) = %v, want %v", tc.query, tc.target, got, tc.want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"matrix", "gruvbox"},
		{"light", "matrix"},
		{"unknown", "gruvbox"},
	}

	for _, tc := range tests {
		if got := NextTheme(tc.name); got != tc.want {
			t.Errorf("NextTheme(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
