// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import "errors"

// =============================================================================
// THEME TOKENS
// =============================================================================

// ErrUnknownTheme is returned when a theme name is not in the theme table.
var ErrUnknownTheme = errors.New("unknown theme")

// DefaultTheme is the theme used when nothing else is configured.
const DefaultTheme = "matrix"

// ThemeTokens holds the colors of one theme as hex strings.
type ThemeTokens struct {
	Name  string `json:"name"`
	Label string `json:"label"`

	// Body is the page background behind the terminal window.
	Body string `json:"body"`

	// Terminal window
	Background string `json:"background"`
	Border     string `json:"border"`
	Glow       string `json:"glow"`

	// Text
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Prompt    string `json:"prompt"`
	Accent    string `json:"accent"`
	Link      string `json:"link"`
	Success   string `json:"success"`
	Error     string `json:"error"`
	Muted     string `json:"muted"`

	// Controls
	ButtonBg   string `json:"buttonBg"`
	ButtonText string `json:"buttonText"`
	Icon       string `json:"icon"`
}

var themes = []ThemeTokens{
	{
		Name: "matrix", Label: "Matrix",
		Body: "#020d05", Background: "#03140a", Border: "#0a7a4a", Glow: "#0cff98",
		Primary: "#d2ffe5", Secondary: "#6eedb4", Prompt: "#7cffa9", Accent: "#0cff98", Link: "#4affc2",
		Success: "#7cffa9", Error: "#ff5f6d", Muted: "#3f8f68",
		ButtonBg: "#0b3322", ButtonText: "#bfffea", Icon: "#7cffa9",
	},
	{
		Name: "gruvbox", Label: "Gruvbox",
		Body: "#0d0905", Background: "#1c140c", Border: "#8a6428", Glow: "#f7ab42",
		Primary: "#f4e1c6", Secondary: "#c6b28a", Prompt: "#f7ab42", Accent: "#fabd2f", Link: "#fe8019",
		Success: "#b8bb26", Error: "#fb4934", Muted: "#928374",
		ButtonBg: "#3a2a14", ButtonText: "#fff4df", Icon: "#f7ab42",
	},
	{
		Name: "monokai", Label: "Monokai",
		Body: "#101010", Background: "#21201c", Border: "#8c4470", Glow: "#ff79c6",
		Primary: "#f8f8f2", Secondary: "#b6b6b2", Prompt: "#f92672", Accent: "#a6e22e", Link: "#66d9ef",
		Success: "#a6e22e", Error: "#f92672", Muted: "#75715e",
		ButtonBg: "#3b2a35", ButtonText: "#ffffff", Icon: "#f92672",
	},
	{
		Name: "light", Label: "Light",
		Body: "#e9ecf1", Background: "#ffffff", Border: "#c3cad6", Glow: "#1f3968",
		Primary: "#0c1b33", Secondary: "#4c5a6e", Prompt: "#0047bb", Accent: "#006bff", Link: "#0047bb",
		Success: "#1a7f37", Error: "#cf222e", Muted: "#6e7781",
		ButtonBg: "#e1ecff", ButtonText: "#0c1b33", Icon: "#0047bb",
	},
}

// Themes returns all known themes in display order.
func Themes() []ThemeTokens {
	out := make([]ThemeTokens, len(themes))
	copy(out, themes)
	return out
}

// ThemeNames returns the names of all known themes in display order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// IsKnownTheme reports whether name is in the theme table.
func IsKnownTheme(name string) bool {
	_, err := LookupTheme(name)
	return err == nil
}

// LookupTheme returns the tokens for name or ErrUnknownTheme.
func LookupTheme(name string) (ThemeTokens, error) {
	for _, t := range themes {
		if t.Name == name {
			return t, nil
		}
	}
	return ThemeTokens{}, ErrUnknownTheme
}

// ThemeByName returns the tokens for name, falling back to the default theme.
func ThemeByName(name string) ThemeTokens {
	if t, err := LookupTheme(name); err == nil {
		return t
	}
	return themes[0]
}

// NextTheme returns the theme after name in display order, wrapping around.
// Unknown names advance from the default.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[1%len(themes)].Name
}
