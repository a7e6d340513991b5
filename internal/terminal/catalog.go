// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND CATALOG
// =============================================================================

// CommandDescriptor describes one command offered by the terminal.
type CommandDescriptor struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description" yaml:"description"`
}

// catalog is ordered as shown by help. Keys are unique.
var catalog = []CommandDescriptor{
	{Key: "help", Description: "List available commands"},
	{Key: "about", Description: "Who I am and what I do"},
	{Key: "education", Description: "Where I studied"},
	{Key: "skills", Description: "Stacks, languages, and tooling"},
	{Key: "experience", Description: "Roles and impact"},
	{Key: "projects", Description: "Highlighted builds and repos"},
	{Key: "contact", Description: "How to reach me"},
	{Key: "theme list", Description: "Show supported themes"},
	{Key: "theme set <name>", Description: "Switch the terminal theme"},
	{Key: "clear", Description: "Reset the terminal history"},
	{Key: "history", Description: "Show recent commands"},
	{Key: "banner", Description: "Print the ASCII welcome banner"},
}

// Catalog returns a copy of the command catalog in display order.
func Catalog() []CommandDescriptor {
	out := make([]CommandDescriptor, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogKeys returns the catalog keys in display order.
func CatalogKeys() []string {
	keys := make([]string, len(catalog))
	for i, c := range catalog {
		keys[i] = c.Key
	}
	return keys
}

// LookupCommand finds a descriptor by key.
func LookupCommand(key string) (CommandDescriptor, bool) {
	for _, c := range catalog {
		if c.Key == key {
			return c, true
		}
	}
	return CommandDescriptor{}, false
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete returns the completion of input against the catalog keys.
// A single match completes fully. With several matches the longest common
// prefix is used when it extends the input, otherwise the first match.
// Input with no match is returned unchanged.
func Complete(input string) string {
	prefix := strings.ToLower(strings.TrimLeft(input, " "))
	if prefix == "" {
		return input
	}

	var matches []string
	for _, key := range CatalogKeys() {
		if strings.HasPrefix(key, prefix) {
			matches = append(matches, key)
		}
	}

	switch len(matches) {
	case 0:
		return input
	case 1:
		return stripPlaceholder(matches[0])
	}

	common := longestCommonPrefix(matches)
	if len(common) > len(prefix) {
		return stripPlaceholder(common)
	}
	return stripPlaceholder(matches[0])
}

// stripPlaceholder turns "theme set <name>" into "theme set ".
func stripPlaceholder(key string) string {
	if i := strings.Index(key, "<"); i >= 0 {
		return key[:i]
	}
	return key
}

// Candidates returns catalog keys starting with input, sorted.
func Candidates(input string) []string {
	prefix := strings.ToLower(strings.TrimSpace(input))
	var out []string
	for _, key := range CatalogKeys() {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func longestCommonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		for !strings.HasPrefix(v, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
