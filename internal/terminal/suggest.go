// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// SUGGESTIONS
// =============================================================================

// maxSuggestDistance is the largest edit distance accepted as a typo.
const maxSuggestDistance = 2

// Suggest returns the catalog key closest to an unknown command.
// Subsequence matches ("hlp" -> "help") win over typo matches ("abuot").
func Suggest(query string) (string, bool) {
	query = Normalize(query)
	if query == "" {
		return "", false
	}

	keys := suggestKeys()

	if len([]rune(query)) >= 2 {
		if matches := FuzzyFilter(query, keys); len(matches) > 0 {
			return matches[0].Target, true
		}
	}

	bestKey, bestDist := "", maxSuggestDistance+1
	for _, key := range keys {
		if d := editDistance(query, key); d < bestDist {
			bestKey, bestDist = key, d
		}
	}
	return bestKey, bestKey != ""
}

func suggestKeys() []string {
	keys := make([]string, 0, len(catalog)+1)
	for _, c := range catalog {
		keys = append(keys, strings.TrimSpace(stripPlaceholder(c.Key)))
	}
	return append(keys, "commands")
}

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// FuzzyMatch performs fuzzy matching between a query and a target string.
// Every query character must appear in order in the target. Consecutive
// characters, word boundaries and the start of the target earn bonuses.
func FuzzyMatch(query, target string) (score int, matched bool) {
	if query == "" {
		return 0, true
	}

	queryRunes := []rune(strings.ToLower(query))
	targetRunes := []rune(strings.ToLower(target))
	if len(queryRunes) > len(targetRunes) {
		return 0, false
	}

	queryPos, lastMatchPos := 0, -1
	for targetPos := 0; targetPos < len(targetRunes) && queryPos < len(queryRunes); targetPos++ {
		if targetRunes[targetPos] != queryRunes[queryPos] {
			continue
		}
		matchScore := 1
		if lastMatchPos == targetPos-1 {
			matchScore += 5
		}
		if targetPos == 0 {
			matchScore += 10
		}
		if isWordBoundary(targetRunes, targetPos) {
			matchScore += 7
		}
		score += matchScore
		lastMatchPos = targetPos
		queryPos++
	}

	matched = queryPos == len(queryRunes)
	if matched {
		// Shorter targets are better matches
		score -= len(targetRunes) / 4
	}
	return score, matched
}

func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(runes) {
		return false
	}
	prev := runes[pos-1]
	if prev == ' ' || prev == '-' || prev == '_' {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(runes[pos])
}

// ScoredMatch is a fuzzy match result.
type ScoredMatch struct {
	Target string
	Score  int
}

// FuzzyFilter returns the targets matching query, best first.
// Ties keep target order.
func FuzzyFilter(query string, targets []string) []ScoredMatch {
	var matches []ScoredMatch
	for _, target := range targets {
		if score, ok := FuzzyMatch(query, target); ok {
			matches = append(matches, ScoredMatch{Target: target, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
