// Package textcheck is a heuristic firewall against scraped noise: ad junk,
// obfuscated anti-scraping payloads, truncated DOM artifacts. It has no
// notion of language or grammar and is deliberately conservative.
package textcheck

import (
	"strings"
	"unicode"
)

const (
	maxSpecialRatio = 0.30 // non-alphanumeric, non-space characters
	maxStarRatio    = 0.20
	minAlphaRatio   = 0.30
	maxWordLen      = 30
	minDistinctRatio = 0.30 // distinct chars vs length, case-insensitive, spaces removed
)

// IsValid reports whether text is plausible human-readable content.
// Empty or single-character text is always rejected; beyond that, failing any
// one of the ratio/shape checks rejects the text.
func IsValid(text string) bool {
	runes := []rune(text)
	if len(runes) < 2 {
		return false
	}

	var special, stars, alpha int
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r):
			alpha++
		case unicode.IsDigit(r):
		case unicode.IsSpace(r):
		default:
			special++
		}
		if r == '*' {
			stars++
		}
	}

	n := float64(len(runes))
	if float64(special)/n > maxSpecialRatio {
		return false
	}
	if float64(stars)/n > maxStarRatio {
		return false
	}
	if float64(alpha)/n < minAlphaRatio {
		return false
	}

	for _, w := range strings.Fields(text) {
		if len([]rune(w)) > maxWordLen {
			return false
		}
	}

	// Repetitive/gibberish strings collapse to very few distinct characters.
	distinct := map[rune]struct{}{}
	squeezed := 0
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			continue
		}
		squeezed++
		distinct[r] = struct{}{}
	}
	if squeezed > 0 && float64(len(distinct))/float64(squeezed) < minDistinctRatio {
		return false
	}

	return true
}
