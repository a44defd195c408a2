package util

import "strings"

// CleanText collapses whitespace (including non-breaking spaces) and trims.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// ExtractLocationFromLabeledText pulls the value after a "Location:" style
// label out of plain text. Last-resort strategy when no selector matches.
func ExtractLocationFromLabeledText(s string) string {
	low := strings.ToLower(s)

	labels := []string{
		"location:",
		"locations:",
		"job location:",
	}

	for _, lab := range labels {
		i := strings.Index(low, lab)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(s[i+len(lab):])

		for _, cut := range []string{"\n", "\r", " | ", " · "} {
			if j := strings.Index(rest, cut); j >= 0 {
				rest = rest[:j]
			}
		}

		rest = CleanText(rest)
		if rest != "" && len(rest) <= 80 {
			return rest
		}
	}
	return ""
}
