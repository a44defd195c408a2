package util

import (
	"jobscanner-engine/internal/textcheck"

	"github.com/PuerkitoBio/goquery"
)

// FirstValidText walks an ordered fallback list and returns the cleaned text
// of the first selector whose content passes textcheck. Source markup drifts
// constantly, so every field is extracted this way: new fallbacks are
// appended to the list, never branched into code.
func FirstValidText(sel *goquery.Selection, selectors []string) string {
	for _, s := range selectors {
		t := CleanText(sel.Find(s).First().Text())
		if t != "" && textcheck.IsValid(t) {
			return t
		}
	}
	return ""
}

// FirstAttr returns attr of the first selector that carries a non-empty value.
func FirstAttr(sel *goquery.Selection, selectors []string, attr string) string {
	for _, s := range selectors {
		if v, ok := sel.Find(s).First().Attr(attr); ok {
			if v = CleanText(v); v != "" {
				return v
			}
		}
	}
	return ""
}
