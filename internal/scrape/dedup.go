package scrape

import (
	"strings"

	"jobscanner-engine/internal/domain"
)

// Dedup suppresses repeated listings across sources. A listing counts as a
// duplicate when its exact URL has been seen, or when its case-insensitive
// (title, company) pair has been seen; first occurrence wins and later
// duplicates are dropped, not merged. Two genuinely different postings that
// share a title+company pair (same role in two cities) collapse into one.
// Listings without a URL can never satisfy the store's unique-by-URL contract
// and are dropped here.
func Dedup(in []domain.Listing) []domain.Listing {
	seenURL := make(map[string]struct{}, len(in))
	seenTitleCo := make(map[string]struct{}, len(in))

	out := make([]domain.Listing, 0, len(in))
	for _, l := range in {
		if l.URL == "" {
			continue
		}
		pair := strings.ToLower(l.Title) + "\x00" + strings.ToLower(l.Company)

		if _, dup := seenURL[l.URL]; dup {
			continue
		}
		if _, dup := seenTitleCo[pair]; dup {
			continue
		}

		seenURL[l.URL] = struct{}{}
		seenTitleCo[pair] = struct{}{}
		out = append(out, l)
	}
	return out
}
