package domain

import "time"

// Listing is one job posting as extracted from a source, before persistence.
// URL is the canonical identifier; it must already be absolute when a listing
// leaves an adapter.
type Listing struct {
	Title       string
	Company     string
	Location    string
	URL         string
	PostedDate  string // ISO date (2006-01-02); capture date when the source omits it
	Description string
	Metadata    map[string]any
}

// NewMetadata builds the baseline metadata every adapter stamps on a listing.
// Adapter-specific keys (search_term, search_location, ...) get added on top.
func NewMetadata(source string, crawledAt time.Time) map[string]any {
	return map[string]any{
		"source":     source,
		"crawled_at": crawledAt.UTC().Format(time.RFC3339),
	}
}
