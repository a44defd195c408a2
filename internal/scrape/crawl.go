package scrape

import (
	"context"
	"log"
	"time"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape/types"

	"golang.org/x/sync/errgroup"
)

// CrawlAll runs every fetcher over the full terms×locations cross-product and
// returns the merged, deduplicated listings. Fetchers run concurrently but
// results are concatenated in registration order, and within a fetcher in the
// order it returned them. A fetcher failing (or timing out) never prevents
// the others from contributing; its slot just stays empty.
func CrawlAll(ctx context.Context, fetchers []types.Fetcher, terms, locations []string, perFetcherTimeout time.Duration) []domain.Listing {
	results := make([][]domain.Listing, len(fetchers))

	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, perFetcherTimeout)
			defer cancel()

			log.Printf("[%s] running...", f.Name())
			listings, err := f.Fetch(fctx, terms, locations)
			if err != nil {
				// best-effort: log and keep the siblings going
				log.Printf("[%s] fetch error: %v", f.Name(), err)
				return nil
			}
			log.Printf("[%s] fetched=%d", f.Name(), len(listings))
			results[i] = listings
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Listing
	for _, batch := range results {
		all = append(all, batch...)
	}

	unique := Dedup(all)
	log.Printf("[crawl] merged=%d unique=%d", len(all), len(unique))
	return unique
}
