// Package linkedin crawls LinkedIn's public guest job search. No login and no
// API contract, just the rendered card markup, which is why every field goes
// through a selector fallback list.
package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	sourceName = "linkedin"
	baseURL    = "https://www.linkedin.com"
	// guest endpoint behind the public jobs search page; returns card markup
	// in pageSize chunks via the start offset
	guestSearchURL = baseURL + "/jobs-guest/jobs/api/seeMoreJobPostings/search"
	pageSize       = 25
)

// The guest search skews heavily toward US results whatever the location
// parameter says. When the locale filter is on, only listings that mention
// one of these markers in their location survive, so the source can still
// contribute to a Europe/Israel-targeted search without polluting it.
var defaultLocaleMarkers = []string{
	"israel", "tel aviv",
	"united kingdom", "london",
	"germany", "berlin", "munich",
	"netherlands", "amsterdam",
	"france", "paris",
	"switzerland", "zurich",
	"sweden", "stockholm",
	"denmark", "copenhagen",
	"norway", "oslo",
	"austria", "vienna",
	"belgium", "brussels",
	"ireland", "dublin",
	"finland", "helsinki",
	"remote",
}

var (
	cardSelectors = []string{
		"div.base-card",
		".job-search-card",
		"ul.jobs-search__results-list > li",
	}
	titleSelectors = []string{
		"h3.base-search-card__title",
		".base-search-card__title",
		"h3",
	}
	companySelectors = []string{
		"h4.base-search-card__subtitle a",
		".base-search-card__subtitle",
		"h4",
	}
	locationSelectors = []string{
		".job-search-card__location",
		".base-search-card__metadata span",
	}
	linkSelectors = []string{
		"a.base-card__full-link",
		`a[data-tracking-control-name="public_jobs_jserp-result_search-card"]`,
		"a[href]",
	}
	dateSelectors = []string{
		"time.job-search-card__listdate",
		"time",
	}
)

type Config struct {
	MaxPages      int  // bounded pagination per (term, location) query
	LocaleFilter  bool // post-hoc marker filter over the merged results
	LocaleMarkers []string
	DelayBase     time.Duration
	DelayJitter   time.Duration
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	now     func() time.Time
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 2
	}
	if cfg.DelayBase <= 0 {
		cfg.DelayBase = 2 * time.Second
	}
	if cfg.DelayJitter <= 0 {
		cfg.DelayJitter = 2 * time.Second
	}
	if len(cfg.LocaleMarkers) == 0 {
		cfg.LocaleMarkers = defaultLocaleMarkers
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		now:     time.Now,
	}
}

func (s *Scraper) Name() string { return sourceName }

// Fetch walks every (term, location) pair with bounded pagination. A failing
// query is logged and skipped; whatever was collected so far is returned.
func (s *Scraper) Fetch(ctx context.Context, terms, locations []string) ([]domain.Listing, error) {
	var out []domain.Listing

	for _, term := range terms {
		for _, loc := range locations {
			for page := 0; page < s.cfg.MaxPages; page++ {
				listings, err := s.fetchPage(ctx, term, loc, page*pageSize)
				if err != nil {
					log.Printf("[linkedin] term=%q location=%q page=%d: %v", term, loc, page, err)
					break
				}
				out = append(out, listings...)
				if len(listings) < pageSize {
					break // source ran out of results for this query
				}
			}

			delay := util.QueryDelay(term, loc, s.cfg.DelayBase, s.cfg.DelayJitter)
			if err := util.PoliteWait(ctx, delay); err != nil {
				return s.filtered(out), nil
			}
		}
	}

	return s.filtered(out), nil
}

func (s *Scraper) fetchPage(ctx context.Context, term, loc string, start int) ([]domain.Listing, error) {
	q := url.Values{}
	q.Set("keywords", term)
	q.Set("location", loc)
	q.Set("sortBy", "DD")
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	pageURL := guestSearchURL + "?" + q.Encode()

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("linkedin status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin parse: %w", err)
	}

	return s.parsePage(doc, term, loc), nil
}

// parsePage extracts listings from one page of card markup. One bad card is
// skipped, never the page.
func (s *Scraper) parsePage(doc *goquery.Document, term, loc string) []domain.Listing {
	var cards *goquery.Selection
	for _, sel := range cardSelectors {
		if c := doc.Find(sel); c.Length() > 0 {
			cards = c
			break
		}
	}
	if cards == nil {
		return nil
	}

	now := s.now()
	var out []domain.Listing
	cards.Each(func(_ int, card *goquery.Selection) {
		title := util.FirstValidText(card, titleSelectors)
		company := util.FirstValidText(card, companySelectors)
		if title == "" || company == "" {
			// expected filtering, not a fault
			return
		}

		href := util.FirstAttr(card, linkSelectors, "href")
		if href == "" {
			log.Printf("[linkedin] card without link, title=%q", title)
			return
		}
		jobURL := util.CanonicalizeURL(util.AbsoluteURL(baseURL, href))

		posted := util.FirstAttr(card, dateSelectors, "datetime")
		if posted == "" {
			posted = now.Format("2006-01-02")
		}

		meta := domain.NewMetadata(sourceName, now)
		meta["search_term"] = term
		meta["search_location"] = loc

		out = append(out, domain.Listing{
			Title:      title,
			Company:    company,
			Location:   util.FirstValidText(card, locationSelectors),
			URL:        jobURL,
			PostedDate: posted,
			// descriptions need a per-job page visit; withheld at this stage
			Metadata: meta,
		})
	})
	return out
}

// filtered applies the post-hoc locale marker filter when enabled.
func (s *Scraper) filtered(in []domain.Listing) []domain.Listing {
	if !s.cfg.LocaleFilter {
		return in
	}
	out := in[:0:0]
	for _, l := range in {
		if matchesAnyMarker(l, s.cfg.LocaleMarkers) {
			out = append(out, l)
		}
	}
	return out
}

func matchesAnyMarker(l domain.Listing, markers []string) bool {
	blob := strings.ToLower(l.Location + " " + l.Description)
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if strings.Contains(blob, m) {
			return true
		}
	}
	return false
}
