// Package google crawls Google Careers search results. The page is a
// JavaScript application, so queries render in a headless browser before the
// card markup is extracted.
package google

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const (
	sourceName  = "google_careers"
	companyName = "Google"
	baseURL     = "https://careers.google.com"

	// presence of this marks the results list as materialized
	resultsReadySelector = `[data-test-id="job-search-result"]`
)

var (
	cardSelectors = []string{
		`[data-test-id="job-search-result"]`,
		"li.job-result",
		".job-listing",
	}
	titleSelectors = []string{
		`[data-test-id="job-title"]`,
		".job-title",
		"h3",
	}
	locationSelectors = []string{
		`[data-test-id="job-location"]`,
		".job-location",
	}
	linkSelectors = []string{
		`a[data-test-id="job-result-link"]`,
		`a[href*="jobs/results/"]`,
		"a[href]",
	}
	descriptionSelectors = []string{
		`[data-test-id="job-description"]`,
		".job-snippet",
	}
)

type Config struct {
	MaxScrolls  int           // bounded incremental loading per query
	WaitTimeout time.Duration // how long to wait for results to materialize
	DelayBase   time.Duration
	DelayJitter time.Duration
}

// renderFunc abstracts the browser so extraction stays testable on static HTML.
type renderFunc func(ctx context.Context, pageURL string) (string, error)

type Scraper struct {
	cfg    Config
	render renderFunc
	now    func() time.Time
}

func New(cfg Config) *Scraper {
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 3
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 10 * time.Second
	}
	if cfg.DelayBase <= 0 {
		cfg.DelayBase = 2 * time.Second
	}
	if cfg.DelayJitter <= 0 {
		cfg.DelayJitter = 2 * time.Second
	}
	s := &Scraper{cfg: cfg, now: time.Now}
	s.render = s.renderResults
	return s
}

func (s *Scraper) Name() string { return sourceName }

// Fetch renders one search per (term, location) pair and extracts whatever
// cards survived. A query whose results never materialize within the wait
// bound counts as "no results for this query", not a failure of the run.
func (s *Scraper) Fetch(ctx context.Context, terms, locations []string) ([]domain.Listing, error) {
	var out []domain.Listing

	for _, term := range terms {
		for _, loc := range locations {
			listings, err := s.fetchQuery(ctx, term, loc)
			if err != nil {
				log.Printf("[google_careers] term=%q location=%q: %v", term, loc, err)
			} else {
				out = append(out, listings...)
			}

			delay := util.QueryDelay(term, loc, s.cfg.DelayBase, s.cfg.DelayJitter)
			if err := util.PoliteWait(ctx, delay); err != nil {
				return out, nil
			}
		}
	}
	return out, nil
}

func (s *Scraper) fetchQuery(ctx context.Context, term, loc string) ([]domain.Listing, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("location", loc)
	searchURL := baseURL + "/jobs/results/?" + q.Encode()

	html, err := s.render(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("render results: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results html: %w", err)
	}
	return s.parseResults(doc, term, loc), nil
}

// parseResults extracts listings from rendered search results. One broken
// card is skipped, never the page.
func (s *Scraper) parseResults(doc *goquery.Document, term, loc string) []domain.Listing {
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
		if title == "" {
			return
		}

		href := util.FirstAttr(card, linkSelectors, "href")
		if href == "" {
			log.Printf("[google_careers] card without link, title=%q", title)
			return
		}
		jobURL := util.CanonicalizeURL(util.AbsoluteURL(baseURL, href))

		location := util.FirstValidText(card, locationSelectors)
		if location == "" {
			location = util.ExtractLocationFromLabeledText(card.Text())
		}

		meta := domain.NewMetadata(sourceName, now)
		meta["search_term"] = term
		meta["search_location"] = loc

		out = append(out, domain.Listing{
			Title:       title,
			Company:     companyName,
			Location:    location,
			URL:         jobURL,
			PostedDate:  now.Format("2006-01-02"), // cards carry no posting date
			Description: util.CleanText(card.Find(strings.Join(descriptionSelectors, ", ")).First().Text()),
			Metadata:    meta,
		})
	})
	return out
}

// renderResults drives a headless browser: navigate, wait (bounded) for the
// results list, scroll a bounded number of times to pull in more cards, then
// hand back the rendered markup.
func (s *Scraper) renderResults(ctx context.Context, pageURL string) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// bounded wait: absent results within the timeout means no results for
	// this query, surfaced as an error the caller logs and moves past
	waitCtx, cancel := context.WithTimeout(browserCtx, s.cfg.WaitTimeout)
	defer cancel()
	if err := chromedp.Run(waitCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(resultsReadySelector, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("results did not materialize: %w", err)
	}

	actions := make([]chromedp.Action, 0, 2*s.cfg.MaxScrolls+1)
	for i := 0; i < s.cfg.MaxScrolls; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),
		)
	}
	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", err
	}
	return html, nil
}
