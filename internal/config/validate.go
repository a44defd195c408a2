package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg along with everything
// a user should fix before the engine runs with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Crawl.SearchTerms = trimList(out.Crawl.SearchTerms)
	out.Crawl.Locations = trimList(out.Crawl.Locations)
	out.Sources.LinkedIn.LocaleMarkers = trimList(out.Sources.LinkedIn.LocaleMarkers)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be in 1..65535")
	}

	if len(out.Crawl.SearchTerms) == 0 {
		res.addErr("crawl.search_terms must name at least one term")
	}
	if len(out.Crawl.Locations) == 0 {
		res.addErr("crawl.locations must name at least one location")
	}
	if len(out.Crawl.SearchTerms)*len(out.Crawl.Locations) > 100 {
		res.addWarn("crawl covers %d term/location pairs; runs will be slow.",
			len(out.Crawl.SearchTerms)*len(out.Crawl.Locations))
	}

	if out.Crawl.FetchTimeoutSecs <= 0 {
		res.addErr("crawl.fetch_timeout_seconds must be > 0")
	}
	if out.Crawl.DelayBaseSecs < 0 || out.Crawl.DelayJitterSecs < 0 {
		res.addErr("crawl delay settings must not be negative")
	}
	if out.Crawl.DelayBaseSecs == 0 {
		res.addWarn("crawl.delay_base_seconds is 0; sources may rate-limit or block.")
	}
	if out.Crawl.RequestsPerSecond < 0 {
		res.addErr("crawl.requests_per_second must not be negative")
	}

	if !out.Sources.GoogleCareers.Enabled && !out.Sources.LinkedIn.Enabled {
		res.addErr("no sources enabled: enable google_careers or linkedin")
	}
	if out.Sources.LinkedIn.Enabled && out.Sources.LinkedIn.MaxPages > 10 {
		res.addWarn("sources.linkedin.max_pages is %d; deep pagination draws attention.",
			out.Sources.LinkedIn.MaxPages)
	}
	if out.Sources.LinkedIn.LocaleFilter && len(out.Sources.LinkedIn.LocaleMarkers) == 0 {
		res.addWarn("linkedin locale_filter is on with no custom markers; built-in markers apply.")
	}

	return out, res
}
