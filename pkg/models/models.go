package models

import "time"

// PageCheckResult pairs a page URL with the outcome of its reachability check
type PageCheckResult struct {
	URL        string
	Accessible bool
	StatusCode int   // Zero when no HTTP response was received
	Err        error // Network or request-construction failure, nil otherwise
}

// Status returns the CheckStatus corresponding to Accessible
func (r PageCheckResult) Status() CheckStatus {
	if r.Accessible {
		return CheckStatusAccessible
	}
	return CheckStatusInaccessible
}

// WebsiteResult summarizes one website's sitemap resolution and page check batch
type WebsiteResult struct {
	Website      string
	SitemapURL   string
	SitemapFound bool
	PagesChecked int
	Inaccessible []string // Order matches the sitemap's loc order
	Duration     time.Duration
}

// Outcome reports whether the website contributed a usable sitemap
func (w WebsiteResult) Outcome() SitemapOutcome {
	if w.SitemapFound {
		return SitemapFound
	}
	return SitemapMissing
}

// InaccessibleReport accumulates inaccessible page URLs across all websites of a run.
// Pages preserves per-website order: website N's pages come before website N+1's.
type InaccessibleReport struct {
	Pages    []string
	Websites []WebsiteResult
}

// NewInaccessibleReport returns an empty report
func NewInaccessibleReport() *InaccessibleReport {
	return &InaccessibleReport{
		Pages:    make([]string, 0),
		Websites: make([]WebsiteResult, 0),
	}
}

// Add appends a finished website's inaccessible pages to the running list
func (r *InaccessibleReport) Add(result WebsiteResult) {
	r.Websites = append(r.Websites, result)
	r.Pages = append(r.Pages, result.Inaccessible...)
}

// Total returns the number of inaccessible pages across all websites
func (r *InaccessibleReport) Total() int {
	return len(r.Pages)
}

// PagesChecked returns the number of page checks issued across all websites
func (r *InaccessibleReport) PagesChecked() int {
	total := 0
	for _, w := range r.Websites {
		total += w.PagesChecked
	}
	return total
}

// InaccessibleURLs filters results down to the URLs that failed, preserving input order.
// Duplicate URLs are kept as-is.
func InaccessibleURLs(results []PageCheckResult) []string {
	urls := make([]string, 0)
	for _, r := range results {
		if !r.Accessible {
			urls = append(urls, r.URL)
		}
	}
	return urls
}
