package models

// CheckStatus represents the outcome of a single page reachability check
type CheckStatus string

const (
	CheckStatusUnset        CheckStatus = ""             // Zero value = not checked yet
	CheckStatusAccessible   CheckStatus = "accessible"   // GET returned 200
	CheckStatusInaccessible CheckStatus = "inaccessible" // Non-200 status or request failure
)

// String implements fmt.Stringer for logging
func (s CheckStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// IsValid returns true if the status is a known check outcome
func (s CheckStatus) IsValid() bool {
	switch s {
	case CheckStatusAccessible, CheckStatusInaccessible:
		return true
	}
	return false
}

// SitemapOutcome describes what happened when a website's sitemap was resolved
type SitemapOutcome string

const (
	SitemapFound   SitemapOutcome = "found"   // Sitemap fetched and at least one loc entry extracted
	SitemapMissing SitemapOutcome = "missing" // Fetch, status, or parse failure, or no loc entries
)

// String implements fmt.Stringer for logging
func (o SitemapOutcome) String() string {
	return string(o)
}
