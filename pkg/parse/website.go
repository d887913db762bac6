package parse

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// WebsiteKey returns a comparison key for a website root URL.
// Scheme and host are lowercased, default ports dropped, and the trailing
// slash, query and fragment removed, so "https://Example.com:443/" and
// "https://example.com" share a key. The key is never fetched.
func WebsiteKey(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: website URL '%s': %w", utils.ErrParsing, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: website URL '%s' needs an http or https scheme", utils.ErrParsing, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: website URL '%s' has no host", utils.ErrParsing, raw)
	}

	key := url.URL{Scheme: u.Scheme, Host: strings.ToLower(u.Host), Path: strings.TrimRight(u.Path, "/")}
	if host, port, err := net.SplitHostPort(key.Host); err == nil {
		if (key.Scheme == "http" && port == "80") || (key.Scheme == "https" && port == "443") {
			key.Host = host
		}
	}
	return key.String(), nil
}

// DuplicateWebsites returns websites whose key matches an earlier entry, in input order.
// Entries that are not valid website URLs are compared verbatim.
func DuplicateWebsites(websites []string) []string {
	seen := make(map[string]bool, len(websites))
	dups := make([]string, 0)
	for _, w := range websites {
		key, err := WebsiteKey(w)
		if err != nil {
			key = w
		}
		if seen[key] {
			dups = append(dups, w)
			continue
		}
		seen[key] = true
	}
	return dups
}
