package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// InputFile
	c.InputFile = strings.TrimSpace(c.InputFile)
	if c.InputFile == "" {
		warnings = append(warnings, fmt.Sprintf("input_file is empty, defaulting to '%s'", DefaultInputFile))
		c.InputFile = DefaultInputFile
	}

	// SitemapPath must stay relative to the website root
	c.SitemapPath = strings.TrimSpace(c.SitemapPath)
	if strings.Contains(c.SitemapPath, "://") {
		return warnings, fmt.Errorf("%w: sitemap_path '%s' must be a path, not an absolute URL", utils.ErrConfigValidation, c.SitemapPath)
	}
	if c.SitemapPath == "" {
		c.SitemapPath = DefaultSitemapPath
	} else if c.SitemapPath[0] != '/' {
		warnings = append(warnings, fmt.Sprintf("sitemap_path '%s' has no leading slash, using '/%s'", c.SitemapPath, c.SitemapPath))
		c.SitemapPath = "/" + c.SitemapPath
	}

	// MaxSitemapBytes
	if c.MaxSitemapBytes < 0 {
		warnings = append(warnings, fmt.Sprintf("max_sitemap_bytes cannot be negative, defaulting to %d", DefaultMaxSitemapBytes))
	}
	if c.MaxSitemapBytes <= 0 {
		c.MaxSitemapBytes = DefaultMaxSitemapBytes
	}

	// WatchInterval
	if c.WatchInterval < 0 {
		warnings = append(warnings, fmt.Sprintf("watch_interval cannot be negative, defaulting to %v", DefaultWatchInterval))
	}
	if c.WatchInterval <= 0 {
		c.WatchInterval = DefaultWatchInterval
	}

	// HTTPClientSettings defaults
	warnings = append(warnings, c.validateHTTPClientSettings()...)

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() (warnings []string) {
	h := &c.HTTPClientSettings
	if h.Timeout < 0 {
		warnings = append(warnings, fmt.Sprintf("http_client_settings.timeout cannot be negative, defaulting to %v", DefaultRequestTimeout))
	}
	if h.Timeout <= 0 {
		h.Timeout = DefaultRequestTimeout
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	// Every page of a sitemap usually lives on one host, so the per-host idle pool
	// is what allows connection reuse within a batch.
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 100
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	// Dial and handshake are unbounded by default; only Timeout limits a request.
	if h.TLSHandshakeTimeout < 0 {
		warnings = append(warnings, "http_client_settings.tls_handshake_timeout cannot be negative, leaving it unset")
		h.TLSHandshakeTimeout = 0
	}
	if h.DialerTimeout < 0 {
		warnings = append(warnings, "http_client_settings.dialer_timeout cannot be negative, leaving it unset")
		h.DialerTimeout = 0
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
	if h.MaxRedirects <= 0 {
		h.MaxRedirects = 10
	}
	if h.InsecureSkipVerify == nil {
		skip := true
		h.InsecureSkipVerify = &skip
	}
	return warnings
}
