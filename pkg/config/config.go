package config

import "time"

// Defaults shared by Validate and the CLI flag help text
const (
	DefaultInputFile       = "websites.txt"
	DefaultSitemapPath     = "/sitemap.xml"
	DefaultMaxSitemapBytes = 50 * 1024 * 1024 // Sitemap protocol limit for an uncompressed file
	DefaultWatchInterval   = 24 * time.Hour
	DefaultRequestTimeout  = 5 * time.Minute
)

// AppConfig holds the global application configuration
type AppConfig struct {
	InputFile          string           `yaml:"input_file"`                  // Newline-delimited website root URLs
	SitemapPath        string           `yaml:"sitemap_path,omitempty"`      // Joined against each website root
	MaxSitemapBytes    int64            `yaml:"max_sitemap_bytes,omitempty"` // Body read cap for a sitemap response
	WatchInterval      time.Duration    `yaml:"watch_interval,omitempty"`    // Period between runs in watch mode
	MetricsAddr        string           `yaml:"metrics_addr,omitempty"`      // Prometheus listen address in watch mode (empty = disabled)
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the per-website HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake (0 = bounded by Timeout only)
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout (0 = bounded by Timeout only)
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
	InsecureSkipVerify    *bool         `yaml:"insecure_skip_verify,omitempty"`    // nil=true (skip), false=verify certificates
	MaxRedirects          int           `yaml:"max_redirects,omitempty"`           // Redirect hops followed before failing
}

// GetEffectiveInsecureSkipVerify determines whether TLS certificate verification is skipped.
// Verification is skipped unless explicitly enabled so self-signed sites are still checked.
func GetEffectiveInsecureSkipVerify(h HTTPClientConfig) bool {
	if h.InsecureSkipVerify != nil {
		return *h.InsecureSkipVerify
	}
	return true
}

// GetEffectiveSitemapPath returns the configured sitemap path or the conventional default
func GetEffectiveSitemapPath(cfg AppConfig) string {
	if cfg.SitemapPath != "" {
		return cfg.SitemapPath
	}
	return DefaultSitemapPath
}
