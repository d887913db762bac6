// Package sitemap locates and reads a website's sitemap.
package sitemap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/sitemap-checker/pkg/config"
	"github.com/Sriram-PR/sitemap-checker/pkg/fetch"
	"github.com/Sriram-PR/sitemap-checker/pkg/metrics"
	"github.com/Sriram-PR/sitemap-checker/pkg/models"
	"github.com/Sriram-PR/sitemap-checker/pkg/parse"
	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// Result describes one sitemap lookup
type Result struct {
	SitemapURL string   // Resolved sitemap location; empty when the website URL could not be parsed
	Locs       []string // Entries in document order; never nil
	IsIndex    bool     // Document was a <sitemapindex>; its entries are not followed
	Err        error    // Cause of a soft failure, nil when the document was read
}

// Found reports whether the lookup produced at least one entry
func (r *Result) Found() bool {
	return len(r.Locs) > 0
}

// Outcome maps the lookup to its metric/report label
func (r *Result) Outcome() models.SitemapOutcome {
	if r.Found() {
		return models.SitemapFound
	}
	return models.SitemapMissing
}

// Resolver fetches the sitemap at a fixed path below each website root
type Resolver struct {
	sitemapPath string
	maxBytes    int64
	log         *logrus.Entry
}

// NewResolver creates a Resolver from validated configuration
func NewResolver(cfg config.AppConfig, log *logrus.Logger) *Resolver {
	maxBytes := cfg.MaxSitemapBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxSitemapBytes
	}
	return &Resolver{
		sitemapPath: config.GetEffectiveSitemapPath(cfg),
		maxBytes:    maxBytes,
		log:         log.WithField("component", "sitemap_resolver"),
	}
}

// SitemapURL resolves sitemapPath against website.
// The path replaces any path, query, or fragment of the website URL; scheme and host are kept.
func SitemapURL(website, sitemapPath string) (string, error) {
	base, err := url.Parse(website)
	if err != nil {
		return "", fmt.Errorf("%w: invalid website URL '%s': %v", utils.ErrParsing, website, err)
	}
	ref, err := url.Parse(sitemapPath)
	if err != nil {
		return "", fmt.Errorf("%w: invalid sitemap path URL '%s': %v", utils.ErrParsing, sitemapPath, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Resolve returns the sitemap entries for website.
// Every fetch or parse failure is soft and yields an empty slice; an error is
// returned only when ctx was cancelled.
func (r *Resolver) Resolve(ctx context.Context, f fetch.HTTPFetcher, website string) ([]string, error) {
	res, err := r.Fetch(ctx, f, website)
	if err != nil {
		return nil, err
	}
	return res.Locs, nil
}

// Fetch performs the lookup for website and reports the details.
// The returned error is non-nil only when ctx was cancelled.
func (r *Resolver) Fetch(ctx context.Context, f fetch.HTTPFetcher, website string) (*Result, error) {
	log := r.log.WithField("website", website)
	res := &Result{Locs: make([]string, 0)}
	log.Infof("Sitemap: %s", website)

	sitemapURL, err := SitemapURL(website, r.sitemapPath)
	if err != nil {
		res.Err = err
		return r.finish(ctx, log, res)
	}
	res.SitemapURL = sitemapURL
	log = log.WithField("sitemap_url", sitemapURL)

	body, err := r.download(ctx, f, sitemapURL)
	if err != nil {
		res.Err = err
		return r.finish(ctx, log, res)
	}

	sm, err := parse.ParseSitemapBytes(body)
	if err != nil {
		res.Err = err
		return r.finish(ctx, log, res)
	}
	res.Locs = sm.Locs
	res.IsIndex = sm.IsIndex
	if sm.IsIndex {
		log.Warnf("Sitemap is a sitemap index; %d nested sitemap locations will be checked as pages, not followed", len(sm.Locs))
	}
	return r.finish(ctx, log, res)
}

// download GETs sitemapURL and returns the body of a 2xx response
func (r *Resolver) download(ctx context.Context, f fetch.HTTPFetcher, sitemapURL string) ([]byte, error) {
	resp, err := f.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrSitemapFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, utils.WrapErrorf(utils.ErrSitemapStatus, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err)
	}
	if int64(len(body)) > r.maxBytes {
		return nil, utils.WrapErrorf(utils.ErrResponseBodyRead, "sitemap exceeds %d bytes", r.maxBytes)
	}
	return body, nil
}

// finish logs the outcome, records it, and surfaces cancellation
func (r *Resolver) finish(ctx context.Context, log *logrus.Entry, res *Result) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if res.Err != nil {
		log.WithField("error_category", utils.CategorizeError(res.Err)).Warnf("Sitemap unavailable: %v", res.Err)
	}
	if res.Found() {
		log.Infof("%d URLs in sitemap", len(res.Locs))
	} else {
		log.Warn("No sitemap found")
	}
	metrics.RecordSitemap(res.Outcome().String(), len(res.Locs))
	return res, nil
}
