// Package orchestrate drives a check run over every website of the input.
package orchestrate

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/sitemap-checker/pkg/check"
	"github.com/Sriram-PR/sitemap-checker/pkg/config"
	"github.com/Sriram-PR/sitemap-checker/pkg/fetch"
	"github.com/Sriram-PR/sitemap-checker/pkg/metrics"
	"github.com/Sriram-PR/sitemap-checker/pkg/models"
	"github.com/Sriram-PR/sitemap-checker/pkg/sitemap"
)

// ClientFactory builds the HTTP client used for one website
type ClientFactory func(cfg config.HTTPClientConfig, log *logrus.Entry) *http.Client

// Options customizes an Orchestrator
type Options struct {
	ClientFactory ClientFactory              // nil = fetch.NewClient
	OnWebsiteDone func(models.WebsiteResult) // Called after each website's batch; may be nil
}

// Orchestrator checks websites one after another
type Orchestrator struct {
	appCfg   *config.AppConfig
	log      *logrus.Entry
	resolver *sitemap.Resolver
	checker  *check.Checker
	opts     Options
}

// NewOrchestrator creates an orchestrator for a validated configuration
func NewOrchestrator(appCfg *config.AppConfig, log *logrus.Logger, opts *Options) *Orchestrator {
	o := &Orchestrator{
		appCfg:   appCfg,
		log:      log.WithField("component", "orchestrator"),
		resolver: sitemap.NewResolver(*appCfg, log),
		checker:  check.NewChecker(log),
	}
	if opts != nil {
		o.opts = *opts
	}
	if o.opts.ClientFactory == nil {
		o.opts.ClientFactory = fetch.NewClient
	}
	return o
}

// Run processes websites strictly in order and accumulates their inaccessible pages.
// Website N's batch completes before website N+1's sitemap is requested.
// A cancelled ctx abandons the run and returns ctx.Err() with no report.
func (o *Orchestrator) Run(ctx context.Context, websites []string) (*models.InaccessibleReport, error) {
	startTime := time.Now()
	o.log.Infof("Starting check of %d websites", len(websites))

	report := models.NewInaccessibleReport()
	for _, website := range websites {
		result, err := o.CheckWebsite(ctx, website)
		if err != nil {
			o.log.Warnf("Run cancelled after %d of %d websites: %v", len(report.Websites), len(websites), err)
			return nil, err
		}
		report.Add(result)
		if o.opts.OnWebsiteDone != nil {
			o.opts.OnWebsiteDone(result)
		}
	}

	totalDuration := time.Since(startTime)
	metrics.RecordRun(report.Total(), totalDuration.Seconds(), float64(time.Now().Unix()))
	o.logSummary(report, totalDuration)
	return report, nil
}

// CheckWebsite resolves one website's sitemap and checks every entry.
// A fresh client serves both the sitemap fetch and the page batch and is released afterwards.
// The error is non-nil only when ctx was cancelled.
func (o *Orchestrator) CheckWebsite(ctx context.Context, website string) (models.WebsiteResult, error) {
	startTime := time.Now()
	result := models.WebsiteResult{Website: website, Inaccessible: make([]string, 0)}
	log := o.log.WithField("website", website)

	f := fetch.NewFetcher(o.opts.ClientFactory(o.appCfg.HTTPClientSettings, log), log)
	defer f.Close()

	locs, err := o.resolver.Resolve(ctx, f, website)
	if err != nil {
		return result, err
	}
	result.SitemapURL, _ = sitemap.SitemapURL(website, config.GetEffectiveSitemapPath(*o.appCfg)) // "" when website is unparseable
	result.SitemapFound = len(locs) > 0
	if !result.SitemapFound {
		result.Duration = time.Since(startTime)
		return result, nil
	}

	results := o.checker.CheckBatch(ctx, f, locs)
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	result.PagesChecked = len(results)
	result.Inaccessible = models.InaccessibleURLs(results)
	result.Duration = time.Since(startTime)

	log.WithFields(logrus.Fields{
		"pages_checked": result.PagesChecked,
		"inaccessible":  len(result.Inaccessible),
	}).Infof("Website done in %v", result.Duration.Round(time.Millisecond))
	return result, nil
}

// logSummary logs per-website results of a completed run
func (o *Orchestrator) logSummary(report *models.InaccessibleReport, totalDuration time.Duration) {
	o.log.Debug("============================================")
	o.log.Debugf("Run completed in %v", totalDuration)
	for _, w := range report.Websites {
		o.log.Debugf("  %s: sitemap %s - %d checked, %d inaccessible in %v",
			w.Website, w.Outcome(), w.PagesChecked, len(w.Inaccessible), w.Duration)
	}
	o.log.Debug("--------------------------------------------")
	o.log.Debugf("Total: %d websites, %d pages checked, %d inaccessible",
		len(report.Websites), report.PagesChecked(), report.Total())
	o.log.Debug("============================================")
}
