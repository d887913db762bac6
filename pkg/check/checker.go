// Package check classifies page URLs as accessible or not.
package check

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Sriram-PR/sitemap-checker/pkg/fetch"
	"github.com/Sriram-PR/sitemap-checker/pkg/metrics"
	"github.com/Sriram-PR/sitemap-checker/pkg/models"
	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// Checker performs single-attempt reachability checks
type Checker struct {
	log *logrus.Entry
}

// NewChecker creates a Checker logging under the page_checker component
func NewChecker(log *logrus.Logger) *Checker {
	return &Checker{log: log.WithField("component", "page_checker")}
}

// CheckPage issues one GET for pageURL. Only status 200 is accessible.
// Failures are logged and reported through the result, never returned.
// The response body is closed unread.
func (c *Checker) CheckPage(ctx context.Context, f fetch.HTTPFetcher, pageURL string) models.PageCheckResult {
	start := time.Now()
	result := models.PageCheckResult{URL: pageURL}
	log := c.log.WithField("url", pageURL)

	resp, err := f.Fetch(ctx, pageURL)
	if err != nil {
		result.Err = err
		category := utils.CategorizeError(err)
		log.WithField("error_category", category).Warnf("Page not accessible: %s: %v", pageURL, err)
		metrics.RecordPageCheck(models.CheckStatusInaccessible.String(), category, time.Since(start).Seconds())
		return result
	}
	resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("%w: status %d", utils.ErrNonOKStatus, resp.StatusCode)
		category := utils.CategorizeError(result.Err)
		log.WithFields(logrus.Fields{
			"status_code":    resp.StatusCode,
			"error_category": category,
		}).Warnf("Page not accessible: %s (Status: %d)", pageURL, resp.StatusCode)
		metrics.RecordPageCheck(models.CheckStatusInaccessible.String(), category, time.Since(start).Seconds())
		return result
	}

	result.Accessible = true
	log.Debug("Page accessible")
	metrics.RecordPageCheck(models.CheckStatusAccessible.String(), "", time.Since(start).Seconds())
	return result
}

// CheckBatch checks every URL concurrently and waits for all of them.
// There is no concurrency limit. Results match urls index for index.
func (c *Checker) CheckBatch(ctx context.Context, f fetch.HTTPFetcher, urls []string) []models.PageCheckResult {
	results := make([]models.PageCheckResult, len(urls))
	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			results[i] = c.CheckPage(ctx, f, u)
			return nil
		})
	}
	_ = g.Wait() // CheckPage never fails
	return results
}
