// Package report prints the final list of inaccessible pages.
package report

import (
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/sitemap-checker/pkg/models"
)

// Write logs the total inaccessible count, then one line per inaccessible URL
// in accumulation order. A nil report is treated as empty.
func Write(log *logrus.Logger, r *models.InaccessibleReport) {
	if r == nil {
		r = models.NewInaccessibleReport()
	}
	log.Infof("Total inaccessible pages: %d", r.Total())
	for _, page := range r.Pages {
		log.Infof("Not accessible: %s", page)
	}
}

// Summary returns per-outcome website counts for status output
func Summary(r *models.InaccessibleReport) (found, missing int) {
	if r == nil {
		return 0, 0
	}
	for _, w := range r.Websites {
		if w.Outcome() == models.SitemapFound {
			found++
		} else {
			missing++
		}
	}
	return found, missing
}
