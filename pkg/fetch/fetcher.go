package fetch

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// HTTPFetcher issues a single GET for a URL.
// Implementations must not retry; one failed attempt is final.
type HTTPFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*http.Response, error)
}

// Fetcher performs plain GET requests with an underlying http.Client
type Fetcher struct {
	client *http.Client
	log    *logrus.Entry
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(client *http.Client, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		client: client,
		log:    log,
	}
}

// Fetch sends one GET request for rawURL.
// On success the caller owns resp.Body and must close it; any HTTP status is a success here.
// Network-level failures (DNS, refused, TLS, timeout) are returned unwrapped so callers
// can categorize them with utils.CategorizeError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, utils.WrapErrorf(utils.ErrRequestCreation, "%q: %v", rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.WithField("url", rawURL).Debugf("Request failed: %v", err)
		return nil, err
	}
	f.log.WithFields(logrus.Fields{"url": rawURL, "status_code": resp.StatusCode}).Debug("Fetched")
	return resp, nil
}

// Close releases idle connections held by the underlying client
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}
