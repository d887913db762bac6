package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	applog "github.com/Sriram-PR/sitemap-checker/pkg/log"
)

// NewHandler returns the mux serving /metrics
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve exposes /metrics on addr until ctx is cancelled.
// Returns nil after a clean shutdown.
func Serve(ctx context.Context, addr string, log *logrus.Logger) error {
	errLog := applog.NewStdLogAdapter(log.WithField("component", "metrics_server"), logrus.WarnLevel)
	defer errLog.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          errLog.Logger,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Serving metrics at http://%s/metrics", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Metrics server shutdown error: %v", err)
		}
		return nil
	}
}
