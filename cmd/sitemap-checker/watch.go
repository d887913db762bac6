package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sriram-PR/sitemap-checker/pkg/input"
	applog "github.com/Sriram-PR/sitemap-checker/pkg/log"
	"github.com/Sriram-PR/sitemap-checker/pkg/metrics"
	"github.com/Sriram-PR/sitemap-checker/pkg/models"
	"github.com/Sriram-PR/sitemap-checker/pkg/orchestrate"
	"github.com/Sriram-PR/sitemap-checker/pkg/report"
	"github.com/Sriram-PR/sitemap-checker/pkg/watch"
)

// runWatch handles the watch subcommand
func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	opts, resolve := addRunFlags(fs)
	intervalStr := fs.String("interval", "", "Run interval (e.g., 30m, 24h, 7d, 1d12h; default from config or 24h)")
	metricsAddr := fs.String("metrics-addr", "", "Prometheus /metrics listen address, e.g. :9090 (disabled by default)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sitemap-checker watch [options]

Re-run the check periodically. The website list is re-read on every run.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  sitemap-checker watch -input websites.txt -interval 6h
  sitemap-checker watch -config config.yaml -metrics-addr :9090
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	resolve()

	ctx, stop := signalContext()
	defer stop()

	exitCode := doWatch(ctx, opts, *intervalStr, *metricsAddr, os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}

// doWatch runs the scheduler until ctx is cancelled
func doWatch(ctx context.Context, opts *runOptions, intervalStr, metricsAddr string, stdout, stderr io.Writer) int {
	log := applog.NewLogger(stdout, opts.LogLevel)

	appCfg, err := buildConfig(opts, log)
	if err != nil {
		fmt.Fprintf(stderr, "Config error: %v\n", err)
		return 1
	}

	interval := appCfg.WatchInterval
	if intervalStr != "" {
		interval, err = watch.ParseInterval(intervalStr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if metricsAddr != "" {
		appCfg.MetricsAddr = metricsAddr
	}

	logAppConfig(appCfg, log)
	startPprof(opts.PprofAddr, log)

	orch := orchestrate.NewOrchestrator(appCfg, log, nil)
	run := func(ctx context.Context) (*models.InaccessibleReport, error) {
		websites, err := input.LoadWebsites(appCfg.InputFile)
		if err != nil {
			return nil, err
		}
		rep, err := orch.Run(ctx, websites)
		if err != nil {
			return nil, err
		}
		report.Write(log, rep)
		return rep, nil
	}
	scheduler := watch.NewScheduler(interval, run, log)

	// A metrics endpoint that cannot listen ends watch mode
	metricsErr := make(chan error, 1)
	if appCfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, appCfg.MetricsAddr, log); err != nil {
				metricsErr <- err
				scheduler.Stop()
			}
		}()
	}

	if err := scheduler.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Watch scheduler error: %v\n", err)
		return 1
	}

	select {
	case err := <-metricsErr:
		fmt.Fprintf(stderr, "Metrics server error: %v\n", err)
		return 1
	default:
	}

	runs := scheduler.History().Runs()
	if len(runs) == 0 {
		log.Info("Watch mode stopped")
		return 0
	}
	failed := 0
	for _, r := range runs {
		if !r.Success {
			failed++
		}
	}
	log.Infof("Watch mode stopped after %d runs, %d failed (last run at %s)",
		len(runs), failed, runs[len(runs)-1].StartedAt.Format(time.RFC3339))
	return 0
}
