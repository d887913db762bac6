// Package watch re-runs the sitemap check on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/sitemap-checker/pkg/models"
)

// RunFunc performs one full check run
type RunFunc func(ctx context.Context) (*models.InaccessibleReport, error)

// Scheduler runs a check immediately and then once per interval.
// Runs execute on the scheduler goroutine, so they never overlap; ticks that
// arrive while a run is in progress are dropped.
type Scheduler struct {
	interval time.Duration
	run      RunFunc
	log      *logrus.Entry
	history  *RunHistory

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewScheduler creates a new watch scheduler
func NewScheduler(interval time.Duration, run RunFunc, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		run:      run,
		log:      log.WithField("component", "watch"),
		history:  NewRunHistory(),
	}
}

// Run blocks until ctx is done or Stop is called. It returns nil on shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %v", s.interval)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.cancel = cancel
	s.mu.Unlock()

	s.log.Infof("Starting watch mode with interval %s", FormatInterval(s.interval))
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Watch scheduler shutting down...")
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop ends a running scheduler. A scheduler stopped before Run returns immediately.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.cancel != nil {
		s.log.Info("Stopping watch scheduler...")
		s.cancel()
	}
}

// History exposes the in-memory run history
func (s *Scheduler) History() *RunHistory {
	return s.history
}

// runOnce executes one run and records its outcome
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rec := RunRecord{StartedAt: time.Now()}
	report, err := s.run(ctx)
	rec.FinishedAt = time.Now()

	if err != nil {
		if ctx.Err() != nil {
			s.log.Warnf("Run abandoned: %v", err)
			return
		}
		rec.ErrorMessage = err.Error()
		s.log.Errorf("Run failed: %v", err)
	} else {
		rec.Success = true
		rec.Websites = len(report.Websites)
		rec.PagesChecked = report.PagesChecked()
		rec.Inaccessible = report.Total()
	}
	s.history.Record(rec)
	s.logNextRun()
}

// logNextRun logs when the next run will occur
func (s *Scheduler) logNextRun() {
	next := s.history.NextRunTime(s.interval)
	until := time.Until(next)
	if until < 0 {
		until = 0
	}
	s.log.Infof("Next run in %v (at %s)", until.Round(time.Second), next.Format("15:04:05"))
}

// Status summarizes the scheduler for display
type Status struct {
	Interval       time.Duration
	NeverRun       bool
	LastRunTime    time.Time
	LastRunSuccess bool
	PagesChecked   int
	Inaccessible   int
	ErrorMessage   string
	NextRunTime    time.Time
}

// GetStatus returns the current status of the scheduler
func (s *Scheduler) GetStatus() Status {
	last, ok := s.history.Last()
	return Status{
		Interval:       s.interval,
		NeverRun:       !ok,
		LastRunTime:    last.StartedAt,
		LastRunSuccess: last.Success,
		PagesChecked:   last.PagesChecked,
		Inaccessible:   last.Inaccessible,
		ErrorMessage:   last.ErrorMessage,
		NextRunTime:    s.history.NextRunTime(s.interval),
	}
}

// FormatInterval formats a duration for display
func FormatInterval(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		if mins > 0 {
			return fmt.Sprintf("%dh%dm", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if hours > 0 {
		return fmt.Sprintf("%dd%dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}

// ParseInterval parses a positive duration string with support for a day suffix
func ParseInterval(s string) (time.Duration, error) {
	d, err := parseInterval(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be positive: %s", s)
	}
	return d, nil
}

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	var days int
	var remaining string
	n, _ := fmt.Sscanf(s, "%dd%s", &days, &remaining)
	if n >= 1 {
		d = time.Duration(days) * 24 * time.Hour
		if remaining != "" {
			extra, err := time.ParseDuration(remaining)
			if err != nil {
				return 0, fmt.Errorf("invalid interval format: %s", s)
			}
			d += extra
		}
		return d, nil
	}

	return 0, fmt.Errorf("invalid interval format: %s (examples: 30m, 1h, 24h, 7d)", s)
}
