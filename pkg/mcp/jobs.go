package mcp

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sriram-PR/sitemap-checker/pkg/models"
)

// JobStatus represents the current state of a check job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// IsTerminal reports whether the job can no longer change state
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// Job represents a background check run
type Job struct {
	ID            string    `json:"id"`
	Target        string    `json:"target"` // Input file path or comma-joined website list
	Websites      []string  `json:"websites"`
	Status        JobStatus `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at,omitempty"`
	WebsitesDone  int       `json:"websites_done"`
	PagesChecked  int       `json:"pages_checked"`
	SitemapsFound int       `json:"sitemaps_found"`
	Inaccessible  []string  `json:"inaccessible"`
	ErrorMessage  string    `json:"error_message,omitempty"`

	// Internal fields
	ctx    context.Context
	cancel context.CancelFunc
}

// snapshot copies the job so callers can read it without holding the lock
func (j *Job) snapshot() *Job {
	c := *j
	c.Websites = append([]string(nil), j.Websites...)
	c.Inaccessible = append(make([]string, 0, len(j.Inaccessible)), j.Inaccessible...)
	return &c
}

// JobManager manages background check jobs
type JobManager struct {
	jobs     map[string]*Job
	mu       sync.RWMutex
	byTarget map[string]string // target -> jobID for active jobs
}

// NewJobManager creates a new job manager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:     make(map[string]*Job),
		byTarget: make(map[string]string),
	}
}

// CreateJob creates a pending job for websites.
// If a job for the same target is still pending or running, that job is returned instead.
func (m *JobManager) CreateJob(target string, websites []string) (*Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existingID, exists := m.byTarget[target]; exists {
		if existing := m.jobs[existingID]; existing != nil && !existing.Status.IsTerminal() {
			return existing.snapshot(), false
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:           uuid.New().String(),
		Target:       target,
		Websites:     append([]string(nil), websites...),
		Status:       JobStatusPending,
		StartedAt:    time.Now(),
		Inaccessible: make([]string, 0),
		ctx:          ctx,
		cancel:       cancel,
	}

	m.jobs[job.ID] = job
	m.byTarget[target] = job.ID
	return job.snapshot(), true
}

// GetJob returns a copy of the job, or nil if unknown
func (m *JobManager) GetJob(jobID string) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[jobID]; ok {
		return job.snapshot()
	}
	return nil
}

// UpdateStatus moves a job to status. Terminal jobs are left unchanged.
func (m *JobManager) UpdateStatus(jobID string, status JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists || job.Status.IsTerminal() {
		return
	}
	job.Status = status
	if status.IsTerminal() {
		job.CompletedAt = time.Now()
		job.cancel()
		delete(m.byTarget, job.Target)
	}
	if errorMsg != "" {
		job.ErrorMessage = errorMsg
	}
}

// RecordWebsite folds one finished website into the job's progress
func (m *JobManager) RecordWebsite(jobID string, result models.WebsiteResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, exists := m.jobs[jobID]; exists {
		job.WebsitesDone++
		job.PagesChecked += result.PagesChecked
		if result.SitemapFound {
			job.SitemapsFound++
		}
		job.Inaccessible = append(job.Inaccessible, result.Inaccessible...)
	}
}

// CancelJob cancels an active job
func (m *JobManager) CancelJob(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, exists := m.jobs[jobID]; exists && !job.Status.IsTerminal() {
		job.cancel()
		job.Status = JobStatusCancelled
		job.CompletedAt = time.Now()
		delete(m.byTarget, job.Target)
		return true
	}
	return false
}

// CancelAll cancels all active jobs
func (m *JobManager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, job := range m.jobs {
		if !job.Status.IsTerminal() {
			job.cancel()
			job.Status = JobStatusCancelled
			job.CompletedAt = time.Now()
		}
	}
	m.byTarget = make(map[string]string)
}

// ListJobs returns copies of all jobs, oldest first
func (m *JobManager) ListJobs() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job.snapshot())
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartedAt.Before(jobs[j].StartedAt)
	})
	return jobs
}

// GetContext returns the context for a job (for running the check)
func (m *JobManager) GetContext(jobID string) context.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if job, exists := m.jobs[jobID]; exists {
		return job.ctx
	}
	return context.Background()
}
