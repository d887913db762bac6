package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Sriram-PR/sitemap-checker/pkg/check"
	"github.com/Sriram-PR/sitemap-checker/pkg/fetch"
	"github.com/Sriram-PR/sitemap-checker/pkg/input"
	"github.com/Sriram-PR/sitemap-checker/pkg/models"
	"github.com/Sriram-PR/sitemap-checker/pkg/orchestrate"
	"github.com/Sriram-PR/sitemap-checker/pkg/parse"
	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// handleCheckPage handles the check_page tool
func (s *Server) handleCheckPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageURL := strings.TrimSpace(request.GetString("url", ""))
	if pageURL == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	startTime := time.Now()
	f := fetch.NewFetcher(s.newClient(), s.log)
	defer f.Close()

	res := check.NewChecker(s.cfg.Logger).CheckPage(ctx, f, pageURL)

	result := map[string]interface{}{
		"url":           res.URL,
		"accessible":    res.Accessible,
		"status":        res.Status(),
		"check_time_ms": time.Since(startTime).Milliseconds(),
	}
	if res.StatusCode != 0 {
		result["status_code"] = res.StatusCode
	}
	if res.Err != nil {
		result["error"] = res.Err.Error()
		result["error_category"] = utils.CategorizeError(res.Err)
	}

	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleCheckWebsite handles the check_website tool
func (s *Server) handleCheckWebsite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	website := strings.TrimSpace(request.GetString("url", ""))
	if website == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	res, err := s.newOrchestrator(nil).CheckWebsite(ctx, website)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check cancelled: %v", err)), nil
	}

	result := map[string]interface{}{
		"website":            res.Website,
		"sitemap_url":        res.SitemapURL,
		"sitemap_found":      res.SitemapFound,
		"pages_checked":      res.PagesChecked,
		"inaccessible":       res.Inaccessible,
		"inaccessible_count": len(res.Inaccessible),
		"duration_seconds":   res.Duration.Seconds(),
	}

	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleStartCheck handles the start_check tool
func (s *Server) handleStartCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	websites, target, err := s.resolveWebsites(request.GetString("websites", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	job, created := s.jobManager.CreateJob(target, websites)
	if !created {
		result := map[string]interface{}{
			"status":  "already_running",
			"message": "A check is already in progress for these websites",
			"job_id":  job.ID,
			"target":  target,
		}
		return mcp.NewToolResultText(formatJSON(result)), nil
	}

	go s.runCheckJob(job.ID, websites)

	result := map[string]interface{}{
		"status":         "started",
		"message":        "Check started successfully",
		"job_id":         job.ID,
		"target":         target,
		"websites_total": len(websites),
	}

	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleGetJobStatus handles the get_job_status tool
func (s *Server) handleGetJobStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := request.GetString("job_id", "")
	if jobID == "" {
		return mcp.NewToolResultError("job_id parameter is required"), nil
	}

	job := s.jobManager.GetJob(jobID)
	if job == nil {
		return mcp.NewToolResultError(fmt.Sprintf("job '%s' not found", jobID)), nil
	}

	return mcp.NewToolResultText(formatJSON(jobSummary(job, true))), nil
}

// handleListJobs handles the list_jobs tool
func (s *Server) handleListJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs := s.jobManager.ListJobs()
	summaries := make([]map[string]interface{}, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, jobSummary(job, false))
	}

	result := map[string]interface{}{
		"jobs":       summaries,
		"total_jobs": len(summaries),
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleCancelJob handles the cancel_job tool
func (s *Server) handleCancelJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := request.GetString("job_id", "")
	if jobID == "" {
		return mcp.NewToolResultError("job_id parameter is required"), nil
	}
	if s.jobManager.GetJob(jobID) == nil {
		return mcp.NewToolResultError(fmt.Sprintf("job '%s' not found", jobID)), nil
	}

	cancelled := s.jobManager.CancelJob(jobID)
	result := map[string]interface{}{
		"job_id":    jobID,
		"cancelled": cancelled,
	}
	if !cancelled {
		result["message"] = "Job already finished"
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// runCheckJob runs a check job in the background
func (s *Server) runCheckJob(jobID string, websites []string) {
	s.jobManager.UpdateStatus(jobID, JobStatusRunning, "")
	jobCtx := s.jobManager.GetContext(jobID)
	log := s.log.WithField("job_id", jobID)

	orch := s.newOrchestrator(func(r models.WebsiteResult) {
		s.jobManager.RecordWebsite(jobID, r)
	})

	report, err := orch.Run(jobCtx, websites)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Check job cancelled")
			s.jobManager.UpdateStatus(jobID, JobStatusCancelled, "")
		} else {
			log.Errorf("Check job failed: %v", err)
			s.jobManager.UpdateStatus(jobID, JobStatusFailed, err.Error())
		}
		return
	}

	log.Infof("Check job completed: %d inaccessible pages", report.Total())
	s.jobManager.UpdateStatus(jobID, JobStatusCompleted, "")
}

// resolveWebsites parses the websites argument or falls back to the input file.
// The returned target identifies the job for duplicate detection.
func (s *Server) resolveWebsites(arg string) ([]string, string, error) {
	if strings.TrimSpace(arg) != "" {
		websites := make([]string, 0)
		for _, w := range strings.Split(arg, ",") {
			if w = strings.TrimSpace(w); w != "" {
				websites = append(websites, w)
			}
		}
		if len(websites) == 0 {
			return nil, "", fmt.Errorf("websites parameter contains no URLs")
		}
		return websites, websitesTarget(websites), nil
	}

	path := s.cfg.AppConfig.InputFile
	websites, err := input.LoadWebsites(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load input file: %v", err)
	}
	return websites, "file:" + path, nil
}

// websitesTarget joins website keys so equivalent spellings map to one job
func websitesTarget(websites []string) string {
	keys := make([]string, 0, len(websites))
	for _, w := range websites {
		if key, err := parse.WebsiteKey(w); err == nil {
			w = key
		}
		keys = append(keys, w)
	}
	return strings.Join(keys, ",")
}

// newClient returns a client from the configured factory
func (s *Server) newClient() *http.Client {
	if s.cfg.Options != nil && s.cfg.Options.ClientFactory != nil {
		return s.cfg.Options.ClientFactory(s.cfg.AppConfig.HTTPClientSettings, s.log)
	}
	return fetch.NewClient(s.cfg.AppConfig.HTTPClientSettings, s.log)
}

// newOrchestrator builds an orchestrator reporting progress to onDone
func (s *Server) newOrchestrator(onDone func(models.WebsiteResult)) *orchestrate.Orchestrator {
	opts := orchestrate.Options{}
	if s.cfg.Options != nil {
		opts = *s.cfg.Options
	}
	opts.OnWebsiteDone = onDone
	return orchestrate.NewOrchestrator(s.cfg.AppConfig, s.cfg.Logger, &opts)
}

// jobSummary renders a job for tool output
func jobSummary(job *Job, withPages bool) map[string]interface{} {
	result := map[string]interface{}{
		"job_id":             job.ID,
		"target":             job.Target,
		"status":             job.Status,
		"started_at":         job.StartedAt.Format(time.RFC3339),
		"websites_total":     len(job.Websites),
		"websites_done":      job.WebsitesDone,
		"sitemaps_found":     job.SitemapsFound,
		"pages_checked":      job.PagesChecked,
		"inaccessible_count": len(job.Inaccessible),
	}
	if withPages {
		result["inaccessible"] = job.Inaccessible
	}

	if !job.CompletedAt.IsZero() {
		result["completed_at"] = job.CompletedAt.Format(time.RFC3339)
		result["duration_seconds"] = job.CompletedAt.Sub(job.StartedAt).Seconds()
	}

	if job.ErrorMessage != "" {
		result["error_message"] = job.ErrorMessage
	}

	return result
}

// formatJSON formats data as an indented JSON string
func formatJSON(data map[string]interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}", err.Error())
	}
	return string(b)
}
