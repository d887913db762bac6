// Package mcp exposes sitemap checks as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/sitemap-checker/pkg/config"
	"github.com/Sriram-PR/sitemap-checker/pkg/orchestrate"
)

const (
	serverName    = "sitemap-checker"
	serverVersion = "1.0.0"
)

// ServerConfig holds configuration for the MCP server
type ServerConfig struct {
	AppConfig  *config.AppConfig
	ConfigPath string
	Transport  string // "stdio" or "sse"
	Port       int
	Logger     *logrus.Logger
	Options    *orchestrate.Options // Optional; OnWebsiteDone is set per job
}

// Server wraps the MCP server with sitemap-checker specific functionality
type Server struct {
	mcpServer  *server.MCPServer
	cfg        *ServerConfig
	log        *logrus.Entry
	jobManager *JobManager
}

// NewServer creates a new MCP server instance
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg.AppConfig == nil {
		return nil, fmt.Errorf("AppConfig is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s := &Server{
		mcpServer:  mcpServer,
		cfg:        cfg,
		log:        cfg.Logger.WithField("component", "mcp"),
		jobManager: NewJobManager(),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	checkPageTool := mcp.NewTool("check_page",
		mcp.WithDescription("Check whether a single URL is accessible (HTTP 200)"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The page URL to check"),
		),
	)
	s.mcpServer.AddTool(checkPageTool, s.handleCheckPage)

	checkWebsiteTool := mcp.NewTool("check_website",
		mcp.WithDescription("Fetch a website's sitemap.xml and check every listed page. Blocks until done."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Website root URL (e.g., 'https://example.com')"),
		),
	)
	s.mcpServer.AddTool(checkWebsiteTool, s.handleCheckWebsite)

	startCheckTool := mcp.NewTool("start_check",
		mcp.WithDescription("Start a background check run. Returns immediately with a job ID."),
		mcp.WithString("websites",
			mcp.Description("Comma-separated website root URLs (defaults to the configured input file)"),
		),
	)
	s.mcpServer.AddTool(startCheckTool, s.handleStartCheck)

	getJobStatusTool := mcp.NewTool("get_job_status",
		mcp.WithDescription("Get the status and inaccessible pages of a check job"),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("The job ID returned by start_check"),
		),
	)
	s.mcpServer.AddTool(getJobStatusTool, s.handleGetJobStatus)

	listJobsTool := mcp.NewTool("list_jobs",
		mcp.WithDescription("List all check jobs of this server session"),
	)
	s.mcpServer.AddTool(listJobsTool, s.handleListJobs)

	cancelJobTool := mcp.NewTool("cancel_job",
		mcp.WithDescription("Cancel a pending or running check job"),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("The job ID returned by start_check"),
		),
	)
	s.mcpServer.AddTool(cancelJobTool, s.handleCancelJob)

	s.log.Infof("Registered %d MCP tools", 6)
}

// Run starts the MCP server with the configured transport
func (s *Server) Run() error {
	switch s.cfg.Transport {
	case "stdio":
		s.log.Info("Starting MCP server with stdio transport")
		return server.ServeStdio(s.mcpServer)
	case "sse":
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.log.Infof("Starting MCP server with SSE transport on %s", addr)
		sseServer := server.NewSSEServer(s.mcpServer)
		return sseServer.Start(addr)
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", s.cfg.Transport)
	}
}

// Shutdown cancels running jobs
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down MCP server...")
	s.jobManager.CancelAll()
	return nil
}
