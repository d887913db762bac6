package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/sitemap-checker/pkg/config"
)

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newTestServer(t *testing.T, inputFile string) *Server {
	t.Helper()
	cfg := &config.AppConfig{
		InputFile:          inputFile,
		HTTPClientSettings: config.HTTPClientConfig{Timeout: 2 * time.Second},
	}
	_, err := cfg.Validate()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := NewServer(&ServerConfig{AppConfig: cfg, Transport: "stdio", Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

// callTool invokes handler and decodes its text payload.
// Returns the decoded JSON object (nil for error results) and the raw text.
func callTool(t *testing.T, handler toolHandler, args map[string]interface{}) (map[string]interface{}, string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	var text string
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		text = c.Text
	case *mcp.TextContent:
		text = c.Text
	default:
		t.Fatalf("unexpected content type %T", res.Content[0])
	}

	if res.IsError {
		return nil, text, true
	}
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &out), text)
	return out, text, false
}

// mockSite serves a sitemap listing /ok and /missing; /missing answers 404
func mockSite(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, "<urlset><url><loc>%[1]s/ok</loc></url><url><loc>%[1]s/missing</loc></url></urlset>", server.URL)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func waitForJob(t *testing.T, s *Server, jobID string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.Eventually(t, func() bool {
		var isErr bool
		out, _, isErr = callTool(t, s.handleGetJobStatus, map[string]interface{}{"job_id": jobID})
		if isErr {
			return false
		}
		status := out["status"].(string)
		return JobStatus(status).IsTerminal()
	}, 5*time.Second, 20*time.Millisecond)
	return out
}

func TestNewServer_RequiresAppConfig(t *testing.T) {
	_, err := NewServer(&ServerConfig{})
	assert.Error(t, err)
}

func TestRun_UnknownTransport(t *testing.T) {
	s := newTestServer(t, "")
	s.cfg.Transport = "carrier-pigeon"
	err := s.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestHandleCheckPage(t *testing.T) {
	site := mockSite(t)
	s := newTestServer(t, "")

	t.Run("accessible", func(t *testing.T) {
		out, _, isErr := callTool(t, s.handleCheckPage, map[string]interface{}{"url": site.URL + "/ok"})
		require.False(t, isErr)
		assert.Equal(t, true, out["accessible"])
		assert.Equal(t, "accessible", out["status"])
		assert.Equal(t, float64(200), out["status_code"])
		assert.NotContains(t, out, "error")
	})

	t.Run("not found", func(t *testing.T) {
		out, _, isErr := callTool(t, s.handleCheckPage, map[string]interface{}{"url": site.URL + "/missing"})
		require.False(t, isErr)
		assert.Equal(t, false, out["accessible"])
		assert.Equal(t, float64(404), out["status_code"])
		assert.Equal(t, "HTTP_404", out["error_category"])
	})

	t.Run("missing url", func(t *testing.T) {
		_, text, isErr := callTool(t, s.handleCheckPage, map[string]interface{}{})
		assert.True(t, isErr)
		assert.Contains(t, text, "url parameter is required")
	})
}

func TestHandleCheckWebsite(t *testing.T) {
	site := mockSite(t)
	s := newTestServer(t, "")

	out, _, isErr := callTool(t, s.handleCheckWebsite, map[string]interface{}{"url": site.URL})
	require.False(t, isErr)
	assert.Equal(t, true, out["sitemap_found"])
	assert.Equal(t, site.URL+"/sitemap.xml", out["sitemap_url"])
	assert.Equal(t, float64(2), out["pages_checked"])
	assert.Equal(t, []interface{}{site.URL + "/missing"}, out["inaccessible"])

	t.Run("no sitemap", func(t *testing.T) {
		empty := httptest.NewServer(http.NotFoundHandler())
		defer empty.Close()

		out, _, isErr := callTool(t, s.handleCheckWebsite, map[string]interface{}{"url": empty.URL})
		require.False(t, isErr)
		assert.Equal(t, false, out["sitemap_found"])
		assert.Equal(t, float64(0), out["inaccessible_count"])
	})
}

func TestHandleStartCheck_Websites(t *testing.T) {
	site1 := mockSite(t)
	site2 := mockSite(t)
	s := newTestServer(t, "")

	out, _, isErr := callTool(t, s.handleStartCheck, map[string]interface{}{"websites": site1.URL + " , " + site2.URL})
	require.False(t, isErr)
	assert.Equal(t, "started", out["status"])
	assert.Equal(t, float64(2), out["websites_total"])
	jobID := out["job_id"].(string)

	final := waitForJob(t, s, jobID)
	assert.Equal(t, string(JobStatusCompleted), final["status"])
	assert.Equal(t, float64(2), final["websites_done"])
	assert.Equal(t, float64(4), final["pages_checked"])
	assert.Equal(t, []interface{}{site1.URL + "/missing", site2.URL + "/missing"}, final["inaccessible"])

	list, _, isErr := callTool(t, s.handleListJobs, nil)
	require.False(t, isErr)
	assert.Equal(t, float64(1), list["total_jobs"])
}

func TestHandleStartCheck_InputFile(t *testing.T) {
	site := mockSite(t)
	path := filepath.Join(t.TempDir(), "websites.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"+site.URL+"\n\n"), 0o644))
	s := newTestServer(t, path)

	out, _, isErr := callTool(t, s.handleStartCheck, map[string]interface{}{})
	require.False(t, isErr)
	assert.Equal(t, "file:"+path, out["target"])

	final := waitForJob(t, s, out["job_id"].(string))
	assert.Equal(t, string(JobStatusCompleted), final["status"])
	assert.Equal(t, float64(1), final["inaccessible_count"])
}

func TestHandleStartCheck_MissingInputFile(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "absent.txt"))

	_, text, isErr := callTool(t, s.handleStartCheck, map[string]interface{}{})
	assert.True(t, isErr)
	assert.Contains(t, text, "failed to load input file")
	assert.Empty(t, s.jobManager.ListJobs())
}

func TestHandleStartCheck_OnlyCommas(t *testing.T) {
	s := newTestServer(t, "")
	_, text, isErr := callTool(t, s.handleStartCheck, map[string]interface{}{"websites": " , ,"})
	assert.True(t, isErr)
	assert.Contains(t, text, "no URLs")
}

func TestHandleCancelJob(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	s := newTestServer(t, "")
	out, _, isErr := callTool(t, s.handleStartCheck, map[string]interface{}{"websites": slow.URL})
	require.False(t, isErr)
	jobID := out["job_id"].(string)

	cancelOut, _, isErr := callTool(t, s.handleCancelJob, map[string]interface{}{"job_id": jobID})
	require.False(t, isErr)
	assert.Equal(t, true, cancelOut["cancelled"])

	final := waitForJob(t, s, jobID)
	assert.Equal(t, string(JobStatusCancelled), final["status"])

	again, _, isErr := callTool(t, s.handleCancelJob, map[string]interface{}{"job_id": jobID})
	require.False(t, isErr)
	assert.Equal(t, false, again["cancelled"])
}

func TestHandleGetJobStatus_Errors(t *testing.T) {
	s := newTestServer(t, "")

	_, text, isErr := callTool(t, s.handleGetJobStatus, map[string]interface{}{})
	assert.True(t, isErr)
	assert.Contains(t, text, "job_id parameter is required")

	_, text, isErr = callTool(t, s.handleGetJobStatus, map[string]interface{}{"job_id": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	_, _, isErr = callTool(t, s.handleCancelJob, map[string]interface{}{"job_id": "nope"})
	assert.True(t, isErr)
}

func TestFormatJSON(t *testing.T) {
	got := formatJSON(map[string]interface{}{"a": 1, "b": []string{"x"}})
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got), &out))
	assert.Equal(t, float64(1), out["a"])

	bad := formatJSON(map[string]interface{}{"ch": make(chan int)})
	assert.Contains(t, bad, "error")
}

func TestHandleStartCheck_AlreadyRunning(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	s := newTestServer(t, "")
	first, _, isErr := callTool(t, s.handleStartCheck, map[string]interface{}{"websites": slow.URL})
	require.False(t, isErr)

	// Same website spelled with a trailing slash
	second, _, isErr := callTool(t, s.handleStartCheck, map[string]interface{}{"websites": slow.URL + "/"})
	require.False(t, isErr)
	assert.Equal(t, "already_running", second["status"])
	assert.Equal(t, first["job_id"], second["job_id"])
}

func TestWebsitesTarget(t *testing.T) {
	assert.Equal(t, "https://a.example,not a url", websitesTarget([]string{"HTTPS://A.example/", "not a url"}))
}
