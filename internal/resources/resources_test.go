package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taigabridge/taiga-mcp/internal/metrics"
	"github.com/taigabridge/taiga-mcp/internal/session"
	"github.com/taigabridge/taiga-mcp/internal/taiga"
)

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func contentsText(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T", contents[0])
	}
	if tc.MIMEType != "application/json" {
		t.Errorf("MIME type = %q", tc.MIMEType)
	}
	return tc.Text
}

func TestMetricsResource(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Record("login", 100*time.Millisecond, true)
	collector.Record("list_projects", 50*time.Millisecond, false)

	h := NewHandler(session.NewRegistry[*taiga.Client](), collector)

	if def := h.MetricsResource(); def.URI != "taiga://server/metrics" {
		t.Errorf("resource URI = %q", def.URI)
	}

	contents, err := h.HandleMetrics(context.Background(), readReq("taiga://server/metrics"))
	if err != nil {
		t.Fatalf("HandleMetrics: %v", err)
	}

	var summary metrics.Summary
	if err := json.Unmarshal([]byte(contentsText(t, contents)), &summary); err != nil {
		t.Fatalf("metrics resource is not JSON: %v", err)
	}
	if summary.TotalRequests != 2 || summary.TotalErrors != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if _, ok := summary.Tools["login"]; !ok {
		t.Error("per-tool stats missing 'login'")
	}
}

func TestSessionsResource(t *testing.T) {
	sessions := session.NewRegistry[*taiga.Client]()
	c, err := taiga.NewClient("https://taiga.example.com")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	id := sessions.Create(c)

	h := NewHandler(sessions, metrics.NewCollector())
	contents, err := h.HandleSessions(context.Background(), readReq("taiga://server/sessions"))
	if err != nil {
		t.Fatalf("HandleSessions: %v", err)
	}

	text := contentsText(t, contents)
	if !strings.Contains(text, `"active_sessions": 1`) {
		t.Errorf("sessions resource = %s", text)
	}
	if strings.Contains(text, id) {
		t.Error("resource must not leak session IDs")
	}
}
