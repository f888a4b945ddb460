// Package resources implements MCP resource handlers for the Taiga bridge.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (taiga://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taigabridge/taiga-mcp/internal/metrics"
	"github.com/taigabridge/taiga-mcp/internal/session"
	"github.com/taigabridge/taiga-mcp/internal/taiga"
)

// Handler manages the bridge's resource endpoints.
type Handler struct {
	sessions  *session.Registry[*taiga.Client]
	collector *metrics.Collector
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(sessions *session.Registry[*taiga.Client], collector *metrics.Collector) *Handler {
	return &Handler{sessions: sessions, collector: collector}
}

// MetricsResource returns the MCP resource definition for server metrics.
func (h *Handler) MetricsResource() mcp.Resource {
	return mcp.NewResource(
		"taiga://server/metrics",
		"Taiga Bridge Metrics",
		mcp.WithResourceDescription("Aggregated request counts, error rates, and response times per tool"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleMetrics returns the aggregated metrics as JSON.
func (h *Handler) HandleMetrics(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.collector.ServerStats(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling metrics: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// SessionsResource returns the MCP resource definition for the session
// overview.
func (h *Handler) SessionsResource() mcp.Resource {
	return mcp.NewResource(
		"taiga://server/sessions",
		"Active Sessions",
		mcp.WithResourceDescription("Count of currently registered Taiga sessions"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSessions returns the session count as JSON. Session IDs and
// tokens are never exposed through resources.
func (h *Handler) HandleSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(map[string]any{
		"active_sessions": h.sessions.Len(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling sessions: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// jsonResource wraps a JSON payload as resource contents.
func jsonResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}
}
