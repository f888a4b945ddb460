// Package tools implements the MCP tool handlers for the Taiga bridge.
//
// Each tool is a struct receiving its dependencies via constructor and
// exposing Definition() plus a Handle method compatible with mcp-go's
// CallToolRequest signature. Nearly every tool is a pass-through:
// resolve the session, perform one remote call, return the JSON.
// Cross-cutting concerns (rate limiting, metrics) are composed around
// the handlers in middleware.go, not inside them.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taigabridge/taiga-mcp/internal/session"
	"github.com/taigabridge/taiga-mcp/internal/taiga"
)

// Sessions is the registry of authenticated Taiga clients shared by
// every tool.
type Sessions = session.Registry[*taiga.Client]

// client resolves the request's session_id to an authenticated Taiga
// client. A non-nil result means resolution failed and the caller
// should return it as-is.
func client(sessions *Sessions, req mcp.CallToolRequest) (*taiga.Client, *mcp.CallToolResult) {
	id := req.GetString("session_id", "")
	if id == "" {
		return nil, mcp.NewToolResultError("'session_id' is required")
	}
	c, err := sessions.Authenticated(id)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return c, nil
}

// jsonResult marshals v as the tool's text payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// apiResult turns a remote call's outcome into a tool result. Taiga
// API errors become tool error results (the caller did something the
// API rejected); anything else propagates as a handler error.
func apiResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		var apiErr *taiga.APIError
		if errors.As(err, &apiErr) {
			return mcp.NewToolResultError(apiErr.Error()), nil
		}
		return nil, err
	}
	return jsonResult(v)
}

// intArg extracts an integer argument, returning defaultVal if the key
// is missing or not a number (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// fieldsArg parses an optional JSON-object string argument (the
// original API exposes optional entity fields this way). An empty or
// missing argument yields a nil map; malformed JSON yields an error
// result.
func fieldsArg(req mcp.CallToolRequest, key string) (map[string]any, *mcp.CallToolResult) {
	raw := req.GetString(key, "")
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("'%s' must be a JSON object: %v", key, err))
	}
	return fields, nil
}
