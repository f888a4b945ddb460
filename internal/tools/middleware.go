package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/taigabridge/taiga-mcp/internal/metrics"
	"github.com/taigabridge/taiga-mcp/internal/ratelimit"
)

// Instrument wraps a tool handler with the cross-cutting concerns
// every call gets: per-session rate limiting and metrics.
//
// The metrics contract is strict: exactly one Record per invocation,
// in a defer, so a panic recovered by the server's recovery middleware
// is still counted as a failure. Rate limiting keys on the session_id
// argument; tools that take no session (login, cache management) pass
// through unthrottled since they have no bucket to charge.
func Instrument(name string, limiter *ratelimit.Limiter, collector *metrics.Collector, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				// Count the failure, then let the server's recovery
				// middleware handle the panic.
				collector.Record(name, time.Since(start), false)
				panic(r)
			}
			success := err == nil && (result == nil || !result.IsError)
			collector.Record(name, time.Since(start), success)
		}()

		if key := req.GetString("session_id", ""); key != "" {
			if !limiter.Allow(key) {
				limitErr := &ratelimit.ErrLimited{
					Limit:     limiter.Limit(),
					Remaining: limiter.Remaining(key),
				}
				return mcp.NewToolResultError(limitErr.Error()), nil
			}
		}

		return next(ctx, req)
	}
}
