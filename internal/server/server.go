// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/taigabridge/taiga-mcp/internal/config"
	"github.com/taigabridge/taiga-mcp/internal/metrics"
	"github.com/taigabridge/taiga-mcp/internal/ratelimit"
	"github.com/taigabridge/taiga-mcp/internal/resources"
	"github.com/taigabridge/taiga-mcp/internal/session"
	"github.com/taigabridge/taiga-mcp/internal/taiga"
	"github.com/taigabridge/taiga-mcp/internal/tokencache"
	"github.com/taigabridge/taiga-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// tool is the shape every tool struct in internal/tools satisfies.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools and
// resources registered. This is the single place where all
// dependencies are resolved.
func New(cfg config.Config) (*server.MCPServer, error) {
	// --- Create shared dependencies ---

	sessions := session.NewRegistry[*taiga.Client]()

	limiter, err := ratelimit.New(cfg.RequestsPerMinute)
	if err != nil {
		return nil, fmt.Errorf("creating rate limiter: %w", err)
	}

	collector := metrics.NewCollector()

	cache, err := tokencache.NewStore(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("creating token cache: %w", err)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"taiga-bridge",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---
	//
	// Every handler goes through the same middleware: per-session rate
	// limiting plus metrics. Tools without a session_id argument (the
	// login family, cache management) pass through the limiter
	// unthrottled but are still measured.

	register(s, limiter, collector,
		// Authentication and session lifecycle.
		tools.NewLoginTool(sessions),
		tools.NewLoginWithTokenTool(sessions),
		tools.NewLoginFromCacheTool(sessions, cache),
		tools.NewLogoutTool(sessions),
		tools.NewSessionStatusTool(sessions),

		// Token cache.
		tools.NewSaveSessionTokenTool(sessions, cache),
		tools.NewDeleteCachedTokenTool(cache),
		tools.NewListCachedTokensTool(cache),

		// Diagnostics.
		tools.NewHealthCheckTool(sessions),
		tools.NewServerMetricsTool(collector),

		// Projects.
		tools.NewListProjectsTool(sessions),
		tools.NewListAllProjectsTool(sessions),
		tools.NewGetProjectTool(sessions),
		tools.NewGetProjectBySlugTool(sessions),
		tools.NewCreateProjectTool(sessions),
		tools.NewUpdateProjectTool(sessions),
		tools.NewDeleteProjectTool(sessions),
		tools.NewProjectMembersTool(sessions),
		tools.NewInviteProjectUserTool(sessions),

		// User stories.
		tools.NewListUserStoriesTool(sessions),
		tools.NewCreateUserStoryTool(sessions),
		tools.NewGetUserStoryTool(sessions),
		tools.NewGetUserStoryByRefTool(sessions),
		tools.NewUpdateUserStoryTool(sessions),
		tools.NewDeleteUserStoryTool(sessions),
		tools.NewAssignUserStoryTool(sessions),
		tools.NewUnassignUserStoryTool(sessions),
		tools.NewUpvoteUserStoryTool(sessions),
		tools.NewDownvoteUserStoryTool(sessions),
		tools.NewWatchUserStoryTool(sessions),
		tools.NewUnwatchUserStoryTool(sessions),
		tools.NewUserStoryStatusesTool(sessions),

		// Tasks.
		tools.NewListTasksTool(sessions),
		tools.NewCreateTaskTool(sessions),
		tools.NewGetTaskTool(sessions),
		tools.NewGetTaskByRefTool(sessions),
		tools.NewUpdateTaskTool(sessions),
		tools.NewDeleteTaskTool(sessions),
		tools.NewAssignTaskTool(sessions),
		tools.NewUnassignTaskTool(sessions),
		tools.NewUpvoteTaskTool(sessions),
		tools.NewDownvoteTaskTool(sessions),
		tools.NewWatchTaskTool(sessions),
		tools.NewUnwatchTaskTool(sessions),
		tools.NewTaskStatusesTool(sessions),

		// Issues.
		tools.NewListIssuesTool(sessions),
		tools.NewCreateIssueTool(sessions),
		tools.NewGetIssueTool(sessions),
		tools.NewUpdateIssueTool(sessions),
		tools.NewDeleteIssueTool(sessions),
		tools.NewAssignIssueTool(sessions),
		tools.NewUnassignIssueTool(sessions),
		tools.NewIssueStatusesTool(sessions),
		tools.NewIssuePrioritiesTool(sessions),
		tools.NewIssueSeveritiesTool(sessions),
		tools.NewIssueTypesTool(sessions),

		// Epics.
		tools.NewListEpicsTool(sessions),
		tools.NewCreateEpicTool(sessions),
		tools.NewGetEpicTool(sessions),
		tools.NewUpdateEpicTool(sessions),
		tools.NewDeleteEpicTool(sessions),
		tools.NewAssignEpicTool(sessions),
		tools.NewUnassignEpicTool(sessions),

		// Milestones.
		tools.NewListMilestonesTool(sessions),
		tools.NewCreateMilestoneTool(sessions),
		tools.NewGetMilestoneTool(sessions),
		tools.NewUpdateMilestoneTool(sessions),
		tools.NewDeleteMilestoneTool(sessions),

		// Wiki.
		tools.NewListWikiPagesTool(sessions),
		tools.NewCreateWikiPageTool(sessions),
		tools.NewGetWikiPageTool(sessions),
		tools.NewUpdateWikiPageTool(sessions),
		tools.NewDeleteWikiPageTool(sessions),
		tools.NewCreateWikiAttachmentTool(sessions),
		tools.NewListWikiAttachmentsTool(sessions),
	)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(sessions, collector)
	s.AddResource(resourceHandler.MetricsResource(), resourceHandler.HandleMetrics)
	s.AddResource(resourceHandler.SessionsResource(), resourceHandler.HandleSessions)

	return s, nil
}

// register adds each tool to the server with the standard middleware
// applied.
func register(s *server.MCPServer, limiter *ratelimit.Limiter, collector *metrics.Collector, ts ...tool) {
	for _, t := range ts {
		def := t.Definition()
		s.AddTool(def, tools.Instrument(def.Name, limiter, collector, t.Handle))
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use the bridge effectively.
func serverInstructions() string {
	return `You have access to a Taiga project management bridge.

## Authentication

Every tool except the login family requires a session_id. Obtain one
first:
- login: username/password (host + username + password)
- login_with_token: pre-issued Bearer or Application token
- login_from_cache: token previously stored with save_session_token

After a successful password login, offer to call save_session_token so
future sessions can use login_from_cache instead of a password.

Session IDs are opaque and process-local. If any tool reports an
invalid or expired session, login again and retry with the new ID.

## Working with entities

Projects contain user stories, tasks, issues, epics, milestones
(sprints), and wiki pages. Most tools follow the same shape:
list_* (project_id, optional filters), get_*, create_*, update_*
(fields as a JSON object), delete_*, and assign/unassign where the
entity supports an assignee. User stories and tasks also support
upvote/downvote and watch/unwatch, and wiki pages take file
attachments (create_wiki_attachment, list_wiki_attachments).

Numeric references shown in the Taiga UI as #N are per-project refs;
use get_user_story_by_ref / get_task_by_ref for those, not the global
ID.

When updating, pass only the fields that change: the bridge handles
Taiga's optimistic-concurrency version numbers for you.

## Limits and diagnostics

Calls are rate limited per session. On a rate limit error, wait before
retrying instead of hammering the API. Use health_check to verify
connectivity and get_server_metrics to inspect request statistics.`
}
