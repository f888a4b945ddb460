package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taigabridge/taiga-mcp/internal/metrics"
	"github.com/taigabridge/taiga-mcp/internal/taiga"
	"github.com/taigabridge/taiga-mcp/internal/tokencache"
)

// LoginTool handles the login MCP tool: username/password
// authentication producing a session_id.
type LoginTool struct {
	sessions *Sessions
}

// NewLoginTool creates a LoginTool.
func NewLoginTool(sessions *Sessions) *LoginTool {
	return &LoginTool{sessions: sessions}
}

// Definition returns the MCP tool definition for login.
func (t *LoginTool) Definition() mcp.Tool {
	return mcp.NewTool("login",
		mcp.WithDescription(
			"Logs into a Taiga instance using username/password and returns a "+
				"session_id for subsequent authenticated calls.",
		),
		mcp.WithString("host",
			mcp.Required(),
			mcp.Description("URL of the Taiga instance (e.g. 'https://tree.taiga.io')"),
		),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("Taiga username or email"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("Taiga password"),
		),
	)
}

// Handle processes the login tool call.
func (t *LoginTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host := req.GetString("host", "")
	username := req.GetString("username", "")
	password := req.GetString("password", "")
	if host == "" || username == "" || password == "" {
		return mcp.NewToolResultError("'host', 'username' and 'password' are required"), nil
	}

	c, err := taiga.NewClient(host)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := c.Login(ctx, username, password); err != nil {
		return apiResult(nil, err)
	}

	id := t.sessions.Create(c)
	return jsonResult(map[string]string{"session_id": id})
}

// LoginWithTokenTool handles login_with_token: authentication with a
// pre-issued Bearer or Application token.
type LoginWithTokenTool struct {
	sessions *Sessions
}

// NewLoginWithTokenTool creates a LoginWithTokenTool.
func NewLoginWithTokenTool(sessions *Sessions) *LoginWithTokenTool {
	return &LoginWithTokenTool{sessions: sessions}
}

// Definition returns the MCP tool definition for login_with_token.
func (t *LoginWithTokenTool) Definition() mcp.Tool {
	return mcp.NewTool("login_with_token",
		mcp.WithDescription(
			"Logs into a Taiga instance using an authentication token (more secure "+
				"than password). Returns a session_id for subsequent authenticated calls.",
		),
		mcp.WithString("host",
			mcp.Required(),
			mcp.Description("URL of the Taiga instance"),
		),
		mcp.WithString("auth_token",
			mcp.Required(),
			mcp.Description("The authentication token (Bearer or Application token)"),
		),
		mcp.WithString("token_type",
			mcp.Description("Token type: 'Bearer' (default) or 'Application'"),
			mcp.DefaultString("Bearer"),
			mcp.Enum("Bearer", "Application"),
		),
		mcp.WithNumber("user_id",
			mcp.Description("Optional user ID; fetched from /users/me when omitted"),
		),
	)
}

// Handle processes the login_with_token tool call.
func (t *LoginWithTokenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host := req.GetString("host", "")
	token := req.GetString("auth_token", "")
	if host == "" || token == "" {
		return mcp.NewToolResultError("'host' and 'auth_token' are required"), nil
	}
	tokenType := req.GetString("token_type", "Bearer")
	userID := intArg(req, "user_id", 0)

	c, err := taiga.NewClient(host)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := c.LoginWithToken(ctx, token, tokenType, userID); err != nil {
		return apiResult(nil, err)
	}

	id := t.sessions.Create(c)
	return jsonResult(map[string]string{"session_id": id})
}

// LoginFromCacheTool handles login_from_cache: authentication with a
// previously saved token.
type LoginFromCacheTool struct {
	sessions *Sessions
	cache    *tokencache.Store
}

// NewLoginFromCacheTool creates a LoginFromCacheTool.
func NewLoginFromCacheTool(sessions *Sessions, cache *tokencache.Store) *LoginFromCacheTool {
	return &LoginFromCacheTool{sessions: sessions, cache: cache}
}

// Definition returns the MCP tool definition for login_from_cache.
func (t *LoginFromCacheTool) Definition() mcp.Tool {
	return mcp.NewTool("login_from_cache",
		mcp.WithDescription(
			"Authenticates using a previously saved token from cache. "+
				"Preferred over password authentication.",
		),
		mcp.WithString("host",
			mcp.Required(),
			mcp.Description("URL of the Taiga instance"),
		),
		mcp.WithNumber("user_id",
			mcp.Description("Optional user ID override (uses cached value if not provided)"),
		),
	)
}

// Handle processes the login_from_cache tool call.
func (t *LoginFromCacheTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host := req.GetString("host", "")
	if host == "" {
		return mcp.NewToolResultError("'host' is required"), nil
	}

	entry, err := t.cache.Load(host)
	if err != nil {
		if errors.Is(err, tokencache.ErrNotCached) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"No cached token found for %s. Login with username/password first and use 'save_session_token'.", host)), nil
		}
		return nil, err
	}

	userID := intArg(req, "user_id", entry.UserID)

	c, err := taiga.NewClient(host)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := c.LoginWithToken(ctx, entry.AuthToken, entry.TokenType, userID); err != nil {
		return apiResult(nil, err)
	}

	id := t.sessions.Create(c)
	return jsonResult(map[string]string{"session_id": id})
}

// LogoutTool handles logout: it invalidates a session_id.
type LogoutTool struct {
	sessions *Sessions
}

// NewLogoutTool creates a LogoutTool.
func NewLogoutTool(sessions *Sessions) *LogoutTool {
	return &LogoutTool{sessions: sessions}
}

// Definition returns the MCP tool definition for logout.
func (t *LogoutTool) Definition() mcp.Tool {
	return mcp.NewTool("logout",
		mcp.WithDescription("Invalidates the current session_id."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID to invalidate"),
		),
	)
}

// Handle processes the logout tool call. Logging out an unknown
// session is reported, not failed: the end state is the same.
func (t *LogoutTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	status := "session_not_found"
	if t.sessions.Remove(id) {
		status = "logged_out"
	}
	return jsonResult(map[string]string{"status": status, "session_id": id})
}

// SessionStatusTool handles session_status: side-effect-free session
// introspection.
type SessionStatusTool struct {
	sessions *Sessions
}

// NewSessionStatusTool creates a SessionStatusTool.
func NewSessionStatusTool(sessions *Sessions) *SessionStatusTool {
	return &SessionStatusTool{sessions: sessions}
}

// Definition returns the MCP tool definition for session_status.
func (t *SessionStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("session_status",
		mcp.WithDescription("Checks if the provided session_id is currently active and valid."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID to check"),
		),
	)
}

// Handle processes the session_status tool call.
func (t *SessionStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	c, ok := t.sessions.Get(id)
	switch {
	case !ok:
		return jsonResult(map[string]any{
			"status":        "not_found",
			"session_id":    id,
			"authenticated": false,
		})
	case !c.IsAuthenticated():
		return jsonResult(map[string]any{
			"status":        "inactive",
			"session_id":    id,
			"authenticated": false,
		})
	default:
		return jsonResult(map[string]any{
			"status":        "active",
			"session_id":    id,
			"host":          c.Host(),
			"authenticated": true,
		})
	}
}

// SaveSessionTokenTool handles save_session_token: it extracts the
// auth token from an active session and persists it to the cache, so
// future logins need no password.
type SaveSessionTokenTool struct {
	sessions *Sessions
	cache    *tokencache.Store
}

// NewSaveSessionTokenTool creates a SaveSessionTokenTool.
func NewSaveSessionTokenTool(sessions *Sessions, cache *tokencache.Store) *SaveSessionTokenTool {
	return &SaveSessionTokenTool{sessions: sessions, cache: cache}
}

// Definition returns the MCP tool definition for save_session_token.
func (t *SaveSessionTokenTool) Definition() mcp.Tool {
	return mcp.NewTool("save_session_token",
		mcp.WithDescription(
			"Extracts and securely saves the authentication token from an active "+
				"session to cache. Allows re-authentication without storing passwords.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session to extract the token from"),
		),
	)
}

// Handle processes the save_session_token tool call.
func (t *SaveSessionTokenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}

	entry := tokencache.Entry{
		Host:      c.Host(),
		AuthToken: c.AuthToken(),
		TokenType: c.TokenType(),
		UserID:    c.UserID(),
	}
	if err := t.cache.Save(entry); err != nil {
		return nil, fmt.Errorf("saving token for %s: %w", c.Host(), err)
	}

	return jsonResult(map[string]any{
		"status":         "success",
		"message":        fmt.Sprintf("Token saved securely to cache for %s", c.Host()),
		"host":           c.Host(),
		"token_type":     entry.TokenType,
		"user_id":        entry.UserID,
		"cache_location": t.cache.Path(c.Host()),
	})
}

// DeleteCachedTokenTool handles delete_cached_token.
type DeleteCachedTokenTool struct {
	cache *tokencache.Store
}

// NewDeleteCachedTokenTool creates a DeleteCachedTokenTool.
func NewDeleteCachedTokenTool(cache *tokencache.Store) *DeleteCachedTokenTool {
	return &DeleteCachedTokenTool{cache: cache}
}

// Definition returns the MCP tool definition for delete_cached_token.
func (t *DeleteCachedTokenTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_cached_token",
		mcp.WithDescription("Deletes a cached authentication token for a specific Taiga host."),
		mcp.WithString("host",
			mcp.Required(),
			mcp.Description("URL of the Taiga instance"),
		),
	)
}

// Handle processes the delete_cached_token tool call.
func (t *DeleteCachedTokenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host := req.GetString("host", "")
	if host == "" {
		return mcp.NewToolResultError("'host' is required"), nil
	}

	removed, err := t.cache.Delete(host)
	if err != nil {
		return nil, err
	}
	if !removed {
		return jsonResult(map[string]string{
			"status":  "not_found",
			"message": fmt.Sprintf("No cached token found for %s", host),
			"host":    host,
		})
	}
	return jsonResult(map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Cached token deleted for %s", host),
		"host":    host,
	})
}

// ListCachedTokensTool handles list_cached_tokens. Token values are
// never included in the listing.
type ListCachedTokensTool struct {
	cache *tokencache.Store
}

// NewListCachedTokensTool creates a ListCachedTokensTool.
func NewListCachedTokensTool(cache *tokencache.Store) *ListCachedTokensTool {
	return &ListCachedTokensTool{cache: cache}
}

// Definition returns the MCP tool definition for list_cached_tokens.
func (t *ListCachedTokensTool) Definition() mcp.Tool {
	return mcp.NewTool("list_cached_tokens",
		mcp.WithDescription(
			"Lists all cached authentication tokens (without revealing the actual token values).",
		),
	)
}

// Handle processes the list_cached_tokens tool call.
func (t *ListCachedTokensTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := t.cache.List()
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"status": "success",
		"count":  len(infos),
		"tokens": infos,
	})
}

// HealthCheckTool handles health_check: it verifies the session, the
// authentication state, and actual API reachability in one call.
type HealthCheckTool struct {
	sessions *Sessions
}

// NewHealthCheckTool creates a HealthCheckTool.
func NewHealthCheckTool(sessions *Sessions) *HealthCheckTool {
	return &HealthCheckTool{sessions: sessions}
}

// Definition returns the MCP tool definition for health_check.
func (t *HealthCheckTool) Definition() mcp.Tool {
	return mcp.NewTool("health_check",
		mcp.WithDescription(
			"Verifies API connectivity and returns server health status. "+
				"Useful for monitoring and deployment checks.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID to check"),
		),
	)
}

// Handle processes the health_check tool call. It reports rather than
// fails: every outcome is a JSON status document.
func (t *HealthCheckTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	health := map[string]any{
		"status":         "unhealthy",
		"session_active": false,
		"authenticated":  false,
		"api_accessible": false,
	}

	c, ok := t.sessions.Get(id)
	if !ok {
		health["details"] = "Session not found or expired"
		return jsonResult(health)
	}
	health["session_active"] = true
	health["host"] = c.Host()

	if !c.IsAuthenticated() {
		health["details"] = "Session exists but not authenticated"
		return jsonResult(health)
	}
	health["authenticated"] = true
	health["user_id"] = c.UserID()

	if _, err := c.Me(ctx); err != nil {
		health["details"] = fmt.Sprintf("API not accessible: %v", err)
		return jsonResult(health)
	}
	health["api_accessible"] = true
	health["status"] = "healthy"
	health["details"] = "All systems operational"
	return jsonResult(health)
}

// ServerMetricsTool handles get_server_metrics: the aggregated request
// counters and timings collected by the middleware.
type ServerMetricsTool struct {
	collector *metrics.Collector
}

// NewServerMetricsTool creates a ServerMetricsTool.
func NewServerMetricsTool(collector *metrics.Collector) *ServerMetricsTool {
	return &ServerMetricsTool{collector: collector}
}

// Definition returns the MCP tool definition for get_server_metrics.
func (t *ServerMetricsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_server_metrics",
		mcp.WithDescription(
			"Returns server performance metrics including request counts, "+
				"error rates, and response times.",
		),
	)
}

// Handle processes the get_server_metrics tool call.
func (t *ServerMetricsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.collector.ServerStats())
}
