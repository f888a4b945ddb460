package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taigabridge/taiga-mcp/internal/metrics"
	"github.com/taigabridge/taiga-mcp/internal/ratelimit"
	"github.com/taigabridge/taiga-mcp/internal/session"
	"github.com/taigabridge/taiga-mcp/internal/taiga"
	"github.com/taigabridge/taiga-mcp/internal/tokencache"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, result *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("handler returned error result: %s", resultText(result))
	}
}

func mustErrorResult(t *testing.T, result *mcp.CallToolResult, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatalf("expected error result, got: %s", resultText(result))
	}
	return resultText(result)
}

// newFakeTaiga spins up a stub Taiga API. The mux is pre-wired with a
// working /api/v1/auth endpoint; tests add entity endpoints as needed.
func newFakeTaiga(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"auth_token": "tok-123",
			"id":         7,
			"username":   "alice",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, mux
}

// newAuthedSession creates a registry with one logged-in session
// against the fake server and returns the registry and session ID.
func newAuthedSession(t *testing.T, srv *httptest.Server) (*Sessions, string) {
	t.Helper()
	c, err := taiga.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	sessions := session.NewRegistry[*taiga.Client]()
	return sessions, sessions.Create(c)
}

// ─── Argument helpers ────────────────────────────────────────────────────────

func TestIntArg(t *testing.T) {
	req := makeReq(map[string]interface{}{
		"present": float64(42),
		"wrong":   "nope",
	})
	if got := intArg(req, "present", 0); got != 42 {
		t.Errorf("intArg(present) = %d, want 42", got)
	}
	if got := intArg(req, "missing", 9); got != 9 {
		t.Errorf("intArg(missing) = %d, want default 9", got)
	}
	if got := intArg(req, "wrong", 9); got != 9 {
		t.Errorf("intArg(wrong type) = %d, want default 9", got)
	}
}

func TestFieldsArg(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantNil  bool
		wantErr  bool
		wantKeys []string
	}{
		{name: "missing", raw: "", wantNil: true},
		{name: "empty object", raw: "{}", wantNil: true},
		{name: "valid", raw: `{"status": 2, "subject": "x"}`, wantKeys: []string{"status", "subject"}},
		{name: "malformed", raw: `{status: 2}`, wantErr: true},
		{name: "not an object", raw: `[1,2]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{}
			if tt.raw != "" {
				args["fields"] = tt.raw
			}
			fields, errRes := fieldsArg(makeReq(args), "fields")
			if tt.wantErr {
				if errRes == nil {
					t.Fatal("expected error result")
				}
				return
			}
			if errRes != nil {
				t.Fatalf("unexpected error result: %s", resultText(errRes))
			}
			if tt.wantNil {
				if fields != nil {
					t.Errorf("expected nil map, got %v", fields)
				}
				return
			}
			for _, k := range tt.wantKeys {
				if _, ok := fields[k]; !ok {
					t.Errorf("missing key %q in parsed fields", k)
				}
			}
		})
	}
}

func TestClientResolution(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions, id := newAuthedSession(t, srv)

	// No session_id at all.
	_, errRes := client(sessions, makeReq(map[string]interface{}{}))
	if errRes == nil || !strings.Contains(resultText(errRes), "session_id") {
		t.Errorf("expected missing session_id error, got: %s", resultText(errRes))
	}

	// Unknown session.
	_, errRes = client(sessions, makeReq(map[string]interface{}{"session_id": "nope"}))
	if errRes == nil || !strings.Contains(resultText(errRes), "Please login again") {
		t.Errorf("expected login-again error, got: %s", resultText(errRes))
	}

	// Valid session.
	c, errRes := client(sessions, makeReq(map[string]interface{}{"session_id": id}))
	if errRes != nil {
		t.Fatalf("unexpected error result: %s", resultText(errRes))
	}
	if c.Username() != "alice" {
		t.Errorf("resolved wrong client: username = %q", c.Username())
	}
}

// ─── Middleware ──────────────────────────────────────────────────────────────

func TestInstrumentRecordsSuccess(t *testing.T) {
	limiter, _ := ratelimit.New(100)
	collector := metrics.NewCollector()
	handler := Instrument("probe", limiter, collector, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := handler(context.Background(), makeReq(map[string]interface{}{"session_id": "s1"}))
	mustNotError(t, result, err)

	stats := collector.Stats("probe")
	if stats.RequestCount != 1 || stats.ErrorCount != 0 {
		t.Errorf("stats = %+v, want 1 request, 0 errors", stats)
	}
}

func TestInstrumentCountsErrorResults(t *testing.T) {
	limiter, _ := ratelimit.New(100)
	collector := metrics.NewCollector()
	handler := Instrument("probe", limiter, collector, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("bad input"), nil
	})

	if _, err := handler(context.Background(), makeReq(nil)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	stats := collector.Stats("probe")
	if stats.RequestCount != 1 || stats.ErrorCount != 1 {
		t.Errorf("stats = %+v, want 1 request, 1 error", stats)
	}
}

func TestInstrumentRecordsExactlyOnce(t *testing.T) {
	limiter, _ := ratelimit.New(100)
	collector := metrics.NewCollector()
	handler := Instrument("probe", limiter, collector, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		time.Sleep(time.Millisecond)
		return mcp.NewToolResultText("ok"), nil
	})

	for i := 0; i < 5; i++ {
		if _, err := handler(context.Background(), makeReq(nil)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
	}
	if stats := collector.Stats("probe"); stats.RequestCount != 5 {
		t.Errorf("request count = %d, want 5", stats.RequestCount)
	}
}

func TestInstrumentRateLimits(t *testing.T) {
	limiter, _ := ratelimit.New(2)
	collector := metrics.NewCollector()
	calls := 0
	handler := Instrument("probe", limiter, collector, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		calls++
		return mcp.NewToolResultText("ok"), nil
	})

	req := makeReq(map[string]interface{}{"session_id": "s1"})
	for i := 0; i < 2; i++ {
		result, err := handler(context.Background(), req)
		mustNotError(t, result, err)
	}

	result, err := handler(context.Background(), req)
	text := mustErrorResult(t, result, err)
	if !strings.Contains(text, "rate limit exceeded") {
		t.Errorf("denial message = %q", text)
	}
	if calls != 2 {
		t.Errorf("inner handler ran %d times, want 2", calls)
	}

	// The denial itself still shows up in the metrics.
	if stats := collector.Stats("probe"); stats.RequestCount != 3 || stats.ErrorCount != 1 {
		t.Errorf("stats = %+v, want 3 requests, 1 error", stats)
	}
}

func TestInstrumentSessionlessToolsUnthrottled(t *testing.T) {
	limiter, _ := ratelimit.New(1)
	collector := metrics.NewCollector()
	handler := Instrument("login", limiter, collector, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	// No session_id: every call passes regardless of the limit.
	for i := 0; i < 10; i++ {
		result, err := handler(context.Background(), makeReq(nil))
		mustNotError(t, result, err)
	}
}

func TestInstrumentCountsPanics(t *testing.T) {
	limiter, _ := ratelimit.New(100)
	collector := metrics.NewCollector()
	handler := Instrument("probe", limiter, collector, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("boom")
	})

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("panic should propagate past the middleware")
			}
		}()
		_, _ = handler(context.Background(), makeReq(nil))
	}()

	stats := collector.Stats("probe")
	if stats.RequestCount != 1 || stats.ErrorCount != 1 {
		t.Errorf("stats = %+v, want the panic counted as 1 failed request", stats)
	}
}

// ─── Auth tools ──────────────────────────────────────────────────────────────

func TestLoginTool(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions := session.NewRegistry[*taiga.Client]()
	tool := NewLoginTool(sessions)

	if def := tool.Definition(); def.Name != "login" {
		t.Errorf("tool name = %q", def.Name)
	}

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"host":     srv.URL,
		"username": "alice",
		"password": "secret",
	}))
	mustNotError(t, result, err)

	var payload map[string]string
	if err := json.Unmarshal([]byte(resultText(result)), &payload); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	id := payload["session_id"]
	if id == "" {
		t.Fatal("no session_id in login result")
	}
	if _, err := sessions.Authenticated(id); err != nil {
		t.Errorf("created session not authenticated: %v", err)
	}
}

func TestLoginToolMissingArgs(t *testing.T) {
	tool := NewLoginTool(session.NewRegistry[*taiga.Client]())
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"host": "https://taiga.example.com",
	}))
	text := mustErrorResult(t, result, err)
	if !strings.Contains(text, "required") {
		t.Errorf("error text = %q", text)
	}
}

func TestLoginToolBadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"_error_message": "invalid credentials"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tool := NewLoginTool(session.NewRegistry[*taiga.Client]())
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"host":     srv.URL,
		"username": "alice",
		"password": "wrong",
	}))
	text := mustErrorResult(t, result, err)
	if !strings.Contains(text, "invalid credentials") {
		t.Errorf("error text = %q", text)
	}
}

func TestLogoutTool(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions, id := newAuthedSession(t, srv)
	tool := NewLogoutTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "logged_out") {
		t.Errorf("first logout = %s", resultText(result))
	}

	// Second logout of the same ID reports not found, no error.
	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "session_not_found") {
		t.Errorf("second logout = %s", resultText(result))
	}
}

func TestSessionStatusTool(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions, id := newAuthedSession(t, srv)
	tool := NewSessionStatusTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), `"status": "active"`) {
		t.Errorf("status for live session = %s", resultText(result))
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "unknown"}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), `"status": "not_found"`) {
		t.Errorf("status for unknown session = %s", resultText(result))
	}
}

func TestSaveAndLoginFromCache(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions, id := newAuthedSession(t, srv)
	cache, err := tokencache.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	save := NewSaveSessionTokenTool(sessions, cache)
	result, err := save.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "Token saved") {
		t.Errorf("save result = %s", resultText(result))
	}

	login := NewLoginFromCacheTool(sessions, cache)
	result, err = login.Handle(context.Background(), makeReq(map[string]interface{}{"host": srv.URL}))
	mustNotError(t, result, err)

	var payload map[string]string
	if err := json.Unmarshal([]byte(resultText(result)), &payload); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if _, err := sessions.Authenticated(payload["session_id"]); err != nil {
		t.Errorf("cached login session not authenticated: %v", err)
	}
}

func TestLoginFromCacheMiss(t *testing.T) {
	cache, err := tokencache.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	tool := NewLoginFromCacheTool(session.NewRegistry[*taiga.Client](), cache)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"host": "https://never-saved.example.com",
	}))
	text := mustErrorResult(t, result, err)
	if !strings.Contains(text, "No cached token found") {
		t.Errorf("cache miss message = %q", text)
	}
}

func TestDeleteAndListCachedTokens(t *testing.T) {
	cache, err := tokencache.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := cache.Save(tokencache.Entry{Host: "https://a.example.com", AuthToken: "t1", UserID: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list := NewListCachedTokensTool(cache)
	result, err := list.Handle(context.Background(), makeReq(nil))
	mustNotError(t, result, err)
	text := resultText(result)
	if !strings.Contains(text, `"count": 1`) {
		t.Errorf("list result = %s", text)
	}
	if strings.Contains(text, "t1") {
		t.Error("listing must not reveal token values")
	}

	del := NewDeleteCachedTokenTool(cache)
	result, err = del.Handle(context.Background(), makeReq(map[string]interface{}{"host": "https://a.example.com"}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "success") {
		t.Errorf("delete result = %s", resultText(result))
	}

	result, err = del.Handle(context.Background(), makeReq(map[string]interface{}{"host": "https://a.example.com"}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "not_found") {
		t.Errorf("second delete result = %s", resultText(result))
	}
}

func TestHealthCheckTool(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": "alice"})
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewHealthCheckTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	mustNotError(t, result, err)
	text := resultText(result)
	if !strings.Contains(text, `"status": "healthy"`) {
		t.Errorf("healthy session report = %s", text)
	}

	// Unknown session: still a JSON report, never an error result.
	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "unknown"}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), `"status": "unhealthy"`) {
		t.Errorf("unknown session report = %s", resultText(result))
	}
}

func TestServerMetricsTool(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Record("login", 100*time.Millisecond, true)
	collector.Record("login", 200*time.Millisecond, false)

	tool := NewServerMetricsTool(collector)
	result, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, result, err)

	var summary metrics.Summary
	if err := json.Unmarshal([]byte(resultText(result)), &summary); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if summary.TotalRequests != 2 || summary.TotalErrors != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

// ─── Entity tools ────────────────────────────────────────────────────────────

func TestGetProjectTool(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	mux.HandleFunc("/api/v1/projects/5", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 5, "name": "Backend"})
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewGetProjectTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"project_id": float64(5),
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "Backend") {
		t.Errorf("project result = %s", resultText(result))
	}

	// Missing project_id.
	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	if text := mustErrorResult(t, result, err); !strings.Contains(text, "project_id") {
		t.Errorf("error text = %q", text)
	}
}

func TestCreateUserStoryTool(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	var body map[string]any
	mux.HandleFunc("/api/v1/userstories", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 11, "subject": body["subject"]})
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewCreateUserStoryTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"project_id": float64(5),
		"subject":    "Implement login",
		"fields":     `{"milestone": 3}`,
	}))
	mustNotError(t, result, err)

	if body["project"] != float64(5) || body["subject"] != "Implement login" || body["milestone"] != float64(3) {
		t.Errorf("create payload = %v", body)
	}
	if !strings.Contains(resultText(result), "Implement login") {
		t.Errorf("create result = %s", resultText(result))
	}
}

func TestUpdateTaskToolRequiresFields(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions, id := newAuthedSession(t, srv)
	tool := NewUpdateTaskTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"task_id":    float64(3),
		"fields":     "{}",
	}))
	if text := mustErrorResult(t, result, err); !strings.Contains(text, "no fields") {
		t.Errorf("error text = %q", text)
	}
}

func TestDeleteIssueTool(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	deleted := false
	mux.HandleFunc("/api/v1/issues/9", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewDeleteIssueTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"issue_id":   float64(9),
	}))
	mustNotError(t, result, err)
	if !deleted {
		t.Error("DELETE request never reached the server")
	}
	if !strings.Contains(resultText(result), `"status": "deleted"`) {
		t.Errorf("delete result = %s", resultText(result))
	}
}

func TestUnassignEpicSendsNullAssignee(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	var patch map[string]any
	mux.HandleFunc("/api/v1/epics/4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 4, "version": 2})
		case http.MethodPatch:
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				t.Fatalf("decoding patch: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 4, "assigned_to": nil})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewUnassignEpicTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"epic_id":    float64(4),
	}))
	mustNotError(t, result, err)

	v, present := patch["assigned_to"]
	if !present || v != nil {
		t.Errorf("patch assigned_to = %v (present=%v), want explicit null", v, present)
	}
	if patch["version"] != float64(2) {
		t.Errorf("patch version = %v, want 2", patch["version"])
	}
}

func TestListUserStoriesPassesFilters(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	mux.HandleFunc("/api/v1/userstories", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("project") != "5" || q.Get("milestone") != "3" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "subject": "Story A"}})
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewListUserStoriesTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"project_id": float64(5),
		"filters":    `{"milestone": 3}`,
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "Story A") {
		t.Errorf("list result = %s", resultText(result))
	}
}

func TestUpvoteUserStoryEmptyBodyFallback(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	mux.HandleFunc("/api/v1/userstories/12/upvote", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		// Taiga answers vote and watch actions with an empty 200 body.
		w.WriteHeader(http.StatusOK)
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewUpvoteUserStoryTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id":    id,
		"user_story_id": float64(12),
	}))
	mustNotError(t, result, err)

	text := resultText(result)
	if !strings.Contains(text, `"status": "upvoted"`) || !strings.Contains(text, `"user_story_id": 12`) {
		t.Errorf("upvote result = %s", text)
	}
}

func TestUnwatchTaskEmptyBodyFallback(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	mux.HandleFunc("/api/v1/tasks/6/unwatch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewUnwatchTaskTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
		"task_id":    float64(6),
	}))
	mustNotError(t, result, err)

	text := resultText(result)
	if !strings.Contains(text, `"status": "unwatched"`) || !strings.Contains(text, `"task_id": 6`) {
		t.Errorf("unwatch result = %s", text)
	}
}

func TestWatchUserStoryReturnsAPIPayload(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	mux.HandleFunc("/api/v1/userstories/3/watch", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 3, "total_watchers": 4})
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewWatchUserStoryTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id":    id,
		"user_story_id": float64(3),
	}))
	mustNotError(t, result, err)

	text := resultText(result)
	if !strings.Contains(text, `"total_watchers": 4`) {
		t.Errorf("watch result = %s", text)
	}
	if strings.Contains(text, `"status"`) {
		t.Errorf("fallback status leaked into non-empty API response: %s", text)
	}
}

func TestDownvoteTaskMissingID(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions, id := newAuthedSession(t, srv)
	tool := NewDownvoteTaskTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id": id,
	}))
	msg := mustErrorResult(t, result, err)
	if !strings.Contains(msg, "task_id") {
		t.Errorf("error = %s", msg)
	}
}

func TestCreateWikiAttachmentUploadsFile(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	var form struct {
		project, objectID, description, fileName, fileBody string
	}
	mux.HandleFunc("/api/v1/wiki/attachments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		form.project = r.FormValue("project")
		form.objectID = r.FormValue("object_id")
		form.description = r.FormValue("description")
		f, hdr, err := r.FormFile("attached_file")
		if err != nil {
			t.Fatalf("reading attached_file: %v", err)
		}
		defer f.Close()
		body, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("reading file body: %v", err)
		}
		form.fileName = hdr.Filename
		form.fileBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 33, "name": hdr.Filename})
	})

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("meeting notes"), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	sessions, id := newAuthedSession(t, srv)
	tool := NewCreateWikiAttachmentTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id":   id,
		"project_id":   float64(5),
		"wiki_page_id": float64(8),
		"file_path":    path,
		"description":  "minutes",
	}))
	mustNotError(t, result, err)

	if form.project != "5" || form.objectID != "8" || form.description != "minutes" {
		t.Errorf("form fields = %+v", form)
	}
	if form.fileName != "notes.txt" || form.fileBody != "meeting notes" {
		t.Errorf("uploaded file = %q (%q)", form.fileName, form.fileBody)
	}
	if !strings.Contains(resultText(result), `"id": 33`) {
		t.Errorf("attachment result = %s", resultText(result))
	}
}

func TestCreateWikiAttachmentMissingFile(t *testing.T) {
	srv, _ := newFakeTaiga(t)
	sessions, id := newAuthedSession(t, srv)
	tool := NewCreateWikiAttachmentTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id":   id,
		"project_id":   float64(5),
		"wiki_page_id": float64(8),
		"file_path":    filepath.Join(t.TempDir(), "missing.txt"),
	}))
	if msg := mustErrorResult(t, result, err); !strings.Contains(msg, "missing.txt") {
		t.Errorf("error = %s", msg)
	}
}

func TestListWikiAttachmentsQuery(t *testing.T) {
	srv, mux := newFakeTaiga(t)
	mux.HandleFunc("/api/v1/wiki/attachments", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("project") != "5" || q.Get("object_id") != "8" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 33, "name": "notes.txt"}})
	})
	sessions, id := newAuthedSession(t, srv)
	tool := NewListWikiAttachmentsTool(sessions)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id":   id,
		"project_id":   float64(5),
		"wiki_page_id": float64(8),
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "notes.txt") {
		t.Errorf("list result = %s", resultText(result))
	}
}
