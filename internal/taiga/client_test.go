package taiga

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient_EmptyHost(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("NewClient(\"\") succeeded, want error")
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("https://tree.taiga.io/")
	if err != nil {
		t.Fatal(err)
	}
	if c.Host() != "https://tree.taiga.io" {
		t.Errorf("Host = %q", c.Host())
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["type"] != "normal" || body["username"] != "alice" {
			t.Errorf("auth body = %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"auth_token": "tok-123",
			"id":         42,
			"username":   "alice",
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if c.IsAuthenticated() {
		t.Fatal("fresh client reports authenticated")
	}

	if err := c.Login(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !c.IsAuthenticated() {
		t.Error("client not authenticated after login")
	}
	if c.AuthToken() != "tok-123" {
		t.Errorf("AuthToken = %q", c.AuthToken())
	}
	if c.UserID() != 42 || c.Username() != "alice" {
		t.Errorf("user = %d/%q, want 42/alice", c.UserID(), c.Username())
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	c, _ := NewClient("https://example.test")
	if err := c.Login(context.Background(), "", "pw"); err == nil {
		t.Error("Login with empty username succeeded")
	}
	if err := c.Login(context.Background(), "user", ""); err == nil {
		t.Error("Login with empty password succeeded")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"_error_message": "invalid username or password"})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	err := c.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("Login succeeded against 401")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "invalid username or password" {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
	if c.IsAuthenticated() {
		t.Error("client authenticated after failed login")
	}
}

func TestLoginWithToken_ResolvesUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Application app-tok" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": "bob"})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	if err := c.LoginWithToken(context.Background(), "app-tok", "Application", 0); err != nil {
		t.Fatalf("LoginWithToken: %v", err)
	}
	if c.UserID() != 7 || c.Username() != "bob" {
		t.Errorf("user = %d/%q, want 7/bob", c.UserID(), c.Username())
	}
}

func TestLoginWithToken_KnownUserSkipsLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	if err := c.LoginWithToken(context.Background(), "tok", "Bearer", 99); err != nil {
		t.Fatalf("LoginWithToken: %v", err)
	}
	if c.UserID() != 99 {
		t.Errorf("UserID = %d, want 99", c.UserID())
	}
}

func TestLoginWithToken_UserLookupFailureNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	if err := c.LoginWithToken(context.Background(), "tok", "Bearer", 0); err != nil {
		t.Fatalf("LoginWithToken: %v (lookup failure should not be fatal)", err)
	}
	if !c.IsAuthenticated() {
		t.Error("client not authenticated despite valid token")
	}
}

func TestEditObject_MergesVersion(t *testing.T) {
	var patched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"id": 5, "subject": "old", "version": 3})
		case http.MethodPatch:
			if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
				t.Fatal(err)
			}
			json.NewEncoder(w).Encode(map[string]any{"id": 5, "subject": "new", "version": 4})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	c.token = "tok"

	out, err := c.UpdateUserStory(context.Background(), 5, map[string]any{"subject": "new"})
	if err != nil {
		t.Fatalf("UpdateUserStory: %v", err)
	}
	if patched["version"] != float64(3) {
		t.Errorf("patch carried version %v, want 3", patched["version"])
	}
	if patched["subject"] != "new" {
		t.Errorf("patch subject = %v", patched["subject"])
	}
	if out["subject"] != "new" {
		t.Errorf("result subject = %v", out["subject"])
	}
}

func TestEditObject_EmptyPatchRejected(t *testing.T) {
	c, _ := NewClient("https://example.test")
	c.token = "tok"
	if _, err := c.UpdateTask(context.Background(), 1, nil); err == nil {
		t.Error("empty patch accepted, want error")
	}
}

func TestListObjects_QueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/userstories" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("project"); got != "12" {
			t.Errorf("project query = %q", got)
		}
		if got := r.URL.Query().Get("milestone"); got != "4" {
			t.Errorf("milestone query = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{{"id": 1}, {"id": 2}})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	c.token = "tok"

	stories, err := c.ListUserStories(context.Background(), 12, map[string]any{"milestone": 4})
	if err != nil {
		t.Fatalf("ListUserStories: %v", err)
	}
	if len(stories) != 2 {
		t.Errorf("got %d stories, want 2", len(stories))
	}
}

func TestDeleteObject_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	c.token = "tok"
	if err := c.DeleteProject(context.Background(), 3); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
}
