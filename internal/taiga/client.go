// Package taiga is a thin client for the Taiga REST API. A Client is
// the authenticated handle stored in the session registry: it carries
// the auth token and performs one HTTP call per operation, returning
// the API's JSON payloads undecorated.
package taiga

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const apiPrefix = "/api/v1"

// APIError is a non-2xx response from the Taiga API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("taiga API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("taiga API error: status %d: %s", e.StatusCode, e.Detail)
}

// Client talks to one Taiga instance. Unauthenticated until Login,
// LoginWithToken, or LoginWithGitHub succeeds.
type Client struct {
	host string
	http *http.Client

	token     string
	tokenType string
	userID    int
	username  string
}

// NewClient creates a client for the Taiga instance at host
// (e.g. "https://api.taiga.io").
func NewClient(host string) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("taiga host URL cannot be empty")
	}
	return &Client{
		host:      strings.TrimRight(host, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		tokenType: "Bearer",
	}, nil
}

// Host returns the instance URL the client was created for.
func (c *Client) Host() string { return c.host }

// AuthToken returns the current auth token, empty if not logged in.
func (c *Client) AuthToken() string { return c.token }

// TokenType returns the scheme used in the Authorization header.
func (c *Client) TokenType() string { return c.tokenType }

// UserID returns the authenticated user's ID, 0 if unresolved.
func (c *Client) UserID() int { return c.userID }

// Username returns the authenticated user's name, empty if unresolved.
func (c *Client) Username() string { return c.username }

// IsAuthenticated reports whether the client holds an auth token. This
// is the liveness predicate the session registry checks; it does not
// verify the token against the API.
func (c *Client) IsAuthenticated() bool { return c.token != "" }

// Login authenticates with username and password. Token
// authentication is preferred; this exists for the first login.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password cannot be empty")
	}

	var resp map[string]any
	err := c.do(ctx, http.MethodPost, "/auth", nil, map[string]any{
		"type":     "normal",
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return fmt.Errorf("login for %q: %w", username, err)
	}

	token, _ := resp["auth_token"].(string)
	if token == "" {
		return fmt.Errorf("login for %q: response carried no auth token", username)
	}
	c.token = token
	c.tokenType = "Bearer"
	if id, ok := resp["id"].(float64); ok {
		c.userID = int(id)
	}
	if name, ok := resp["username"].(string); ok && name != "" {
		c.username = name
	} else {
		c.username = username
	}

	slog.Info("login successful", "host", c.host, "username", c.username, "user_id", c.userID)
	return nil
}

// LoginWithToken authenticates with a pre-issued token. tokenType is
// "Bearer" (session token) or "Application". When userID is zero the
// client resolves it via /users/me; failure to resolve is logged, not
// fatal, since the token itself may still be perfectly valid.
func (c *Client) LoginWithToken(ctx context.Context, token, tokenType string, userID int) error {
	if token == "" {
		return fmt.Errorf("auth token cannot be empty")
	}
	if tokenType == "" {
		tokenType = "Bearer"
	}

	c.token = token
	c.tokenType = tokenType

	if userID != 0 {
		c.userID = userID
		slog.Info("token authentication successful", "host", c.host, "user_id", userID)
		return nil
	}

	me, err := c.Me(ctx)
	if err != nil {
		slog.Warn("could not resolve user from token", "host", c.host, "error", err)
		return nil
	}
	if id, ok := me["id"].(float64); ok {
		c.userID = int(id)
	}
	if name, ok := me["username"].(string); ok {
		c.username = name
	}
	slog.Info("token authentication successful", "host", c.host, "username", c.username, "user_id", c.userID)
	return nil
}

// LoginWithGitHub trades a GitHub OAuth access token for a Taiga
// session via the github auth backend.
func (c *Client) LoginWithGitHub(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("github access token cannot be empty")
	}

	var resp map[string]any
	err := c.do(ctx, http.MethodPost, "/auth", nil, map[string]any{
		"type":  "github",
		"token": accessToken,
	}, &resp)
	if err != nil {
		return fmt.Errorf("github login: %w", err)
	}

	token, _ := resp["auth_token"].(string)
	if token == "" {
		return fmt.Errorf("github login: response carried no auth token")
	}
	c.token = token
	c.tokenType = "Bearer"
	if id, ok := resp["id"].(float64); ok {
		c.userID = int(id)
	}
	if name, ok := resp["username"].(string); ok {
		c.username = name
	}

	slog.Info("github login successful", "host", c.host, "username", c.username)
	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one API request. body (if non-nil) is JSON-encoded; out
// (if non-nil) receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.host + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.tokenType+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// Action endpoints (upvote, watch, ...) answer 200 with an
		// empty body.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// errorDetail extracts Taiga's "_error_message" field when present,
// falling back to the raw (truncated) body.
func errorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"_error_message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

// getObject fetches a single entity.
func (c *Client) getObject(ctx context.Context, path string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// listObjects fetches a collection.
func (c *Client) listObjects(ctx context.Context, path string, query url.Values) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// createObject POSTs a new entity.
func (c *Client) createObject(ctx context.Context, path string, fields map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, path, nil, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// editObject PATCHes an entity using optimistic concurrency: Taiga
// requires the entity's current version in every partial update, so
// the current object is fetched first.
func (c *Client) editObject(ctx context.Context, path string, patch map[string]any) (map[string]any, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("no fields provided for update")
	}

	current, err := c.getObject(ctx, path)
	if err != nil {
		return nil, err
	}
	version, ok := current["version"].(float64)
	if !ok {
		return nil, fmt.Errorf("could not read version of %s", path)
	}

	body := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		body[k] = v
	}
	body["version"] = int(version)

	var out map[string]any
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// deleteObject removes an entity.
func (c *Client) deleteObject(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// postAction hits a bodyless action endpoint (upvote, watch, ...).
// A nil result with nil error means the API answered with an empty
// body, which is the normal success shape for these endpoints.
func (c *Client) postAction(ctx context.Context, path string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// createAttachment uploads a file as a multipart form to one of the
// per-entity attachment collections (e.g. /wiki/attachments).
func (c *Client) createAttachment(ctx context.Context, path string, projectID, objectID int, filePath, description string) (map[string]any, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening attachment: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("attached_file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("building attachment form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	if err := mw.WriteField("project", fmt.Sprint(projectID)); err != nil {
		return nil, fmt.Errorf("building attachment form: %w", err)
	}
	if err := mw.WriteField("object_id", fmt.Sprint(objectID)); err != nil {
		return nil, fmt.Errorf("building attachment form: %w", err)
	}
	if description != "" {
		if err := mw.WriteField("description", description); err != nil {
			return nil, fmt.Errorf("building attachment form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing attachment form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+apiPrefix+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", c.tokenType+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(resp.Body)}
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding POST %s response: %w", path, err)
	}
	return out, nil
}

// listAttachments fetches the attachments of one entity.
func (c *Client) listAttachments(ctx context.Context, path string, projectID, objectID int) ([]map[string]any, error) {
	q := projectQuery(projectID, nil)
	q.Set("object_id", fmt.Sprint(objectID))
	return c.listObjects(ctx, path, q)
}

// projectQuery builds the ?project=N filter shared by most listings.
func projectQuery(projectID int, filters map[string]any) url.Values {
	q := url.Values{}
	q.Set("project", fmt.Sprint(projectID))
	for k, v := range filters {
		q.Set(k, fmt.Sprint(v))
	}
	return q
}
