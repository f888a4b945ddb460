package taiga

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListProjects lists projects the given user is a member of. A zero
// memberID lists every project visible to the session.
func (c *Client) ListProjects(ctx context.Context, memberID int) ([]map[string]any, error) {
	q := url.Values{}
	if memberID != 0 {
		q.Set("member", fmt.Sprint(memberID))
	}
	return c.listObjects(ctx, "/projects", q)
}

// GetProject fetches a project by ID.
func (c *Client) GetProject(ctx context.Context, projectID int) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("/projects/%d", projectID))
}

// GetProjectBySlug fetches a project by its URL slug.
func (c *Client) GetProjectBySlug(ctx context.Context, slug string) (map[string]any, error) {
	var out map[string]any
	q := url.Values{}
	q.Set("slug", slug)
	if err := c.do(ctx, http.MethodGet, "/projects/by_slug", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject creates a project. Optional fields (is_private,
// description overrides, etc.) go in extra.
func (c *Client) CreateProject(ctx context.Context, name, description string, extra map[string]any) (map[string]any, error) {
	fields := map[string]any{"name": name, "description": description}
	for k, v := range extra {
		fields[k] = v
	}
	return c.createObject(ctx, "/projects", fields)
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID int, patch map[string]any) (map[string]any, error) {
	return c.editObject(ctx, fmt.Sprintf("/projects/%d", projectID), patch)
}

// DeleteProject removes a project. Irreversible.
func (c *Client) DeleteProject(ctx context.Context, projectID int) error {
	return c.deleteObject(ctx, fmt.Sprintf("/projects/%d", projectID))
}

// ListMemberships lists the members of a project.
func (c *Client) ListMemberships(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/memberships", projectQuery(projectID, nil))
}

// CreateMembership invites a user to a project by email with the given
// role.
func (c *Client) CreateMembership(ctx context.Context, projectID int, email string, roleID int) (map[string]any, error) {
	return c.createObject(ctx, "/memberships", map[string]any{
		"project": projectID,
		"email":   email,
		"role":    roleID,
	})
}
