package taiga

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListUserStories lists the stories of a project. filters maps extra
// query parameters (milestone, status, assigned_to, ...).
func (c *Client) ListUserStories(ctx context.Context, projectID int, filters map[string]any) ([]map[string]any, error) {
	return c.listObjects(ctx, "/userstories", projectQuery(projectID, filters))
}

// CreateUserStory creates a story with the given subject. Optional
// fields (description, milestone, status, ...) go in extra.
func (c *Client) CreateUserStory(ctx context.Context, projectID int, subject string, extra map[string]any) (map[string]any, error) {
	fields := map[string]any{"project": projectID, "subject": subject}
	for k, v := range extra {
		fields[k] = v
	}
	return c.createObject(ctx, "/userstories", fields)
}

// GetUserStory fetches a story by ID.
func (c *Client) GetUserStory(ctx context.Context, storyID int) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("/userstories/%d", storyID))
}

// GetUserStoryByRef fetches a story by its per-project reference
// number (the #N shown in the UI).
func (c *Client) GetUserStoryByRef(ctx context.Context, projectID, ref int) (map[string]any, error) {
	var out map[string]any
	q := url.Values{}
	q.Set("project", fmt.Sprint(projectID))
	q.Set("ref", fmt.Sprint(ref))
	if err := c.do(ctx, http.MethodGet, "/userstories/by_ref", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUserStory applies a partial update to a story.
func (c *Client) UpdateUserStory(ctx context.Context, storyID int, patch map[string]any) (map[string]any, error) {
	return c.editObject(ctx, fmt.Sprintf("/userstories/%d", storyID), patch)
}

// DeleteUserStory removes a story.
func (c *Client) DeleteUserStory(ctx context.Context, storyID int) error {
	return c.deleteObject(ctx, fmt.Sprintf("/userstories/%d", storyID))
}

// AssignUserStory sets the story's assignee. A zero userID clears the
// assignment.
func (c *Client) AssignUserStory(ctx context.Context, storyID, userID int) (map[string]any, error) {
	var assignee any
	if userID != 0 {
		assignee = userID
	}
	return c.editObject(ctx, fmt.Sprintf("/userstories/%d", storyID), map[string]any{"assigned_to": assignee})
}

// UpvoteUserStory adds the caller's vote to a story.
func (c *Client) UpvoteUserStory(ctx context.Context, storyID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/userstories/%d/upvote", storyID))
}

// DownvoteUserStory removes the caller's vote from a story.
func (c *Client) DownvoteUserStory(ctx context.Context, storyID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/userstories/%d/downvote", storyID))
}

// WatchUserStory subscribes the caller to a story's changes.
func (c *Client) WatchUserStory(ctx context.Context, storyID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/userstories/%d/watch", storyID))
}

// UnwatchUserStory unsubscribes the caller from a story.
func (c *Client) UnwatchUserStory(ctx context.Context, storyID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/userstories/%d/unwatch", storyID))
}

// ListUserStoryStatuses lists the story statuses configured for a
// project.
func (c *Client) ListUserStoryStatuses(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/userstory-statuses", projectQuery(projectID, nil))
}
