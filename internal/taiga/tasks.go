package taiga

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListTasks lists the tasks of a project, with optional query filters.
func (c *Client) ListTasks(ctx context.Context, projectID int, filters map[string]any) ([]map[string]any, error) {
	return c.listObjects(ctx, "/tasks", projectQuery(projectID, filters))
}

// CreateTask creates a task. Optional fields (user_story, milestone,
// description, ...) go in extra.
func (c *Client) CreateTask(ctx context.Context, projectID int, subject string, extra map[string]any) (map[string]any, error) {
	fields := map[string]any{"project": projectID, "subject": subject}
	for k, v := range extra {
		fields[k] = v
	}
	return c.createObject(ctx, "/tasks", fields)
}

// GetTask fetches a task by ID.
func (c *Client) GetTask(ctx context.Context, taskID int) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("/tasks/%d", taskID))
}

// GetTaskByRef fetches a task by its per-project reference number.
func (c *Client) GetTaskByRef(ctx context.Context, projectID, ref int) (map[string]any, error) {
	var out map[string]any
	q := url.Values{}
	q.Set("project", fmt.Sprint(projectID))
	q.Set("ref", fmt.Sprint(ref))
	if err := c.do(ctx, http.MethodGet, "/tasks/by_ref", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, taskID int, patch map[string]any) (map[string]any, error) {
	return c.editObject(ctx, fmt.Sprintf("/tasks/%d", taskID), patch)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	return c.deleteObject(ctx, fmt.Sprintf("/tasks/%d", taskID))
}

// AssignTask sets the task's assignee. A zero userID clears it.
func (c *Client) AssignTask(ctx context.Context, taskID, userID int) (map[string]any, error) {
	var assignee any
	if userID != 0 {
		assignee = userID
	}
	return c.editObject(ctx, fmt.Sprintf("/tasks/%d", taskID), map[string]any{"assigned_to": assignee})
}

// UpvoteTask adds the caller's vote to a task.
func (c *Client) UpvoteTask(ctx context.Context, taskID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/tasks/%d/upvote", taskID))
}

// DownvoteTask removes the caller's vote from a task.
func (c *Client) DownvoteTask(ctx context.Context, taskID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/tasks/%d/downvote", taskID))
}

// WatchTask subscribes the caller to a task's changes.
func (c *Client) WatchTask(ctx context.Context, taskID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/tasks/%d/watch", taskID))
}

// UnwatchTask unsubscribes the caller from a task.
func (c *Client) UnwatchTask(ctx context.Context, taskID int) (map[string]any, error) {
	return c.postAction(ctx, fmt.Sprintf("/tasks/%d/unwatch", taskID))
}

// ListTaskStatuses lists the task statuses configured for a project.
func (c *Client) ListTaskStatuses(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/task-statuses", projectQuery(projectID, nil))
}
