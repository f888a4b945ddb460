package taiga

import (
	"context"
	"fmt"
)

// ListEpics lists the epics of a project, with optional query filters.
func (c *Client) ListEpics(ctx context.Context, projectID int, filters map[string]any) ([]map[string]any, error) {
	return c.listObjects(ctx, "/epics", projectQuery(projectID, filters))
}

// CreateEpic creates an epic. Optional fields (color, description,
// ...) go in extra.
func (c *Client) CreateEpic(ctx context.Context, projectID int, subject string, extra map[string]any) (map[string]any, error) {
	fields := map[string]any{"project": projectID, "subject": subject}
	for k, v := range extra {
		fields[k] = v
	}
	return c.createObject(ctx, "/epics", fields)
}

// GetEpic fetches an epic by ID.
func (c *Client) GetEpic(ctx context.Context, epicID int) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("/epics/%d", epicID))
}

// UpdateEpic applies a partial update to an epic.
func (c *Client) UpdateEpic(ctx context.Context, epicID int, patch map[string]any) (map[string]any, error) {
	return c.editObject(ctx, fmt.Sprintf("/epics/%d", epicID), patch)
}

// DeleteEpic removes an epic.
func (c *Client) DeleteEpic(ctx context.Context, epicID int) error {
	return c.deleteObject(ctx, fmt.Sprintf("/epics/%d", epicID))
}

// AssignEpic sets the epic's assignee. A zero userID clears it.
func (c *Client) AssignEpic(ctx context.Context, epicID, userID int) (map[string]any, error) {
	var assignee any
	if userID != 0 {
		assignee = userID
	}
	return c.editObject(ctx, fmt.Sprintf("/epics/%d", epicID), map[string]any{"assigned_to": assignee})
}
