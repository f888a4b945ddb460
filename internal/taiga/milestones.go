package taiga

import (
	"context"
	"fmt"
)

// ListMilestones lists the milestones (sprints) of a project.
func (c *Client) ListMilestones(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/milestones", projectQuery(projectID, nil))
}

// CreateMilestone creates a milestone. Dates are YYYY-MM-DD.
func (c *Client) CreateMilestone(ctx context.Context, projectID int, name, estimatedStart, estimatedFinish string) (map[string]any, error) {
	return c.createObject(ctx, "/milestones", map[string]any{
		"project":          projectID,
		"name":             name,
		"estimated_start":  estimatedStart,
		"estimated_finish": estimatedFinish,
	})
}

// GetMilestone fetches a milestone by ID.
func (c *Client) GetMilestone(ctx context.Context, milestoneID int) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("/milestones/%d", milestoneID))
}

// UpdateMilestone applies a partial update to a milestone.
func (c *Client) UpdateMilestone(ctx context.Context, milestoneID int, patch map[string]any) (map[string]any, error) {
	return c.editObject(ctx, fmt.Sprintf("/milestones/%d", milestoneID), patch)
}

// DeleteMilestone removes a milestone.
func (c *Client) DeleteMilestone(ctx context.Context, milestoneID int) error {
	return c.deleteObject(ctx, fmt.Sprintf("/milestones/%d", milestoneID))
}
