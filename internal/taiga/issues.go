package taiga

import (
	"context"
	"fmt"
)

// ListIssues lists the issues of a project, with optional query
// filters.
func (c *Client) ListIssues(ctx context.Context, projectID int, filters map[string]any) ([]map[string]any, error) {
	return c.listObjects(ctx, "/issues", projectQuery(projectID, filters))
}

// CreateIssue creates an issue. Priority, status, severity and type
// default to the project configuration when not set in extra.
func (c *Client) CreateIssue(ctx context.Context, projectID int, subject string, extra map[string]any) (map[string]any, error) {
	fields := map[string]any{"project": projectID, "subject": subject}
	for k, v := range extra {
		fields[k] = v
	}
	return c.createObject(ctx, "/issues", fields)
}

// GetIssue fetches an issue by ID.
func (c *Client) GetIssue(ctx context.Context, issueID int) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("/issues/%d", issueID))
}

// UpdateIssue applies a partial update to an issue.
func (c *Client) UpdateIssue(ctx context.Context, issueID int, patch map[string]any) (map[string]any, error) {
	return c.editObject(ctx, fmt.Sprintf("/issues/%d", issueID), patch)
}

// DeleteIssue removes an issue.
func (c *Client) DeleteIssue(ctx context.Context, issueID int) error {
	return c.deleteObject(ctx, fmt.Sprintf("/issues/%d", issueID))
}

// AssignIssue sets the issue's assignee. A zero userID clears it.
func (c *Client) AssignIssue(ctx context.Context, issueID, userID int) (map[string]any, error) {
	var assignee any
	if userID != 0 {
		assignee = userID
	}
	return c.editObject(ctx, fmt.Sprintf("/issues/%d", issueID), map[string]any{"assigned_to": assignee})
}

// ListIssueStatuses lists the issue statuses configured for a project.
func (c *Client) ListIssueStatuses(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/issue-statuses", projectQuery(projectID, nil))
}

// ListIssuePriorities lists the priorities configured for a project.
func (c *Client) ListIssuePriorities(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/priorities", projectQuery(projectID, nil))
}

// ListIssueSeverities lists the severities configured for a project.
func (c *Client) ListIssueSeverities(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/severities", projectQuery(projectID, nil))
}

// ListIssueTypes lists the issue types configured for a project.
func (c *Client) ListIssueTypes(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/issue-types", projectQuery(projectID, nil))
}
