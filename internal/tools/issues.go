package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListIssuesTool handles list_issues.
type ListIssuesTool struct {
	sessions *Sessions
}

// NewListIssuesTool creates a ListIssuesTool.
func NewListIssuesTool(sessions *Sessions) *ListIssuesTool {
	return &ListIssuesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_issues.
func (t *ListIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_issues",
		mcp.WithDescription("Lists issues within a specific project, optionally filtered."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("filters",
			mcp.Description("Optional filters as a JSON object (e.g. {\"severity\": 3, \"status\": 1})"),
		),
	)
}

// Handle processes the list_issues tool call.
func (t *ListIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	filters, errRes := fieldsArg(req, "filters")
	if errRes != nil {
		return errRes, nil
	}
	issues, err := c.ListIssues(ctx, projectID, filters)
	return apiResult(issues, err)
}

// CreateIssueTool handles create_issue.
type CreateIssueTool struct {
	sessions *Sessions
}

// NewCreateIssueTool creates a CreateIssueTool.
func NewCreateIssueTool(sessions *Sessions) *CreateIssueTool {
	return &CreateIssueTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_issue.
func (t *CreateIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("create_issue",
		mcp.WithDescription("Creates a new issue within a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Issue title")),
		mcp.WithString("fields",
			mcp.Description("Optional extra fields as a JSON object (priority, status, severity, type, description, ...)"),
		),
	)
}

// Handle processes the create_issue tool call.
func (t *CreateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	subject := req.GetString("subject", "")
	if projectID == 0 || subject == "" {
		return mcp.NewToolResultError("'project_id' and 'subject' are required"), nil
	}
	extra, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	issue, err := c.CreateIssue(ctx, projectID, subject, extra)
	return apiResult(issue, err)
}

// GetIssueTool handles get_issue.
type GetIssueTool struct {
	sessions *Sessions
}

// NewGetIssueTool creates a GetIssueTool.
func NewGetIssueTool(sessions *Sessions) *GetIssueTool {
	return &GetIssueTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_issue.
func (t *GetIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issue",
		mcp.WithDescription("Gets detailed information about a specific issue by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Issue ID")),
	)
}

// Handle processes the get_issue tool call.
func (t *GetIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	issueID := intArg(req, "issue_id", 0)
	if issueID == 0 {
		return mcp.NewToolResultError("'issue_id' is required"), nil
	}
	issue, err := c.GetIssue(ctx, issueID)
	return apiResult(issue, err)
}

// UpdateIssueTool handles update_issue.
type UpdateIssueTool struct {
	sessions *Sessions
}

// NewUpdateIssueTool creates an UpdateIssueTool.
func NewUpdateIssueTool(sessions *Sessions) *UpdateIssueTool {
	return &UpdateIssueTool{sessions: sessions}
}

// Definition returns the MCP tool definition for update_issue.
func (t *UpdateIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("update_issue",
		mcp.WithDescription("Updates details of an existing issue."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Issue ID")),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Fields to update as a JSON object (e.g. {\"severity\": 4})"),
		),
	)
}

// Handle processes the update_issue tool call.
func (t *UpdateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	issueID := intArg(req, "issue_id", 0)
	if issueID == 0 {
		return mcp.NewToolResultError("'issue_id' is required"), nil
	}
	patch, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	if len(patch) == 0 {
		return mcp.NewToolResultError("no fields provided for update"), nil
	}
	issue, err := c.UpdateIssue(ctx, issueID, patch)
	return apiResult(issue, err)
}

// DeleteIssueTool handles delete_issue.
type DeleteIssueTool struct {
	sessions *Sessions
}

// NewDeleteIssueTool creates a DeleteIssueTool.
func NewDeleteIssueTool(sessions *Sessions) *DeleteIssueTool {
	return &DeleteIssueTool{sessions: sessions}
}

// Definition returns the MCP tool definition for delete_issue.
func (t *DeleteIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_issue",
		mcp.WithDescription("Deletes an issue by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Issue ID")),
	)
}

// Handle processes the delete_issue tool call.
func (t *DeleteIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	issueID := intArg(req, "issue_id", 0)
	if issueID == 0 {
		return mcp.NewToolResultError("'issue_id' is required"), nil
	}
	if err := c.DeleteIssue(ctx, issueID); err != nil {
		return apiResult(nil, err)
	}
	return jsonResult(map[string]any{"status": "deleted", "issue_id": issueID})
}

// AssignIssueTool handles assign_issue_to_user.
type AssignIssueTool struct {
	sessions *Sessions
}

// NewAssignIssueTool creates an AssignIssueTool.
func NewAssignIssueTool(sessions *Sessions) *AssignIssueTool {
	return &AssignIssueTool{sessions: sessions}
}

// Definition returns the MCP tool definition for assign_issue_to_user.
func (t *AssignIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("assign_issue_to_user",
		mcp.WithDescription("Assigns an issue to a specific user."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Issue ID")),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User to assign")),
	)
}

// Handle processes the assign_issue_to_user tool call.
func (t *AssignIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	issueID := intArg(req, "issue_id", 0)
	userID := intArg(req, "user_id", 0)
	if issueID == 0 || userID == 0 {
		return mcp.NewToolResultError("'issue_id' and 'user_id' are required"), nil
	}
	issue, err := c.AssignIssue(ctx, issueID, userID)
	return apiResult(issue, err)
}

// UnassignIssueTool handles unassign_issue_from_user.
type UnassignIssueTool struct {
	sessions *Sessions
}

// NewUnassignIssueTool creates an UnassignIssueTool.
func NewUnassignIssueTool(sessions *Sessions) *UnassignIssueTool {
	return &UnassignIssueTool{sessions: sessions}
}

// Definition returns the MCP tool definition for unassign_issue_from_user.
func (t *UnassignIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("unassign_issue_from_user",
		mcp.WithDescription("Removes the assignee from an issue."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Issue ID")),
	)
}

// Handle processes the unassign_issue_from_user tool call.
func (t *UnassignIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	issueID := intArg(req, "issue_id", 0)
	if issueID == 0 {
		return mcp.NewToolResultError("'issue_id' is required"), nil
	}
	issue, err := c.AssignIssue(ctx, issueID, 0)
	return apiResult(issue, err)
}

// IssueStatusesTool handles get_issue_statuses.
type IssueStatusesTool struct {
	sessions *Sessions
}

// NewIssueStatusesTool creates an IssueStatusesTool.
func NewIssueStatusesTool(sessions *Sessions) *IssueStatusesTool {
	return &IssueStatusesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_issue_statuses.
func (t *IssueStatusesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issue_statuses",
		mcp.WithDescription("Lists the issue statuses configured for a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_issue_statuses tool call.
func (t *IssueStatusesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	statuses, err := c.ListIssueStatuses(ctx, projectID)
	return apiResult(statuses, err)
}

// IssuePrioritiesTool handles get_issue_priorities.
type IssuePrioritiesTool struct {
	sessions *Sessions
}

// NewIssuePrioritiesTool creates an IssuePrioritiesTool.
func NewIssuePrioritiesTool(sessions *Sessions) *IssuePrioritiesTool {
	return &IssuePrioritiesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_issue_priorities.
func (t *IssuePrioritiesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issue_priorities",
		mcp.WithDescription("Lists the issue priorities configured for a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_issue_priorities tool call.
func (t *IssuePrioritiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	priorities, err := c.ListIssuePriorities(ctx, projectID)
	return apiResult(priorities, err)
}

// IssueSeveritiesTool handles get_issue_severities.
type IssueSeveritiesTool struct {
	sessions *Sessions
}

// NewIssueSeveritiesTool creates an IssueSeveritiesTool.
func NewIssueSeveritiesTool(sessions *Sessions) *IssueSeveritiesTool {
	return &IssueSeveritiesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_issue_severities.
func (t *IssueSeveritiesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issue_severities",
		mcp.WithDescription("Lists the issue severities configured for a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_issue_severities tool call.
func (t *IssueSeveritiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	severities, err := c.ListIssueSeverities(ctx, projectID)
	return apiResult(severities, err)
}

// IssueTypesTool handles get_issue_types.
type IssueTypesTool struct {
	sessions *Sessions
}

// NewIssueTypesTool creates an IssueTypesTool.
func NewIssueTypesTool(sessions *Sessions) *IssueTypesTool {
	return &IssueTypesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_issue_types.
func (t *IssueTypesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issue_types",
		mcp.WithDescription("Lists the issue types configured for a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_issue_types tool call.
func (t *IssueTypesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	types, err := c.ListIssueTypes(ctx, projectID)
	return apiResult(types, err)
}
