package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListMilestonesTool handles list_milestones.
type ListMilestonesTool struct {
	sessions *Sessions
}

// NewListMilestonesTool creates a ListMilestonesTool.
func NewListMilestonesTool(sessions *Sessions) *ListMilestonesTool {
	return &ListMilestonesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_milestones.
func (t *ListMilestonesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_milestones",
		mcp.WithDescription("Lists milestones (sprints) within a specific project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the list_milestones tool call.
func (t *ListMilestonesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	milestones, err := c.ListMilestones(ctx, projectID)
	return apiResult(milestones, err)
}

// CreateMilestoneTool handles create_milestone.
type CreateMilestoneTool struct {
	sessions *Sessions
}

// NewCreateMilestoneTool creates a CreateMilestoneTool.
func NewCreateMilestoneTool(sessions *Sessions) *CreateMilestoneTool {
	return &CreateMilestoneTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_milestone.
func (t *CreateMilestoneTool) Definition() mcp.Tool {
	return mcp.NewTool("create_milestone",
		mcp.WithDescription("Creates a new milestone (sprint) within a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Milestone name")),
		mcp.WithString("estimated_start", mcp.Required(), mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("estimated_finish", mcp.Required(), mcp.Description("Finish date (YYYY-MM-DD)")),
	)
}

// Handle processes the create_milestone tool call.
func (t *CreateMilestoneTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	name := req.GetString("name", "")
	start := req.GetString("estimated_start", "")
	finish := req.GetString("estimated_finish", "")
	if projectID == 0 || name == "" || start == "" || finish == "" {
		return mcp.NewToolResultError("'project_id', 'name', 'estimated_start' and 'estimated_finish' are required"), nil
	}
	milestone, err := c.CreateMilestone(ctx, projectID, name, start, finish)
	return apiResult(milestone, err)
}

// GetMilestoneTool handles get_milestone.
type GetMilestoneTool struct {
	sessions *Sessions
}

// NewGetMilestoneTool creates a GetMilestoneTool.
func NewGetMilestoneTool(sessions *Sessions) *GetMilestoneTool {
	return &GetMilestoneTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_milestone.
func (t *GetMilestoneTool) Definition() mcp.Tool {
	return mcp.NewTool("get_milestone",
		mcp.WithDescription("Gets detailed information about a specific milestone by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("milestone_id", mcp.Required(), mcp.Description("Milestone ID")),
	)
}

// Handle processes the get_milestone tool call.
func (t *GetMilestoneTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	milestoneID := intArg(req, "milestone_id", 0)
	if milestoneID == 0 {
		return mcp.NewToolResultError("'milestone_id' is required"), nil
	}
	milestone, err := c.GetMilestone(ctx, milestoneID)
	return apiResult(milestone, err)
}

// UpdateMilestoneTool handles update_milestone.
type UpdateMilestoneTool struct {
	sessions *Sessions
}

// NewUpdateMilestoneTool creates an UpdateMilestoneTool.
func NewUpdateMilestoneTool(sessions *Sessions) *UpdateMilestoneTool {
	return &UpdateMilestoneTool{sessions: sessions}
}

// Definition returns the MCP tool definition for update_milestone.
func (t *UpdateMilestoneTool) Definition() mcp.Tool {
	return mcp.NewTool("update_milestone",
		mcp.WithDescription("Updates details of an existing milestone."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("milestone_id", mcp.Required(), mcp.Description("Milestone ID")),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Fields to update as a JSON object (e.g. {\"name\": \"Sprint 2\"})"),
		),
	)
}

// Handle processes the update_milestone tool call.
func (t *UpdateMilestoneTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	milestoneID := intArg(req, "milestone_id", 0)
	if milestoneID == 0 {
		return mcp.NewToolResultError("'milestone_id' is required"), nil
	}
	patch, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	if len(patch) == 0 {
		return mcp.NewToolResultError("no fields provided for update"), nil
	}
	milestone, err := c.UpdateMilestone(ctx, milestoneID, patch)
	return apiResult(milestone, err)
}

// DeleteMilestoneTool handles delete_milestone.
type DeleteMilestoneTool struct {
	sessions *Sessions
}

// NewDeleteMilestoneTool creates a DeleteMilestoneTool.
func NewDeleteMilestoneTool(sessions *Sessions) *DeleteMilestoneTool {
	return &DeleteMilestoneTool{sessions: sessions}
}

// Definition returns the MCP tool definition for delete_milestone.
func (t *DeleteMilestoneTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_milestone",
		mcp.WithDescription("Deletes a milestone by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("milestone_id", mcp.Required(), mcp.Description("Milestone ID")),
	)
}

// Handle processes the delete_milestone tool call.
func (t *DeleteMilestoneTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	milestoneID := intArg(req, "milestone_id", 0)
	if milestoneID == 0 {
		return mcp.NewToolResultError("'milestone_id' is required"), nil
	}
	if err := c.DeleteMilestone(ctx, milestoneID); err != nil {
		return apiResult(nil, err)
	}
	return jsonResult(map[string]any{"status": "deleted", "milestone_id": milestoneID})
}
