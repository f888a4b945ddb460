package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListEpicsTool handles list_epics.
type ListEpicsTool struct {
	sessions *Sessions
}

// NewListEpicsTool creates a ListEpicsTool.
func NewListEpicsTool(sessions *Sessions) *ListEpicsTool {
	return &ListEpicsTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_epics.
func (t *ListEpicsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_epics",
		mcp.WithDescription("Lists epics within a specific project, optionally filtered."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("filters",
			mcp.Description("Optional filters as a JSON object"),
		),
	)
}

// Handle processes the list_epics tool call.
func (t *ListEpicsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	epics, err := c.ListEpics(ctx, projectID, filters)
	return apiResult(epics, err)
}

// CreateEpicTool handles create_epic.
type CreateEpicTool struct {
	sessions *Sessions
}

// NewCreateEpicTool creates a CreateEpicTool.
func NewCreateEpicTool(sessions *Sessions) *CreateEpicTool {
	return &CreateEpicTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_epic.
func (t *CreateEpicTool) Definition() mcp.Tool {
	return mcp.NewTool("create_epic",
		mcp.WithDescription("Creates a new epic within a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Epic title")),
		mcp.WithString("fields",
			mcp.Description("Optional extra fields as a JSON object (color, description, ...)"),
		),
	)
}

// Handle processes the create_epic tool call.
func (t *CreateEpicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	epic, err := c.CreateEpic(ctx, projectID, subject, extra)
	return apiResult(epic, err)
}

// GetEpicTool handles get_epic.
type GetEpicTool struct {
	sessions *Sessions
}

// NewGetEpicTool creates a GetEpicTool.
func NewGetEpicTool(sessions *Sessions) *GetEpicTool {
	return &GetEpicTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_epic.
func (t *GetEpicTool) Definition() mcp.Tool {
	return mcp.NewTool("get_epic",
		mcp.WithDescription("Gets detailed information about a specific epic by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("epic_id", mcp.Required(), mcp.Description("Epic ID")),
	)
}

// Handle processes the get_epic tool call.
func (t *GetEpicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	epicID := intArg(req, "epic_id", 0)
	if epicID == 0 {
		return mcp.NewToolResultError("'epic_id' is required"), nil
	}
	epic, err := c.GetEpic(ctx, epicID)
	return apiResult(epic, err)
}

// UpdateEpicTool handles update_epic.
type UpdateEpicTool struct {
	sessions *Sessions
}

// NewUpdateEpicTool creates an UpdateEpicTool.
func NewUpdateEpicTool(sessions *Sessions) *UpdateEpicTool {
	return &UpdateEpicTool{sessions: sessions}
}

// Definition returns the MCP tool definition for update_epic.
func (t *UpdateEpicTool) Definition() mcp.Tool {
	return mcp.NewTool("update_epic",
		mcp.WithDescription("Updates details of an existing epic."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("epic_id", mcp.Required(), mcp.Description("Epic ID")),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Fields to update as a JSON object (e.g. {\"subject\": \"New Title\"})"),
		),
	)
}

// Handle processes the update_epic tool call.
func (t *UpdateEpicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	epicID := intArg(req, "epic_id", 0)
	if epicID == 0 {
		return mcp.NewToolResultError("'epic_id' is required"), nil
	}
	patch, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	if len(patch) == 0 {
		return mcp.NewToolResultError("no fields provided for update"), nil
	}
	epic, err := c.UpdateEpic(ctx, epicID, patch)
	return apiResult(epic, err)
}

// DeleteEpicTool handles delete_epic.
type DeleteEpicTool struct {
	sessions *Sessions
}

// NewDeleteEpicTool creates a DeleteEpicTool.
func NewDeleteEpicTool(sessions *Sessions) *DeleteEpicTool {
	return &DeleteEpicTool{sessions: sessions}
}

// Definition returns the MCP tool definition for delete_epic.
func (t *DeleteEpicTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_epic",
		mcp.WithDescription("Deletes an epic by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("epic_id", mcp.Required(), mcp.Description("Epic ID")),
	)
}

// Handle processes the delete_epic tool call.
func (t *DeleteEpicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	epicID := intArg(req, "epic_id", 0)
	if epicID == 0 {
		return mcp.NewToolResultError("'epic_id' is required"), nil
	}
	if err := c.DeleteEpic(ctx, epicID); err != nil {
		return apiResult(nil, err)
	}
	return jsonResult(map[string]any{"status": "deleted", "epic_id": epicID})
}

// AssignEpicTool handles assign_epic_to_user.
type AssignEpicTool struct {
	sessions *Sessions
}

// NewAssignEpicTool creates an AssignEpicTool.
func NewAssignEpicTool(sessions *Sessions) *AssignEpicTool {
	return &AssignEpicTool{sessions: sessions}
}

// Definition returns the MCP tool definition for assign_epic_to_user.
func (t *AssignEpicTool) Definition() mcp.Tool {
	return mcp.NewTool("assign_epic_to_user",
		mcp.WithDescription("Assigns an epic to a specific user."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("epic_id", mcp.Required(), mcp.Description("Epic ID")),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User to assign")),
	)
}

// Handle processes the assign_epic_to_user tool call.
func (t *AssignEpicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	epicID := intArg(req, "epic_id", 0)
	userID := intArg(req, "user_id", 0)
	if epicID == 0 || userID == 0 {
		return mcp.NewToolResultError("'epic_id' and 'user_id' are required"), nil
	}
	epic, err := c.AssignEpic(ctx, epicID, userID)
	return apiResult(epic, err)
}

// UnassignEpicTool handles unassign_epic_from_user.
type UnassignEpicTool struct {
	sessions *Sessions
}

// NewUnassignEpicTool creates an UnassignEpicTool.
func NewUnassignEpicTool(sessions *Sessions) *UnassignEpicTool {
	return &UnassignEpicTool{sessions: sessions}
}

// Definition returns the MCP tool definition for unassign_epic_from_user.
func (t *UnassignEpicTool) Definition() mcp.Tool {
	return mcp.NewTool("unassign_epic_from_user",
		mcp.WithDescription("Removes the assignee from an epic."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("epic_id", mcp.Required(), mcp.Description("Epic ID")),
	)
}

// Handle processes the unassign_epic_from_user tool call.
func (t *UnassignEpicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	epicID := intArg(req, "epic_id", 0)
	if epicID == 0 {
		return mcp.NewToolResultError("'epic_id' is required"), nil
	}
	epic, err := c.AssignEpic(ctx, epicID, 0)
	return apiResult(epic, err)
}
