package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListProjectsTool handles list_projects: projects the session's user
// is a member of.
type ListProjectsTool struct {
	sessions *Sessions
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(sessions *Sessions) *ListProjectsTool {
	return &ListProjectsTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("Lists projects the authenticated user is a member of."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Active session ID from a login tool"),
		),
	)
}

// Handle processes the list_projects tool call. When the user's ID is
// unresolved the listing falls back to every visible project.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projects, err := c.ListProjects(ctx, c.UserID())
	return apiResult(projects, err)
}

// ListAllProjectsTool handles list_all_projects: every project visible
// to the session, regardless of membership.
type ListAllProjectsTool struct {
	sessions *Sessions
}

// NewListAllProjectsTool creates a ListAllProjectsTool.
func NewListAllProjectsTool(sessions *Sessions) *ListAllProjectsTool {
	return &ListAllProjectsTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_all_projects.
func (t *ListAllProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_all_projects",
		mcp.WithDescription("Lists all projects visible to the session, regardless of membership."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Active session ID"),
		),
	)
}

// Handle processes the list_all_projects tool call.
func (t *ListAllProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projects, err := c.ListProjects(ctx, 0)
	return apiResult(projects, err)
}

// GetProjectTool handles get_project.
type GetProjectTool struct {
	sessions *Sessions
}

// NewGetProjectTool creates a GetProjectTool.
func NewGetProjectTool(sessions *Sessions) *GetProjectTool {
	return &GetProjectTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_project.
func (t *GetProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project",
		mcp.WithDescription("Gets detailed information about a specific project by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_project tool call.
func (t *GetProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	project, err := c.GetProject(ctx, projectID)
	return apiResult(project, err)
}

// GetProjectBySlugTool handles get_project_by_slug.
type GetProjectBySlugTool struct {
	sessions *Sessions
}

// NewGetProjectBySlugTool creates a GetProjectBySlugTool.
func NewGetProjectBySlugTool(sessions *Sessions) *GetProjectBySlugTool {
	return &GetProjectBySlugTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_project_by_slug.
func (t *GetProjectBySlugTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_by_slug",
		mcp.WithDescription("Gets a project by its URL slug."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Project slug (e.g. 'my-project')")),
	)
}

// Handle processes the get_project_by_slug tool call.
func (t *GetProjectBySlugTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	slug := req.GetString("slug", "")
	if slug == "" {
		return mcp.NewToolResultError("'slug' is required"), nil
	}
	project, err := c.GetProjectBySlug(ctx, slug)
	return apiResult(project, err)
}

// CreateProjectTool handles create_project.
type CreateProjectTool struct {
	sessions *Sessions
}

// NewCreateProjectTool creates a CreateProjectTool.
func NewCreateProjectTool(sessions *Sessions) *CreateProjectTool {
	return &CreateProjectTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_project.
func (t *CreateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Creates a new project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Project description")),
		mcp.WithString("fields",
			mcp.Description("Optional extra fields as a JSON object (e.g. {\"is_private\": true})"),
		),
	)
}

// Handle processes the create_project tool call.
func (t *CreateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	name := req.GetString("name", "")
	description := req.GetString("description", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	extra, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	project, err := c.CreateProject(ctx, name, description, extra)
	return apiResult(project, err)
}

// UpdateProjectTool handles update_project.
type UpdateProjectTool struct {
	sessions *Sessions
}

// NewUpdateProjectTool creates an UpdateProjectTool.
func NewUpdateProjectTool(sessions *Sessions) *UpdateProjectTool {
	return &UpdateProjectTool{sessions: sessions}
}

// Definition returns the MCP tool definition for update_project.
func (t *UpdateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("update_project",
		mcp.WithDescription("Updates details of an existing project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Fields to update as a JSON object (e.g. {\"name\": \"New Name\"})"),
		),
	)
}

// Handle processes the update_project tool call.
func (t *UpdateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	patch, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	if len(patch) == 0 {
		return mcp.NewToolResultError("no fields provided for update"), nil
	}
	project, err := c.UpdateProject(ctx, projectID, patch)
	return apiResult(project, err)
}

// DeleteProjectTool handles delete_project.
type DeleteProjectTool struct {
	sessions *Sessions
}

// NewDeleteProjectTool creates a DeleteProjectTool.
func NewDeleteProjectTool(sessions *Sessions) *DeleteProjectTool {
	return &DeleteProjectTool{sessions: sessions}
}

// Definition returns the MCP tool definition for delete_project.
func (t *DeleteProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_project",
		mcp.WithDescription("Deletes a project by its ID. This is irreversible."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the delete_project tool call.
func (t *DeleteProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	if err := c.DeleteProject(ctx, projectID); err != nil {
		return apiResult(nil, err)
	}
	return jsonResult(map[string]any{"status": "deleted", "project_id": projectID})
}

// ProjectMembersTool handles get_project_members.
type ProjectMembersTool struct {
	sessions *Sessions
}

// NewProjectMembersTool creates a ProjectMembersTool.
func NewProjectMembersTool(sessions *Sessions) *ProjectMembersTool {
	return &ProjectMembersTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_project_members.
func (t *ProjectMembersTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_members",
		mcp.WithDescription("Lists members of a specific project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_project_members tool call.
func (t *ProjectMembersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	members, err := c.ListMemberships(ctx, projectID)
	return apiResult(members, err)
}

// InviteProjectUserTool handles invite_project_user.
type InviteProjectUserTool struct {
	sessions *Sessions
}

// NewInviteProjectUserTool creates an InviteProjectUserTool.
func NewInviteProjectUserTool(sessions *Sessions) *InviteProjectUserTool {
	return &InviteProjectUserTool{sessions: sessions}
}

// Definition returns the MCP tool definition for invite_project_user.
func (t *InviteProjectUserTool) Definition() mcp.Tool {
	return mcp.NewTool("invite_project_user",
		mcp.WithDescription("Invites a user to a project by email with a given role."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Email address to invite")),
		mcp.WithNumber("role_id", mcp.Required(), mcp.Description("Role ID for the new member")),
	)
}

// Handle processes the invite_project_user tool call.
func (t *InviteProjectUserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	email := req.GetString("email", "")
	roleID := intArg(req, "role_id", 0)
	if projectID == 0 || email == "" || roleID == 0 {
		return mcp.NewToolResultError("'project_id', 'email' and 'role_id' are required"), nil
	}
	invitation, err := c.CreateMembership(ctx, projectID, email, roleID)
	return apiResult(invitation, err)
}
