package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListUserStoriesTool handles list_user_stories.
type ListUserStoriesTool struct {
	sessions *Sessions
}

// NewListUserStoriesTool creates a ListUserStoriesTool.
func NewListUserStoriesTool(sessions *Sessions) *ListUserStoriesTool {
	return &ListUserStoriesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_user_stories.
func (t *ListUserStoriesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_user_stories",
		mcp.WithDescription("Lists user stories within a specific project, optionally filtered."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("filters",
			mcp.Description("Optional filters as a JSON object (e.g. {\"milestone\": 4, \"status\": 2})"),
		),
	)
}

// Handle processes the list_user_stories tool call.
func (t *ListUserStoriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	stories, err := c.ListUserStories(ctx, projectID, filters)
	return apiResult(stories, err)
}

// CreateUserStoryTool handles create_user_story.
type CreateUserStoryTool struct {
	sessions *Sessions
}

// NewCreateUserStoryTool creates a CreateUserStoryTool.
func NewCreateUserStoryTool(sessions *Sessions) *CreateUserStoryTool {
	return &CreateUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_user_story.
func (t *CreateUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("create_user_story",
		mcp.WithDescription("Creates a new user story within a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Story title")),
		mcp.WithString("fields",
			mcp.Description("Optional extra fields as a JSON object (description, milestone, status, ...)"),
		),
	)
}

// Handle processes the create_user_story tool call.
func (t *CreateUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	story, err := c.CreateUserStory(ctx, projectID, subject, extra)
	return apiResult(story, err)
}

// GetUserStoryTool handles get_user_story.
type GetUserStoryTool struct {
	sessions *Sessions
}

// NewGetUserStoryTool creates a GetUserStoryTool.
func NewGetUserStoryTool(sessions *Sessions) *GetUserStoryTool {
	return &GetUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_user_story.
func (t *GetUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_user_story",
		mcp.WithDescription("Gets detailed information about a specific user story by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
	)
}

// Handle processes the get_user_story tool call.
func (t *GetUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	story, err := c.GetUserStory(ctx, storyID)
	return apiResult(story, err)
}

// GetUserStoryByRefTool handles get_user_story_by_ref.
type GetUserStoryByRefTool struct {
	sessions *Sessions
}

// NewGetUserStoryByRefTool creates a GetUserStoryByRefTool.
func NewGetUserStoryByRefTool(sessions *Sessions) *GetUserStoryByRefTool {
	return &GetUserStoryByRefTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_user_story_by_ref.
func (t *GetUserStoryByRefTool) Definition() mcp.Tool {
	return mcp.NewTool("get_user_story_by_ref",
		mcp.WithDescription("Gets a user story by its per-project reference number (the #N in the UI)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithNumber("ref", mcp.Required(), mcp.Description("Story reference number")),
	)
}

// Handle processes the get_user_story_by_ref tool call.
func (t *GetUserStoryByRefTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	ref := intArg(req, "ref", 0)
	if projectID == 0 || ref == 0 {
		return mcp.NewToolResultError("'project_id' and 'ref' are required"), nil
	}
	story, err := c.GetUserStoryByRef(ctx, projectID, ref)
	return apiResult(story, err)
}

// UpdateUserStoryTool handles update_user_story.
type UpdateUserStoryTool struct {
	sessions *Sessions
}

// NewUpdateUserStoryTool creates an UpdateUserStoryTool.
func NewUpdateUserStoryTool(sessions *Sessions) *UpdateUserStoryTool {
	return &UpdateUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for update_user_story.
func (t *UpdateUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("update_user_story",
		mcp.WithDescription("Updates details of an existing user story."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Fields to update as a JSON object (e.g. {\"subject\": \"New Title\", \"status\": 3})"),
		),
	)
}

// Handle processes the update_user_story tool call.
func (t *UpdateUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	patch, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	if len(patch) == 0 {
		return mcp.NewToolResultError("no fields provided for update"), nil
	}
	story, err := c.UpdateUserStory(ctx, storyID, patch)
	return apiResult(story, err)
}

// DeleteUserStoryTool handles delete_user_story.
type DeleteUserStoryTool struct {
	sessions *Sessions
}

// NewDeleteUserStoryTool creates a DeleteUserStoryTool.
func NewDeleteUserStoryTool(sessions *Sessions) *DeleteUserStoryTool {
	return &DeleteUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for delete_user_story.
func (t *DeleteUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_user_story",
		mcp.WithDescription("Deletes a user story by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
	)
}

// Handle processes the delete_user_story tool call.
func (t *DeleteUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	if err := c.DeleteUserStory(ctx, storyID); err != nil {
		return apiResult(nil, err)
	}
	return jsonResult(map[string]any{"status": "deleted", "user_story_id": storyID})
}

// AssignUserStoryTool handles assign_user_story_to_user.
type AssignUserStoryTool struct {
	sessions *Sessions
}

// NewAssignUserStoryTool creates an AssignUserStoryTool.
func NewAssignUserStoryTool(sessions *Sessions) *AssignUserStoryTool {
	return &AssignUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for assign_user_story_to_user.
func (t *AssignUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("assign_user_story_to_user",
		mcp.WithDescription("Assigns a user story to a specific user."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User to assign")),
	)
}

// Handle processes the assign_user_story_to_user tool call.
func (t *AssignUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	userID := intArg(req, "user_id", 0)
	if storyID == 0 || userID == 0 {
		return mcp.NewToolResultError("'user_story_id' and 'user_id' are required"), nil
	}
	story, err := c.AssignUserStory(ctx, storyID, userID)
	return apiResult(story, err)
}

// UnassignUserStoryTool handles unassign_user_story_from_user.
type UnassignUserStoryTool struct {
	sessions *Sessions
}

// NewUnassignUserStoryTool creates an UnassignUserStoryTool.
func NewUnassignUserStoryTool(sessions *Sessions) *UnassignUserStoryTool {
	return &UnassignUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for unassign_user_story_from_user.
func (t *UnassignUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("unassign_user_story_from_user",
		mcp.WithDescription("Removes the assignee from a user story."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
	)
}

// Handle processes the unassign_user_story_from_user tool call.
func (t *UnassignUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	story, err := c.AssignUserStory(ctx, storyID, 0)
	return apiResult(story, err)
}

// UpvoteUserStoryTool handles upvote_user_story.
type UpvoteUserStoryTool struct {
	sessions *Sessions
}

// NewUpvoteUserStoryTool creates an UpvoteUserStoryTool.
func NewUpvoteUserStoryTool(sessions *Sessions) *UpvoteUserStoryTool {
	return &UpvoteUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for upvote_user_story.
func (t *UpvoteUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("upvote_user_story",
		mcp.WithDescription("Adds your vote to a user story."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
	)
}

// Handle processes the upvote_user_story tool call.
func (t *UpvoteUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	out, err := c.UpvoteUserStory(ctx, storyID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		// Taiga answers these action endpoints with an empty body.
		return jsonResult(map[string]any{"status": "upvoted", "user_story_id": storyID})
	}
	return jsonResult(out)
}

// DownvoteUserStoryTool handles downvote_user_story.
type DownvoteUserStoryTool struct {
	sessions *Sessions
}

// NewDownvoteUserStoryTool creates a DownvoteUserStoryTool.
func NewDownvoteUserStoryTool(sessions *Sessions) *DownvoteUserStoryTool {
	return &DownvoteUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for downvote_user_story.
func (t *DownvoteUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("downvote_user_story",
		mcp.WithDescription("Removes your vote from a user story."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
	)
}

// Handle processes the downvote_user_story tool call.
func (t *DownvoteUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	out, err := c.DownvoteUserStory(ctx, storyID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		return jsonResult(map[string]any{"status": "downvoted", "user_story_id": storyID})
	}
	return jsonResult(out)
}

// WatchUserStoryTool handles watch_user_story.
type WatchUserStoryTool struct {
	sessions *Sessions
}

// NewWatchUserStoryTool creates a WatchUserStoryTool.
func NewWatchUserStoryTool(sessions *Sessions) *WatchUserStoryTool {
	return &WatchUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for watch_user_story.
func (t *WatchUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("watch_user_story",
		mcp.WithDescription("Subscribes you to change notifications for a user story."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
	)
}

// Handle processes the watch_user_story tool call.
func (t *WatchUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	out, err := c.WatchUserStory(ctx, storyID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		return jsonResult(map[string]any{"status": "watching", "user_story_id": storyID})
	}
	return jsonResult(out)
}

// UnwatchUserStoryTool handles unwatch_user_story.
type UnwatchUserStoryTool struct {
	sessions *Sessions
}

// NewUnwatchUserStoryTool creates an UnwatchUserStoryTool.
func NewUnwatchUserStoryTool(sessions *Sessions) *UnwatchUserStoryTool {
	return &UnwatchUserStoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for unwatch_user_story.
func (t *UnwatchUserStoryTool) Definition() mcp.Tool {
	return mcp.NewTool("unwatch_user_story",
		mcp.WithDescription("Unsubscribes you from change notifications for a user story."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("user_story_id", mcp.Required(), mcp.Description("User story ID")),
	)
}

// Handle processes the unwatch_user_story tool call.
func (t *UnwatchUserStoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	storyID := intArg(req, "user_story_id", 0)
	if storyID == 0 {
		return mcp.NewToolResultError("'user_story_id' is required"), nil
	}
	out, err := c.UnwatchUserStory(ctx, storyID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		return jsonResult(map[string]any{"status": "unwatched", "user_story_id": storyID})
	}
	return jsonResult(out)
}

// UserStoryStatusesTool handles get_user_story_statuses.
type UserStoryStatusesTool struct {
	sessions *Sessions
}

// NewUserStoryStatusesTool creates a UserStoryStatusesTool.
func NewUserStoryStatusesTool(sessions *Sessions) *UserStoryStatusesTool {
	return &UserStoryStatusesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_user_story_statuses.
func (t *UserStoryStatusesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_user_story_statuses",
		mcp.WithDescription("Lists the user story statuses configured for a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_user_story_statuses tool call.
func (t *UserStoryStatusesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	statuses, err := c.ListUserStoryStatuses(ctx, projectID)
	return apiResult(statuses, err)
}
