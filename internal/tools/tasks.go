package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListTasksTool handles list_tasks.
type ListTasksTool struct {
	sessions *Sessions
}

// NewListTasksTool creates a ListTasksTool.
func NewListTasksTool(sessions *Sessions) *ListTasksTool {
	return &ListTasksTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_tasks.
func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("Lists tasks within a specific project, optionally filtered."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("filters",
			mcp.Description("Optional filters as a JSON object (e.g. {\"user_story\": 12, \"status\": 1})"),
		),
	)
}

// Handle processes the list_tasks tool call.
func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	tasks, err := c.ListTasks(ctx, projectID, filters)
	return apiResult(tasks, err)
}

// CreateTaskTool handles create_task.
type CreateTaskTool struct {
	sessions *Sessions
}

// NewCreateTaskTool creates a CreateTaskTool.
func NewCreateTaskTool(sessions *Sessions) *CreateTaskTool {
	return &CreateTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_task.
func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription("Creates a new task within a project, optionally linked to a user story."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("fields",
			mcp.Description("Optional extra fields as a JSON object (user_story, description, milestone, ...)"),
		),
	)
}

// Handle processes the create_task tool call.
func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	task, err := c.CreateTask(ctx, projectID, subject, extra)
	return apiResult(task, err)
}

// GetTaskTool handles get_task.
type GetTaskTool struct {
	sessions *Sessions
}

// NewGetTaskTool creates a GetTaskTool.
func NewGetTaskTool(sessions *Sessions) *GetTaskTool {
	return &GetTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_task.
func (t *GetTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("get_task",
		mcp.WithDescription("Gets detailed information about a specific task by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
	)
}

// Handle processes the get_task tool call.
func (t *GetTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	task, err := c.GetTask(ctx, taskID)
	return apiResult(task, err)
}

// GetTaskByRefTool handles get_task_by_ref.
type GetTaskByRefTool struct {
	sessions *Sessions
}

// NewGetTaskByRefTool creates a GetTaskByRefTool.
func NewGetTaskByRefTool(sessions *Sessions) *GetTaskByRefTool {
	return &GetTaskByRefTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_task_by_ref.
func (t *GetTaskByRefTool) Definition() mcp.Tool {
	return mcp.NewTool("get_task_by_ref",
		mcp.WithDescription("Gets a task by its per-project reference number."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithNumber("ref", mcp.Required(), mcp.Description("Task reference number")),
	)
}

// Handle processes the get_task_by_ref tool call.
func (t *GetTaskByRefTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	ref := intArg(req, "ref", 0)
	if projectID == 0 || ref == 0 {
		return mcp.NewToolResultError("'project_id' and 'ref' are required"), nil
	}
	task, err := c.GetTaskByRef(ctx, projectID, ref)
	return apiResult(task, err)
}

// UpdateTaskTool handles update_task.
type UpdateTaskTool struct {
	sessions *Sessions
}

// NewUpdateTaskTool creates an UpdateTaskTool.
func NewUpdateTaskTool(sessions *Sessions) *UpdateTaskTool {
	return &UpdateTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for update_task.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription("Updates details of an existing task."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Fields to update as a JSON object (e.g. {\"status\": 2})"),
		),
	)
}

// Handle processes the update_task tool call.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	patch, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	if len(patch) == 0 {
		return mcp.NewToolResultError("no fields provided for update"), nil
	}
	task, err := c.UpdateTask(ctx, taskID, patch)
	return apiResult(task, err)
}

// DeleteTaskTool handles delete_task.
type DeleteTaskTool struct {
	sessions *Sessions
}

// NewDeleteTaskTool creates a DeleteTaskTool.
func NewDeleteTaskTool(sessions *Sessions) *DeleteTaskTool {
	return &DeleteTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for delete_task.
func (t *DeleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Deletes a task by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
	)
}

// Handle processes the delete_task tool call.
func (t *DeleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	if err := c.DeleteTask(ctx, taskID); err != nil {
		return apiResult(nil, err)
	}
	return jsonResult(map[string]any{"status": "deleted", "task_id": taskID})
}

// AssignTaskTool handles assign_task_to_user.
type AssignTaskTool struct {
	sessions *Sessions
}

// NewAssignTaskTool creates an AssignTaskTool.
func NewAssignTaskTool(sessions *Sessions) *AssignTaskTool {
	return &AssignTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for assign_task_to_user.
func (t *AssignTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("assign_task_to_user",
		mcp.WithDescription("Assigns a task to a specific user."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User to assign")),
	)
}

// Handle processes the assign_task_to_user tool call.
func (t *AssignTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	userID := intArg(req, "user_id", 0)
	if taskID == 0 || userID == 0 {
		return mcp.NewToolResultError("'task_id' and 'user_id' are required"), nil
	}
	task, err := c.AssignTask(ctx, taskID, userID)
	return apiResult(task, err)
}

// UnassignTaskTool handles unassign_task_from_user.
type UnassignTaskTool struct {
	sessions *Sessions
}

// NewUnassignTaskTool creates an UnassignTaskTool.
func NewUnassignTaskTool(sessions *Sessions) *UnassignTaskTool {
	return &UnassignTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for unassign_task_from_user.
func (t *UnassignTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("unassign_task_from_user",
		mcp.WithDescription("Removes the assignee from a task."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
	)
}

// Handle processes the unassign_task_from_user tool call.
func (t *UnassignTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	task, err := c.AssignTask(ctx, taskID, 0)
	return apiResult(task, err)
}

// UpvoteTaskTool handles upvote_task.
type UpvoteTaskTool struct {
	sessions *Sessions
}

// NewUpvoteTaskTool creates an UpvoteTaskTool.
func NewUpvoteTaskTool(sessions *Sessions) *UpvoteTaskTool {
	return &UpvoteTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for upvote_task.
func (t *UpvoteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("upvote_task",
		mcp.WithDescription("Adds your vote to a task."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
	)
}

// Handle processes the upvote_task tool call.
func (t *UpvoteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	out, err := c.UpvoteTask(ctx, taskID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		// Taiga answers these action endpoints with an empty body.
		return jsonResult(map[string]any{"status": "upvoted", "task_id": taskID})
	}
	return jsonResult(out)
}

// DownvoteTaskTool handles downvote_task.
type DownvoteTaskTool struct {
	sessions *Sessions
}

// NewDownvoteTaskTool creates a DownvoteTaskTool.
func NewDownvoteTaskTool(sessions *Sessions) *DownvoteTaskTool {
	return &DownvoteTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for downvote_task.
func (t *DownvoteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("downvote_task",
		mcp.WithDescription("Removes your vote from a task."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
	)
}

// Handle processes the downvote_task tool call.
func (t *DownvoteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	out, err := c.DownvoteTask(ctx, taskID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		return jsonResult(map[string]any{"status": "downvoted", "task_id": taskID})
	}
	return jsonResult(out)
}

// WatchTaskTool handles watch_task.
type WatchTaskTool struct {
	sessions *Sessions
}

// NewWatchTaskTool creates a WatchTaskTool.
func NewWatchTaskTool(sessions *Sessions) *WatchTaskTool {
	return &WatchTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for watch_task.
func (t *WatchTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("watch_task",
		mcp.WithDescription("Subscribes you to change notifications for a task."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
	)
}

// Handle processes the watch_task tool call.
func (t *WatchTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	out, err := c.WatchTask(ctx, taskID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		return jsonResult(map[string]any{"status": "watching", "task_id": taskID})
	}
	return jsonResult(out)
}

// UnwatchTaskTool handles unwatch_task.
type UnwatchTaskTool struct {
	sessions *Sessions
}

// NewUnwatchTaskTool creates an UnwatchTaskTool.
func NewUnwatchTaskTool(sessions *Sessions) *UnwatchTaskTool {
	return &UnwatchTaskTool{sessions: sessions}
}

// Definition returns the MCP tool definition for unwatch_task.
func (t *UnwatchTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("unwatch_task",
		mcp.WithDescription("Unsubscribes you from change notifications for a task."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task ID")),
	)
}

// Handle processes the unwatch_task tool call.
func (t *UnwatchTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	taskID := intArg(req, "task_id", 0)
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	out, err := c.UnwatchTask(ctx, taskID)
	if err != nil {
		return apiResult(nil, err)
	}
	if out == nil {
		return jsonResult(map[string]any{"status": "unwatched", "task_id": taskID})
	}
	return jsonResult(out)
}

// TaskStatusesTool handles get_task_statuses.
type TaskStatusesTool struct {
	sessions *Sessions
}

// NewTaskStatusesTool creates a TaskStatusesTool.
func NewTaskStatusesTool(sessions *Sessions) *TaskStatusesTool {
	return &TaskStatusesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_task_statuses.
func (t *TaskStatusesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_task_statuses",
		mcp.WithDescription("Lists the task statuses configured for a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the get_task_statuses tool call.
func (t *TaskStatusesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	statuses, err := c.ListTaskStatuses(ctx, projectID)
	return apiResult(statuses, err)
}
