package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListWikiPagesTool handles list_wiki_pages.
type ListWikiPagesTool struct {
	sessions *Sessions
}

// NewListWikiPagesTool creates a ListWikiPagesTool.
func NewListWikiPagesTool(sessions *Sessions) *ListWikiPagesTool {
	return &ListWikiPagesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_wiki_pages.
func (t *ListWikiPagesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_wiki_pages",
		mcp.WithDescription("Lists wiki pages within a specific project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
	)
}

// Handle processes the list_wiki_pages tool call.
func (t *ListWikiPagesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	if projectID == 0 {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	pages, err := c.ListWikiPages(ctx, projectID)
	return apiResult(pages, err)
}

// CreateWikiPageTool handles create_wiki_page.
type CreateWikiPageTool struct {
	sessions *Sessions
}

// NewCreateWikiPageTool creates a CreateWikiPageTool.
func NewCreateWikiPageTool(sessions *Sessions) *CreateWikiPageTool {
	return &CreateWikiPageTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_wiki_page.
func (t *CreateWikiPageTool) Definition() mcp.Tool {
	return mcp.NewTool("create_wiki_page",
		mcp.WithDescription("Creates a new wiki page within a project."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Page slug (e.g. 'home')")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Page content in Markdown")),
		mcp.WithString("fields",
			mcp.Description("Optional extra fields as a JSON object"),
		),
	)
}

// Handle processes the create_wiki_page tool call.
func (t *CreateWikiPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	slug := req.GetString("slug", "")
	content := req.GetString("content", "")
	if projectID == 0 || slug == "" || content == "" {
		return mcp.NewToolResultError("'project_id', 'slug' and 'content' are required"), nil
	}
	extra, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	page, err := c.CreateWikiPage(ctx, projectID, slug, content, extra)
	return apiResult(page, err)
}

// GetWikiPageTool handles get_wiki_page.
type GetWikiPageTool struct {
	sessions *Sessions
}

// NewGetWikiPageTool creates a GetWikiPageTool.
func NewGetWikiPageTool(sessions *Sessions) *GetWikiPageTool {
	return &GetWikiPageTool{sessions: sessions}
}

// Definition returns the MCP tool definition for get_wiki_page.
func (t *GetWikiPageTool) Definition() mcp.Tool {
	return mcp.NewTool("get_wiki_page",
		mcp.WithDescription("Gets a specific wiki page by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("page_id", mcp.Required(), mcp.Description("Wiki page ID")),
	)
}

// Handle processes the get_wiki_page tool call.
func (t *GetWikiPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	pageID := intArg(req, "page_id", 0)
	if pageID == 0 {
		return mcp.NewToolResultError("'page_id' is required"), nil
	}
	page, err := c.GetWikiPage(ctx, pageID)
	return apiResult(page, err)
}

// UpdateWikiPageTool handles update_wiki_page.
type UpdateWikiPageTool struct {
	sessions *Sessions
}

// NewUpdateWikiPageTool creates an UpdateWikiPageTool.
func NewUpdateWikiPageTool(sessions *Sessions) *UpdateWikiPageTool {
	return &UpdateWikiPageTool{sessions: sessions}
}

// Definition returns the MCP tool definition for update_wiki_page.
func (t *UpdateWikiPageTool) Definition() mcp.Tool {
	return mcp.NewTool("update_wiki_page",
		mcp.WithDescription("Updates the content or fields of an existing wiki page."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("page_id", mcp.Required(), mcp.Description("Wiki page ID")),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description("Fields to update as a JSON object (e.g. {\"content\": \"# Updated\"})"),
		),
	)
}

// Handle processes the update_wiki_page tool call.
func (t *UpdateWikiPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	pageID := intArg(req, "page_id", 0)
	if pageID == 0 {
		return mcp.NewToolResultError("'page_id' is required"), nil
	}
	patch, errRes := fieldsArg(req, "fields")
	if errRes != nil {
		return errRes, nil
	}
	if len(patch) == 0 {
		return mcp.NewToolResultError("no fields provided for update"), nil
	}
	page, err := c.UpdateWikiPage(ctx, pageID, patch)
	return apiResult(page, err)
}

// DeleteWikiPageTool handles delete_wiki_page.
type DeleteWikiPageTool struct {
	sessions *Sessions
}

// NewDeleteWikiPageTool creates a DeleteWikiPageTool.
func NewDeleteWikiPageTool(sessions *Sessions) *DeleteWikiPageTool {
	return &DeleteWikiPageTool{sessions: sessions}
}

// Definition returns the MCP tool definition for delete_wiki_page.
func (t *DeleteWikiPageTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_wiki_page",
		mcp.WithDescription("Deletes a wiki page by its ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("page_id", mcp.Required(), mcp.Description("Wiki page ID")),
	)
}

// Handle processes the delete_wiki_page tool call.
func (t *DeleteWikiPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	pageID := intArg(req, "page_id", 0)
	if pageID == 0 {
		return mcp.NewToolResultError("'page_id' is required"), nil
	}
	if err := c.DeleteWikiPage(ctx, pageID); err != nil {
		return apiResult(nil, err)
	}
	return jsonResult(map[string]any{"status": "deleted", "page_id": pageID})
}

// CreateWikiAttachmentTool handles create_wiki_attachment.
type CreateWikiAttachmentTool struct {
	sessions *Sessions
}

// NewCreateWikiAttachmentTool creates a CreateWikiAttachmentTool.
func NewCreateWikiAttachmentTool(sessions *Sessions) *CreateWikiAttachmentTool {
	return &CreateWikiAttachmentTool{sessions: sessions}
}

// Definition returns the MCP tool definition for create_wiki_attachment.
func (t *CreateWikiAttachmentTool) Definition() mcp.Tool {
	return mcp.NewTool("create_wiki_attachment",
		mcp.WithDescription("Uploads a local file as an attachment on a wiki page."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithNumber("wiki_page_id", mcp.Required(), mcp.Description("Wiki page ID")),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path of the file to upload")),
		mcp.WithString("description", mcp.Description("Optional attachment description")),
	)
}

// Handle processes the create_wiki_attachment tool call.
func (t *CreateWikiAttachmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	pageID := intArg(req, "wiki_page_id", 0)
	filePath := req.GetString("file_path", "")
	if projectID == 0 || pageID == 0 || filePath == "" {
		return mcp.NewToolResultError("'project_id', 'wiki_page_id' and 'file_path' are required"), nil
	}
	// An unreadable path is the caller's mistake, not a transport
	// failure.
	if _, err := os.Stat(filePath); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read attachment file: %v", err)), nil
	}
	description := req.GetString("description", "")
	attachment, err := c.CreateWikiAttachment(ctx, projectID, pageID, filePath, description)
	return apiResult(attachment, err)
}

// ListWikiAttachmentsTool handles list_wiki_attachments.
type ListWikiAttachmentsTool struct {
	sessions *Sessions
}

// NewListWikiAttachmentsTool creates a ListWikiAttachmentsTool.
func NewListWikiAttachmentsTool(sessions *Sessions) *ListWikiAttachmentsTool {
	return &ListWikiAttachmentsTool{sessions: sessions}
}

// Definition returns the MCP tool definition for list_wiki_attachments.
func (t *ListWikiAttachmentsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_wiki_attachments",
		mcp.WithDescription("Lists the attachments of a wiki page."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session ID")),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithNumber("wiki_page_id", mcp.Required(), mcp.Description("Wiki page ID")),
	)
}

// Handle processes the list_wiki_attachments tool call.
func (t *ListWikiAttachmentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := client(t.sessions, req)
	if errRes != nil {
		return errRes, nil
	}
	projectID := intArg(req, "project_id", 0)
	pageID := intArg(req, "wiki_page_id", 0)
	if projectID == 0 || pageID == 0 {
		return mcp.NewToolResultError("'project_id' and 'wiki_page_id' are required"), nil
	}
	attachments, err := c.ListWikiAttachments(ctx, projectID, pageID)
	return apiResult(attachments, err)
}
