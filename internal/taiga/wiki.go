package taiga

import (
	"context"
	"fmt"
)

// ListWikiPages lists the wiki pages of a project.
func (c *Client) ListWikiPages(ctx context.Context, projectID int) ([]map[string]any, error) {
	return c.listObjects(ctx, "/wiki", projectQuery(projectID, nil))
}

// CreateWikiPage creates a wiki page under the given slug. Pages show
// up in the all-pages view; bookmarking is a manual step in the UI.
func (c *Client) CreateWikiPage(ctx context.Context, projectID int, slug, content string, extra map[string]any) (map[string]any, error) {
	fields := map[string]any{"project": projectID, "slug": slug, "content": content}
	for k, v := range extra {
		fields[k] = v
	}
	return c.createObject(ctx, "/wiki", fields)
}

// GetWikiPage fetches a wiki page by ID.
func (c *Client) GetWikiPage(ctx context.Context, pageID int) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("/wiki/%d", pageID))
}

// UpdateWikiPage applies a partial update to a wiki page.
func (c *Client) UpdateWikiPage(ctx context.Context, pageID int, patch map[string]any) (map[string]any, error) {
	return c.editObject(ctx, fmt.Sprintf("/wiki/%d", pageID), patch)
}

// DeleteWikiPage removes a wiki page.
func (c *Client) DeleteWikiPage(ctx context.Context, pageID int) error {
	return c.deleteObject(ctx, fmt.Sprintf("/wiki/%d", pageID))
}

// CreateWikiAttachment uploads the file at filePath as an attachment
// on a wiki page.
func (c *Client) CreateWikiAttachment(ctx context.Context, projectID, pageID int, filePath, description string) (map[string]any, error) {
	return c.createAttachment(ctx, "/wiki/attachments", projectID, pageID, filePath, description)
}

// ListWikiAttachments lists the attachments of a wiki page.
func (c *Client) ListWikiAttachments(ctx context.Context, projectID, pageID int) ([]map[string]any, error) {
	return c.listAttachments(ctx, "/wiki/attachments", projectID, pageID)
}
