package dataapi

import "context"

const entriesObject = "entries"

// ListEntries lists the entries of a site
func (c *Client) ListEntries(ctx context.Context, siteID int, params Params) (Result, error) {
	return c.List(ctx, entriesObject, siteID, params)
}

// GetEntry retrieves a single entry
func (c *Client) GetEntry(ctx context.Context, siteID, entryID int, params Params) (Result, error) {
	return c.Get(ctx, entriesObject, siteID, entryID, params)
}

// CreateEntry creates an entry, published immediately when publish is true
func (c *Client) CreateEntry(ctx context.Context, siteID int, params Params, publish bool) (Result, error) {
	return c.Create(ctx, entriesObject, siteID, params, publish, ObjectEntry)
}

// UpdateEntry updates an entry
func (c *Client) UpdateEntry(ctx context.Context, siteID, entryID int, params Params, publish bool) (Result, error) {
	return c.Update(ctx, entriesObject, siteID, entryID, params, publish, ObjectEntry)
}

// DeleteEntry deletes an entry
func (c *Client) DeleteEntry(ctx context.Context, siteID, entryID int) (Result, error) {
	return c.Delete(ctx, entriesObject, siteID, entryID)
}
