package dataapi

import (
	"context"
	"fmt"
	"strings"
)

// contentDataObject is the object path of a content type's data, relative
// to sites/{siteID}
func contentDataObject(contentTypeID int) string {
	return fmt.Sprintf("contentTypes/%d/data", contentTypeID)
}

// withFields returns params with the fields selector added. The caller's map
// is not modified.
func withFields(params Params, fields []string) Params {
	if len(fields) == 0 {
		return params
	}
	out := params.clone()
	out["fields"] = strings.Join(fields, ",")
	return out
}

// ListContentData lists the data of a content type. fields limits the
// returned fields.
func (c *Client) ListContentData(ctx context.Context, siteID, contentTypeID int, params Params, fields ...string) (Result, error) {
	return c.List(ctx, contentDataObject(contentTypeID), siteID, withFields(params, fields))
}

// GetContentData retrieves a single content data object
func (c *Client) GetContentData(ctx context.Context, siteID, contentTypeID, contentDataID int, params Params, fields ...string) (Result, error) {
	return c.Get(ctx, contentDataObject(contentTypeID), siteID, contentDataID, withFields(params, fields))
}

// CreateContentData creates a content data object
func (c *Client) CreateContentData(ctx context.Context, siteID, contentTypeID int, params Params, publish bool) (Result, error) {
	return c.Create(ctx, contentDataObject(contentTypeID), siteID, params, publish, ObjectContentData)
}

// UpdateContentData updates a content data object.
//
// This goes through Create and therefore sends a POST to
// sites/{siteID}/contentTypes/{contentTypeID}/data/{contentDataID}, unlike
// UpdateEntry which sends a PUT.
func (c *Client) UpdateContentData(ctx context.Context, siteID, contentTypeID, contentDataID int, params Params, publish bool) (Result, error) {
	object := fmt.Sprintf("%s/%d", contentDataObject(contentTypeID), contentDataID)
	return c.Create(ctx, object, siteID, params, publish, ObjectContentData)
}

// DeleteContentData deletes a content data object
func (c *Client) DeleteContentData(ctx context.Context, siteID, contentTypeID, contentDataID int) (Result, error) {
	return c.Delete(ctx, contentDataObject(contentTypeID), siteID, contentDataID)
}
