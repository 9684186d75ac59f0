package dataapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

func sitePath(siteID int, objectName string) string {
	return fmt.Sprintf("sites/%d/%s", siteID, objectName)
}

func objectPath(siteID int, objectName string, objectID int) string {
	return fmt.Sprintf("sites/%d/%s/%d", siteID, objectName, objectID)
}

func publishPath(siteID, templateID int) string {
	return fmt.Sprintf("sites/%d/templates/%d/publish", siteID, templateID)
}

// withQuery sets params as the query string, if any
func withQuery(r *resty.Request, params Params) *resty.Request {
	if len(params) > 0 {
		r.SetQueryParamsFromValues(params.values())
	}
	return r
}

// payloadForm builds the form body of create and update calls: the params
// JSON encoded under the objectType field, plus the publish flag.
func payloadForm(params Params, publish bool, objectType ObjectType) (map[string]string, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", objectType, err)
	}
	return map[string]string{
		string(objectType): string(payload),
		"publish":          stringify(publish),
	}, nil
}

// List retrieves the objects of a site. The request is unauthenticated
// unless params carries a status containing "Draft".
func (c *Client) List(ctx context.Context, objectName string, siteID int, params Params) (Result, error) {
	req := withQuery(c.http.R(), params)
	if params.WantsDraft() {
		c.authorized(req)
	}
	return c.do(ctx, req, http.MethodGet, sitePath(siteID, objectName))
}

// Get retrieves a single object without authentication
func (c *Client) Get(ctx context.Context, objectName string, siteID, objectID int, params Params) (Result, error) {
	req := withQuery(c.http.R(), params)
	return c.do(ctx, req, http.MethodGet, objectPath(siteID, objectName, objectID))
}

// Search runs a site-wide search without authentication
func (c *Client) Search(ctx context.Context, params Params) (Result, error) {
	req := withQuery(c.http.R(), params)
	return c.do(ctx, req, http.MethodGet, "search")
}

// Create posts a new object to sites/{siteID}/{objectName}
func (c *Client) Create(ctx context.Context, objectName string, siteID int, params Params, publish bool, objectType ObjectType) (Result, error) {
	form, err := payloadForm(params, publish, objectType)
	if err != nil {
		return nil, err
	}
	req := c.authorized(c.http.R()).SetFormData(form)
	return c.do(ctx, req, http.MethodPost, sitePath(siteID, objectName))
}

// Update replaces an object with a PUT to sites/{siteID}/{objectName}/{objectID}
func (c *Client) Update(ctx context.Context, objectName string, siteID, objectID int, params Params, publish bool, objectType ObjectType) (Result, error) {
	form, err := payloadForm(params, publish, objectType)
	if err != nil {
		return nil, err
	}
	req := c.authorized(c.http.R()).SetFormData(form)
	return c.do(ctx, req, http.MethodPut, objectPath(siteID, objectName, objectID))
}

// Delete removes an object
func (c *Client) Delete(ctx context.Context, objectName string, siteID, objectID int) (Result, error) {
	req := c.authorized(c.http.R())
	return c.do(ctx, req, http.MethodDelete, objectPath(siteID, objectName, objectID))
}

// Publish rebuilds the output of a template
func (c *Client) Publish(ctx context.Context, siteID, templateID int) (Result, error) {
	req := c.authorized(c.http.R())
	return c.do(ctx, req, http.MethodPost, publishPath(siteID, templateID))
}
