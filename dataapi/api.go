package dataapi

import (
	"context"
)

// API defines the interface for Data API operations
type API interface {
	// Authenticate signs in and stores the returned session
	Authenticate(ctx context.Context) (string, error)

	// GetToken exchanges the session id for a fresh access token
	GetToken(ctx context.Context) (Result, error)

	List(ctx context.Context, objectName string, siteID int, params Params) (Result, error)
	Get(ctx context.Context, objectName string, siteID, objectID int, params Params) (Result, error)
	Search(ctx context.Context, params Params) (Result, error)
	Create(ctx context.Context, objectName string, siteID int, params Params, publish bool, objectType ObjectType) (Result, error)
	Update(ctx context.Context, objectName string, siteID, objectID int, params Params, publish bool, objectType ObjectType) (Result, error)
	Delete(ctx context.Context, objectName string, siteID, objectID int) (Result, error)
	Publish(ctx context.Context, siteID, templateID int) (Result, error)

	// UploadFile sends an asset as multipart/form-data
	UploadFile(ctx context.Context, params Params, overwriteOnce bool) (Result, error)

	ListEntries(ctx context.Context, siteID int, params Params) (Result, error)
	GetEntry(ctx context.Context, siteID, entryID int, params Params) (Result, error)
	CreateEntry(ctx context.Context, siteID int, params Params, publish bool) (Result, error)
	UpdateEntry(ctx context.Context, siteID, entryID int, params Params, publish bool) (Result, error)
	DeleteEntry(ctx context.Context, siteID, entryID int) (Result, error)

	ListContentData(ctx context.Context, siteID, contentTypeID int, params Params, fields ...string) (Result, error)
	GetContentData(ctx context.Context, siteID, contentTypeID, contentDataID int, params Params, fields ...string) (Result, error)
	CreateContentData(ctx context.Context, siteID, contentTypeID int, params Params, publish bool) (Result, error)
	UpdateContentData(ctx context.Context, siteID, contentTypeID, contentDataID int, params Params, publish bool) (Result, error)
	DeleteContentData(ctx context.Context, siteID, contentTypeID, contentDataID int) (Result, error)
}

var _ API = (*Client)(nil)
