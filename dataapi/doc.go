// Package dataapi provides a client for the Movable Type Data API.
//
// The Data API is a REST interface to a Movable Type installation. This
// package maps its authentication flow and its entry, content data, asset
// upload and template publishing endpoints onto a small Go client.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: connection configuration, session state and the request builder
//   - Primitives: List, Get, Search, Create, Update, Delete, Publish, UploadFile
//   - Helpers: fixed-path wrappers for entries and content data
//   - API: interface definition for testability
//   - Errors: the tagged error Result and the StatusError type
//
// # Usage
//
// Create a client, authenticate, then call resource methods:
//
//	logger := zerolog.New(os.Stderr)
//	client := dataapi.New(
//		"melody",
//		"secret",
//		"https://example.com/cgi-bin/mt/mt-data-api.cgi/v4/",
//		dataapi.WithLogger(logger),
//		dataapi.WithTimeout(30*time.Second),
//	)
//
//	ctx := context.Background()
//	token, err := client.Authenticate(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if token == "" {
//		log.Fatal("authentication failed")
//	}
//
//	result, err := client.CreateEntry(ctx, 1, dataapi.Params{"title": "Hello"}, true)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.IsError() {
//		log.Fatal(result.Message())
//	}
//
// # Error Handling
//
// There are two channels:
//
//   - A 4xx response is returned as a Result of the form
//     {"error": true, "message": "<raw HTTP response>"} with a nil error.
//   - Transport failures, 5xx responses and undecodable bodies are returned
//     as a Go error.
//
// Authenticate is the exception: an HTTP failure is logged and an empty
// token is returned. Callers must treat an empty token as failure.
//
// # Concurrency
//
// A Client holds mutable session state and performs no locking. Serialize
// calls to Authenticate and SetSession, or use one client per session.
package dataapi
