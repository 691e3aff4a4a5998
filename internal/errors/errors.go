// Package errors defines domain-level errors used throughout the application.
// These errors represent catalog access failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from validation failures or incorrect query parameters.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrServerNotFound indicates that the catalog has no server with the requested identifier.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotFound = errors.New("server not found")

	// ErrCatalogUnavailable indicates that the remote catalog could not be reached or answered with a failure status.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrCatalogTimeout indicates that the remote catalog did not answer within the configured timeout.
	// Recommended to map to HTTP 504 Gateway Timeout.
	ErrCatalogTimeout = errors.New("catalog request timed out")

	// ErrQueryDisabled indicates that a query was not run because its inputs were empty.
	// This is not a failure; callers should render an idle state.
	// Recommended to map to HTTP 400 Bad Request when surfaced directly.
	ErrQueryDisabled = errors.New("query disabled")
)
