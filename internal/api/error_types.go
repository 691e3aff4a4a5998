package api

// ErrorType represents the classification of errors returned via HTTP headers.
type ErrorType string

// HeaderErrorType is the HTTP header key which should be used to convey API error types.
const HeaderErrorType = "Mcpcat-Error-Type"

const (
	// ErrorTypeTransport indicates the catalog could not be reached.
	ErrorTypeTransport ErrorType = "transport"

	// ErrorTypeTimeout indicates the catalog did not answer in time.
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeRemote indicates the catalog answered with a failure status.
	ErrorTypeRemote ErrorType = "remote"

	// ErrorTypeNotFound indicates the catalog has no such server.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeInvalidResponse indicates the catalog answered with a payload that could not be understood.
	ErrorTypeInvalidResponse ErrorType = "invalid_response"

	// ErrorTypeBadRequest indicates the request parameters were rejected before reaching the catalog.
	ErrorTypeBadRequest ErrorType = "bad_request"

	// ErrorTypeUnknown covers anything else.
	ErrorTypeUnknown ErrorType = "unknown"
)
