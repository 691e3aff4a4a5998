package api

import (
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/errors"
)

// QueryResult is the API representation of a cached query's state.
// Data is present whenever a value has been fetched, even if a later refresh failed.
type QueryResult[T any] struct {
	Data       *T          `doc:"Most recent successfully fetched value"          json:"data,omitempty"`
	IsLoading  bool        `doc:"No value yet and a fetch is in progress"         json:"isLoading"`
	IsFetching bool        `doc:"A fetch is in progress"                          json:"isFetching"`
	IsStale    bool        `doc:"The value is older than its freshness window"    json:"isStale"`
	Disabled   bool        `doc:"The query had no input and was not run"          json:"disabled"`
	Error      *QueryError `doc:"Outcome of the most recent failed fetch"         json:"error,omitempty"`
	FetchedAt  *time.Time  `doc:"When the value was fetched"                      json:"fetchedAt,omitempty"`
}

// QueryError describes a failed fetch without exposing upstream details.
type QueryError struct {
	Kind    ErrorType `doc:"Error classification" example:"transport" json:"kind"`
	Message string    `doc:"Human readable error"                     json:"message"`
}

// NewQueryResult converts a cache result into its API representation.
func NewQueryResult[T any](res cache.Result[T]) QueryResult[T] {
	out := QueryResult[T]{
		Data:       res.Data,
		IsLoading:  res.IsLoading,
		IsFetching: res.IsFetching,
		IsStale:    res.IsStale,
		Disabled:   res.Disabled,
	}

	if res.Error != nil {
		out.Error = NewQueryError(res.Error)
	}

	if res.HasData() && !res.FetchedAt.IsZero() {
		fetchedAt := res.FetchedAt.UTC()
		out.FetchedAt = &fetchedAt
	}

	return out
}

// NewQueryError describes err for clients. It returns nil when err is nil.
func NewQueryError(err error) *QueryError {
	if err == nil {
		return nil
	}

	kind := ClassifyError(err)
	return &QueryError{Kind: kind, Message: errorMessage(kind)}
}

// ErrorType returns the classification of the result's error, or an empty string when it has none.
func (q QueryResult[T]) ErrorType() string {
	if q.Error == nil {
		return ""
	}
	return string(q.Error.Kind)
}

// ClassifyError maps a query error onto the kind reported to API clients.
func ClassifyError(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case stdErrors.Is(err, errors.ErrBadRequest):
		return ErrorTypeBadRequest
	case catalog.IsNotFound(err):
		return ErrorTypeNotFound
	case catalog.IsTimeout(err):
		return ErrorTypeTimeout
	case catalog.IsTransport(err):
		return ErrorTypeTransport
	case catalog.IsRemote(err):
		return ErrorTypeRemote
	case stdErrors.Is(err, catalog.ErrInvalidResponse):
		return ErrorTypeInvalidResponse
	default:
		return ErrorTypeUnknown
	}
}

func errorMessage(kind ErrorType) string {
	switch kind {
	case ErrorTypeBadRequest:
		return "The request parameters are invalid"
	case ErrorTypeNotFound:
		return "The requested server does not exist"
	case ErrorTypeTimeout:
		return "The catalog service did not respond in time"
	case ErrorTypeTransport:
		return "The catalog service could not be reached"
	case ErrorTypeRemote:
		return "The catalog service returned an error"
	case ErrorTypeInvalidResponse:
		return "The catalog service returned an unexpected response"
	default:
		return "An unexpected error occurred"
	}
}

// resultError returns the error a handler should fail with for res, or nil when res can be served.
// A result with data is always served, with its error reported in the body.
// The returned error wraps a sentinel from internal/errors so that it maps to a status code.
func resultError[T any](res cache.Result[T]) error {
	if res.Error == nil || res.HasData() {
		return nil
	}

	if ClassifyError(res.Error) == ErrorTypeInvalidResponse {
		return fmt.Errorf("%w: %w", errors.ErrCatalogUnavailable, res.Error)
	}

	return res.Error
}
