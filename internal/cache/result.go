package cache

import (
	"context"
	"time"
)

// Query describes how to obtain the value cached under Key.
// A disabled query never runs and never creates an entry.
type Query[T any] struct {
	Key      Key
	Fetch    func(ctx context.Context) (T, error)
	Disabled bool
}

// NewQuery returns an enabled query.
func NewQuery[T any](key Key, fetch func(ctx context.Context) (T, error)) Query[T] {
	return Query[T]{Key: key, Fetch: fetch}
}

// DisabledQuery returns a query that is never executed.
func DisabledQuery[T any](key Key) Query[T] {
	return Query[T]{Key: key, Disabled: true}
}

// Result is a snapshot of a query's state.
// Data is shared with the cache and must be treated as read-only.
type Result[T any] struct {
	// Data is the most recent successfully fetched value, if any.
	Data *T

	// IsLoading is true when there is no value yet and a fetch is in progress.
	IsLoading bool

	// IsFetching is true whenever a fetch is in progress, including background revalidation.
	IsFetching bool

	// IsStale is true when Data is older than the query's freshness window.
	IsStale bool

	// Disabled is true when the query's inputs were empty and nothing was fetched.
	Disabled bool

	// Error is the outcome of the most recent failed fetch. It is cleared by the next success.
	Error error

	// FetchedAt is when Data was fetched.
	FetchedAt time.Time
}

// HasData reports whether the result carries a value.
func (r Result[T]) HasData() bool {
	return r.Data != nil
}

// Value returns the data, or the zero value when there is none.
func (r Result[T]) Value() T {
	if r.Data == nil {
		var zero T
		return zero
	}
	return *r.Data
}
