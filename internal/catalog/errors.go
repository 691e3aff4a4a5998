package catalog

import (
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/errors"
)

// ErrInvalidResponse is returned when the catalog answers successfully but the payload cannot be understood.
var ErrInvalidResponse = stdErrors.New("invalid catalog response")

// TransportError indicates the catalog could not be reached, or the connection failed mid-request.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog request to '%s' failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports transport failures as the catalog being unavailable.
func (e *TransportError) Is(target error) bool {
	return target == errors.ErrCatalogUnavailable
}

// TimeoutError is a TransportError caused by the request exceeding its deadline.
// errors.As with a *TransportError target matches a *TimeoutError.
type TimeoutError struct {
	TransportError
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("catalog request to '%s' timed out after %s", e.URL, e.After)
}

func (e *TimeoutError) Unwrap() error {
	return &e.TransportError
}

func (e *TimeoutError) Is(target error) bool {
	return target == errors.ErrCatalogTimeout
}

// RemoteError is returned when the catalog answers with a non-success status.
type RemoteError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("catalog returned HTTP %d for '%s'", e.StatusCode, e.URL)
}

func (e *RemoteError) Is(target error) bool {
	return target == errors.ErrCatalogUnavailable
}

// NotFoundError is returned when the catalog reports that a server does not exist.
// It is intentionally not a RemoteError so callers can distinguish "no such server" from "catalog failed".
type NotFoundError struct {
	ID  string
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("server '%s' not found in catalog", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return errors.ErrServerNotFound
}

// IsTransport reports whether err is (or wraps) a TransportError, including timeouts.
func IsTransport(err error) bool {
	var te *TransportError
	return stdErrors.As(err, &te)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return stdErrors.As(err, &te)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stdErrors.As(err, &nf)
}

// IsRemote reports whether err is (or wraps) a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return stdErrors.As(err, &re)
}
