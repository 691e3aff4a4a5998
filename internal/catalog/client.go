// Package catalog provides a typed client for the remote MCP server catalog service.
package catalog

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// MaxResponseSize is the largest successful response body the client will read (10MB).
	MaxResponseSize = 10 * 1024 * 1024

	// maxErrorBodySize caps how much of a failed response body is logged and reported.
	maxErrorBodySize = 1024

	apiPrefix = "/v0"
)

// Client performs read-only requests against the catalog service.
// NewClient should be used to create instances of Client.
// The client never retries; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	schemas    schemaSet
	logger     hclog.Logger
}

// NewClient creates a catalog client.
func NewClient(logger hclog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	o, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	var schemas schemaSet
	if o.validate {
		if schemas, err = loadSchemas(); err != nil {
			return nil, err
		}
	}

	return &Client{
		baseURL:    o.baseURL,
		httpClient: o.httpClient,
		timeout:    o.timeout,
		userAgent:  o.userAgent,
		schemas:    schemas,
		logger:     logger.Named("catalog"),
	}, nil
}

// BaseURL returns the catalog service URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListServers fetches one page of servers.
// Only the limit and cursor of filters are sent; other fields are applied client-side.
func (c *Client) ListServers(ctx context.Context, filters SearchFilters) (ServerListResult, error) {
	if err := filters.Validate(); err != nil {
		return ServerListResult{}, err
	}

	q := url.Values{}
	if filters.Limit > 0 {
		q.Set("limit", strconv.Itoa(filters.Limit))
	}
	if cursor := strings.TrimSpace(filters.Cursor); cursor != "" {
		q.Set("cursor", cursor)
	}

	var out ServerListResult
	if err := c.get(ctx, "/servers", q, PayloadServerList, "", &out); err != nil {
		return ServerListResult{}, err
	}
	if out.Servers == nil {
		out.Servers = []ServerSummary{}
	}

	return out, nil
}

// GetServerByID fetches the full detail of one server.
// A 404 from the catalog is reported as *NotFoundError.
func (c *Client) GetServerByID(ctx context.Context, id string) (ServerDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ServerDetail{}, fmt.Errorf("server id cannot be empty")
	}

	var out ServerDetail
	if err := c.get(ctx, "/servers/"+url.PathEscape(id), nil, PayloadServerDetail, id, &out); err != nil {
		return ServerDetail{}, err
	}

	return out, nil
}

// GetHealth fetches the catalog service's health status.
func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	var out Health
	if err := c.get(ctx, "/health", nil, PayloadHealth, "", &out); err != nil {
		return Health{}, err
	}

	return out, nil
}

// get performs a GET request and decodes a JSON body into out.
// notFoundID, when set, turns a 404 into a *NotFoundError for that id.
func (c *Client) get(
	ctx context.Context,
	path string,
	query url.Values,
	payload Payload,
	notFoundID string,
	out any,
) error {
	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &TransportError{URL: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Trace("Catalog request", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.logger.Error(
			"Catalog request failed",
			"url", endpoint,
			"status", resp.StatusCode,
			"body", string(body),
		)

		if resp.StatusCode == http.StatusNotFound && notFoundID != "" {
			return &NotFoundError{ID: notFoundID, URL: endpoint}
		}

		return &RemoteError{StatusCode: resp.StatusCode, Body: string(body), URL: endpoint}
	}

	if resp.ContentLength > MaxResponseSize {
		return fmt.Errorf(
			"%w: response size %d bytes exceeds maximum of %d bytes",
			ErrInvalidResponse,
			resp.ContentLength,
			MaxResponseSize,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return c.transportError(ctx, endpoint, fmt.Errorf("failed to read response body: %w", err))
	}
	if len(body) > MaxResponseSize {
		return fmt.Errorf("%w: response exceeds maximum of %d bytes", ErrInvalidResponse, MaxResponseSize)
	}

	if c.schemas != nil {
		if err := c.schemas.validate(payload, body); err != nil {
			c.logger.Warn("Catalog response failed validation", "url", endpoint, "error", err)
			return err
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response from '%s': %w", ErrInvalidResponse, endpoint, err)
	}

	return nil
}

// transportError classifies a failed round trip as a timeout or a generic transport failure.
func (c *Client) transportError(ctx context.Context, endpoint string, err error) error {
	var netErr net.Error
	timedOut := stdErrors.Is(ctx.Err(), context.DeadlineExceeded) ||
		stdErrors.Is(err, context.DeadlineExceeded) ||
		(stdErrors.As(err, &netErr) && netErr.Timeout())

	if timedOut {
		c.logger.Warn("Catalog request timed out", "url", endpoint, "timeout", c.timeout)
		return &TimeoutError{TransportError: TransportError{URL: endpoint, Err: err}, After: c.timeout}
	}

	c.logger.Warn("Catalog request failed", "url", endpoint, "error", err)
	return &TransportError{URL: endpoint, Err: err}
}
