package catalog

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when no catalog URL is configured.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout bounds every catalog request.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies requests made by this client.
	DefaultUserAgent = "mcpcat/1.0"
)

// Option defines a functional option for configuring Client.
type Option func(*Options) error

// Options contains optional configuration for the catalog client.
type Options struct {
	// baseURL is the root of the catalog service, without the /v0 prefix.
	baseURL string

	// timeout is the hard upper bound applied to each request.
	timeout time.Duration

	// httpClient performs the requests.
	httpClient *http.Client

	// userAgent is sent with every request.
	userAgent string

	// validate enables JSON schema checks of successful responses.
	validate bool
}

// NewOptions returns Options with defaults applied, followed by any supplied options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		userAgent:  DefaultUserAgent,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithBaseURL sets the catalog service URL.
// An empty value leaves the default in place.
func WithBaseURL(baseURL string) Option {
	return func(o *Options) error {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL == "" {
			return nil
		}

		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid catalog URL '%s': %w", baseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid catalog URL '%s': scheme must be http or https", baseURL)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid catalog URL '%s': missing host", baseURL)
		}

		o.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

// WithHTTPClient sets the HTTP client used to perform requests.
// Any Timeout on the supplied client is honoured in addition to the per-request timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.httpClient = c
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *Options) error {
		ua = strings.TrimSpace(ua)
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		o.userAgent = ua
		return nil
	}
}

// WithResponseValidation enables or disables schema validation of catalog responses.
func WithResponseValidation(enabled bool) Option {
	return func(o *Options) error {
		o.validate = enabled
		return nil
	}
}
