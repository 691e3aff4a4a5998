package config

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

// CatalogSection contains settings for reaching the catalog service.
//
// NOTE: if you add/remove fields you must review Validate, Resolve and the skeleton written by Init.
type CatalogSection struct {
	// URL is the base URL of the catalog service.
	// Overridden by NEXT_PUBLIC_API_URL and --api-url.
	URL *string `json:"url,omitempty" toml:"url,omitempty" yaml:"url,omitempty"`

	// Timeout applies to every catalog request.
	// Overridden by MCPCAT_TIMEOUT and --timeout.
	Timeout *Duration `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`

	// ValidateResponses checks catalog payloads against the bundled JSON schemas.
	// Overridden by MCPCAT_VALIDATE_RESPONSES.
	ValidateResponses *bool `json:"validateResponses,omitempty" toml:"validate_responses,omitempty" yaml:"validate_responses,omitempty"`
}

// CacheSection contains settings for the query cache.
type CacheSection struct {
	// SweepInterval is how often unused entries are evicted. Zero disables the janitor.
	SweepInterval *Duration `json:"sweepInterval,omitempty" toml:"sweep_interval,omitempty" yaml:"sweep_interval,omitempty"`

	// Policies overrides freshness rules per query kind, e.g. "health".
	Policies map[string]PolicySection `json:"policies,omitempty" toml:"policies,omitempty" yaml:"policies,omitempty"`
}

// PolicySection overrides part of a cache policy. Unset fields keep the built-in value for the kind.
type PolicySection struct {
	StaleAfter      *Duration `json:"staleAfter,omitempty" toml:"stale_after,omitempty" yaml:"stale_after,omitempty"`
	EvictAfter      *Duration `json:"evictAfter,omitempty" toml:"evict_after,omitempty" yaml:"evict_after,omitempty"`
	RefreshInterval *Duration `json:"refreshInterval,omitempty" toml:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
}

// APISection contains local API server configuration settings.
type APISection struct {
	// Address to bind the API server (e.g., "0.0.0.0:8090")
	// Maps to CLI flag --addr
	Addr *string `json:"addr,omitempty" toml:"addr,omitempty" yaml:"addr,omitempty"`

	// Nested timeout configuration for API operations
	Timeout *APITimeoutSection `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Nested CORS configuration for cross-origin requests
	CORS *CORSSection `json:"cors,omitempty" toml:"cors,omitempty" yaml:"cors,omitempty"`
}

// APITimeoutSection contains timeout settings for API operations.
type APITimeoutSection struct {
	// Shutdown timeout for graceful API server shutdown
	Shutdown *Duration `json:"shutdown,omitempty" toml:"shutdown,omitempty" yaml:"shutdown,omitempty"`
}

// CORSSection contains Cross-Origin Resource Sharing (CORS) configuration.
type CORSSection struct {
	// Enable CORS support
	// Maps to CLI flag --cors-enable
	Enable *bool `json:"enable,omitempty" toml:"enable,omitempty" yaml:"enable,omitempty"`

	// Allowed origins for CORS requests
	// Maps to CLI flag --cors-origin
	Origins []string `json:"allowOrigins,omitempty" toml:"allow_origins,omitempty" yaml:"allow_origins,omitempty"`

	// Allowed HTTP methods for CORS requests
	Methods []string `json:"allowMethods,omitempty" toml:"allow_methods,omitempty" yaml:"allow_methods,omitempty"`

	// Allowed headers for CORS requests
	Headers []string `json:"allowHeaders,omitempty" toml:"allow_headers,omitempty" yaml:"allow_headers,omitempty"`

	// Allow credentials in CORS requests
	Credentials *bool `json:"allowCredentials,omitempty" toml:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty"`

	// Maximum age for CORS preflight cache
	MaxAge *Duration `json:"maxAge,omitempty" toml:"max_age,omitempty" yaml:"max_age,omitempty"`
}

// Duration is a custom time.Duration type that provides improved marshaling.
type Duration time.Duration

// Validate checks the catalog URL and timeout.
func (c *CatalogSection) Validate() error {
	var validationErrors []error

	if c.URL != nil {
		if _, err := catalog.NewOptions(catalog.WithBaseURL(*c.URL)); err != nil {
			validationErrors = append(validationErrors, err)
		}
	}

	if c.Timeout != nil && *c.Timeout <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("catalog timeout must be positive"))
	}

	return errors.Join(validationErrors...)
}

// Validate checks that every policy override names a known kind and results in a usable policy.
func (c *CacheSection) Validate() error {
	var validationErrors []error

	if c.SweepInterval != nil && *c.SweepInterval < 0 {
		validationErrors = append(validationErrors, fmt.Errorf("sweep interval cannot be negative"))
	}

	known := cache.DefaultPolicies()
	for name, p := range c.Policies {
		kind := cache.Kind(normalizeKey(name))
		base, ok := known[kind]
		if !ok {
			validationErrors = append(validationErrors, NewErrInvalidValue("cache.policies", name))
			continue
		}
		if err := p.apply(base).Validate(); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("policy '%s': %w", name, err))
		}
	}

	return errors.Join(validationErrors...)
}

// apply overlays the section onto base.
func (p PolicySection) apply(base cache.Policy) cache.Policy {
	if p.StaleAfter != nil {
		base.StaleAfter = time.Duration(*p.StaleAfter)
	}
	if p.EvictAfter != nil {
		base.EvictAfter = time.Duration(*p.EvictAfter)
	}
	if p.RefreshInterval != nil {
		base.RefreshInterval = time.Duration(*p.RefreshInterval)
	}
	return base
}

// Validate checks the API address, timeouts and CORS settings.
func (a *APISection) Validate() error {
	var validationErrors []error

	if a.Addr != nil && !isValidAddr(*a.Addr) {
		validationErrors = append(validationErrors, fmt.Errorf("invalid API address: %s", *a.Addr))
	}

	if a.Timeout != nil && a.Timeout.Shutdown != nil && *a.Timeout.Shutdown <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("API shutdown timeout must be positive"))
	}

	if a.CORS != nil {
		if err := a.CORS.Validate(); err != nil {
			validationErrors = append(validationErrors, err)
		}
	}

	return errors.Join(validationErrors...)
}

// EnableOrDefault returns the configured enable flag, or defaultEnable when unset.
func (c *CORSSection) EnableOrDefault(defaultEnable bool) bool {
	if c == nil || c.Enable == nil {
		return defaultEnable
	}
	return *c.Enable
}

// Validate checks CORS origins, methods and max age.
func (c *CORSSection) Validate() error {
	var validationErrors []error

	for _, origin := range c.Origins {
		// See: https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Headers/Access-Control-Allow-Origin#sect
		if origin == "*" {
			continue
		}

		if origin == "" {
			validationErrors = append(validationErrors, fmt.Errorf("CORS origin cannot be empty"))
			continue
		}

		if !isValidOrigin(origin) {
			validationErrors = append(validationErrors, fmt.Errorf("invalid origin: %s", origin))
		}
	}

	validMethods := ValidHTTPRequestMethods()
	for _, method := range c.Methods {
		if method == "*" {
			continue
		}

		if method == "" {
			validationErrors = append(validationErrors, fmt.Errorf("CORS method cannot be empty"))
			continue
		}

		if _, ok := validMethods[method]; !ok {
			validationErrors = append(
				validationErrors,
				fmt.Errorf("CORS method %s is not a valid HTTP request method", method),
			)
		}
	}

	if c.MaxAge != nil && *c.MaxAge <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("CORS max age must be positive"))
	}

	return errors.Join(validationErrors...)
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d *Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// String returns a human-readable string representation of the duration.
func (d *Duration) String() string {
	if d == nil {
		return ""
	}

	duration := time.Duration(*d)
	if duration == 0 {
		return "0s"
	}

	// List of duration units in descending order.
	units := []struct {
		unit   time.Duration
		suffix string
	}{
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
		{time.Millisecond, "ms"},
		{time.Microsecond, "µs"},
		{time.Nanosecond, "ns"},
	}

	for _, u := range units {
		if duration%u.unit == 0 {
			return fmt.Sprintf("%d%s", duration/u.unit, u.suffix)
		}
	}

	return fmt.Sprintf("%dns", duration)
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// ValidHTTPRequestMethods returns the set of standard HTTP request methods.
func ValidHTTPRequestMethods() map[string]struct{} {
	return map[string]struct{}{
		http.MethodGet:     {},
		http.MethodHead:    {},
		http.MethodPost:    {},
		http.MethodPut:     {},
		http.MethodPatch:   {},
		http.MethodDelete:  {},
		http.MethodConnect: {},
		http.MethodOptions: {},
		http.MethodTrace:   {},
	}
}

// isValidAddr performs basic validation for host:port format using stdlib.
func isValidAddr(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	// Special case: ":" (empty host, empty port) is valid for bind-all-interfaces
	if host == "" && port == "" {
		return true
	}

	if port == "" {
		return false
	}

	if host != "" {
		if strings.ContainsAny(host, " \t\n\r") {
			return false
		}

		if net.ParseIP(host) == nil && len(host) > 253 {
			return false
		}
	}

	return true
}

// isValidOrigin accepts scheme://host[:port] origins as sent by browsers.
func isValidOrigin(origin string) bool {
	scheme, rest, ok := strings.Cut(origin, "://")
	if !ok || (scheme != "http" && scheme != "https") {
		return false
	}
	return rest != "" && !strings.ContainsAny(rest, " /\t\n\r")
}

// normalizeKey normalizes a key by trimming whitespace and converting to lowercase.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
