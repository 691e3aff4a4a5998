package cache

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

// Key identifies a cached query. Equal inputs always produce equal keys,
// regardless of the order in which set-valued filters were supplied.
type Key string

// NewKey builds a key from a kind and its parameters.
// url.Values.Encode sorts parameter names, so the result is deterministic
// provided each parameter's values are themselves in a fixed order.
func NewKey(kind Kind, params url.Values) Key {
	if len(params) == 0 {
		return Key(kind)
	}
	return Key(string(kind) + "?" + params.Encode())
}

// Kind returns the kind a key was built for.
func (k Key) Kind() Kind {
	kind, _, _ := strings.Cut(string(k), "?")
	return Kind(kind)
}

func (k Key) String() string {
	return string(k)
}

// filterParams encodes normalized filters; includeLimit is false for queries whose fetch size is fixed.
func filterParams(f catalog.SearchFilters, includeLimit bool) url.Values {
	f = f.Normalize()

	v := url.Values{}
	if f.Query != "" {
		v.Set("query", f.Query)
	}
	for _, l := range f.Languages {
		v.Add("language", l)
	}
	for _, c := range f.Categories {
		v.Add("category", c)
	}
	for _, r := range f.Registries {
		v.Add("registry", r)
	}
	if includeLimit {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Cursor != "" {
		v.Set("cursor", f.Cursor)
	}

	return v
}

// ListKey identifies a single page of the server listing.
func ListKey(f catalog.SearchFilters) Key {
	return NewKey(KindServers, filterParams(f, true))
}

// AllKey identifies the complete, cursor-followed server listing.
// The page size only affects how the listing is fetched, not its content.
func AllKey(f catalog.SearchFilters) Key {
	f.Cursor = ""
	return NewKey(KindServersAll, filterParams(f, false))
}

// SearchKey identifies a free-text search. The text is compared trimmed and case-insensitively,
// and the page size is ignored because searches always fetch a fixed number of servers.
func SearchKey(text string, f catalog.SearchFilters) Key {
	f.Query = text
	return NewKey(KindSearch, filterParams(f, false))
}

// DetailKey identifies a single server's detail.
func DetailKey(id string) Key {
	return NewKey(KindServer, url.Values{"id": []string{strings.TrimSpace(id)}})
}

// HealthKey identifies the catalog health check.
func HealthKey() Key {
	return NewKey(KindHealth, nil)
}
