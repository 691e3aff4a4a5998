package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mozilla-ai/mcpcat/internal/errors"
)

const (
	// DefaultLimit is the page size used when a listing does not specify one.
	DefaultLimit = 20

	// MaxLimit is the largest page size the catalog service accepts.
	MaxLimit = 100

	// SearchFetchLimit is the number of servers fetched when searching client-side.
	SearchFetchLimit = MaxLimit
)

// SearchFilters narrows a server listing.
// A zero Limit means the limit was not specified.
type SearchFilters struct {
	Query      string   `json:"query,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Registries []string `json:"registries,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Cursor     string   `json:"cursor,omitempty"`
}

// Validate reports whether the filters can be sent to the catalog.
// Since a zero limit means unspecified, only negative limits are rejected.
func (f SearchFilters) Validate() error {
	if f.Limit < 0 {
		return fmt.Errorf("%w: limit must be at least 1, got %d", errors.ErrBadRequest, f.Limit)
	}
	return nil
}

// Normalize returns a copy of the filters in canonical form.
// The query is trimmed and lowercased, set members are trimmed, sorted and de-duplicated,
// an absent limit becomes DefaultLimit and oversized limits are clamped to MaxLimit.
func (f SearchFilters) Normalize() SearchFilters {
	out := SearchFilters{
		Query:      strings.ToLower(strings.TrimSpace(f.Query)),
		Languages:  normalizeSet(f.Languages),
		Categories: normalizeSet(f.Categories),
		Registries: normalizeSet(f.Registries),
		Limit:      f.Limit,
		Cursor:     strings.TrimSpace(f.Cursor),
	}

	switch {
	case out.Limit <= 0:
		out.Limit = DefaultLimit
	case out.Limit > MaxLimit:
		out.Limit = MaxLimit
	}

	return out
}

// normalizeSet keeps the original casing of labels so they still match the extractor's output,
// but drops blanks and duplicates and fixes the order.
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}

	slices.Sort(out)
	return slices.Compact(out)
}
