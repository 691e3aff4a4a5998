// Package search narrows server listings in memory: free-text search, facet selection,
// facet counts and summary statistics.
package search

import (
	"strings"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/filter"
)

// Selection is the set of facet values a user has picked.
// Values within one facet are alternatives; different facets must all match.
// An empty facet places no restriction.
type Selection struct {
	Languages  []string
	Categories []string
	Registries []string
}

// SelectionFromFilters extracts the facet selection from search filters.
func SelectionFromFilters(f catalog.SearchFilters) Selection {
	return Selection{
		Languages:  f.Languages,
		Categories: f.Categories,
		Registries: f.Registries,
	}
}

// Empty reports whether the selection restricts nothing.
func (s Selection) Empty() bool {
	return len(s.Languages) == 0 && len(s.Categories) == 0 && len(s.Registries) == 0
}

// filters converts the selection into filter keys understood by DefaultMatchers.
func (s Selection) filters() map[string]string {
	out := make(map[string]string, 3)
	if v := filter.JoinValues(s.Languages); v != "" {
		out[FilterKeyLanguage] = v
	}
	if v := filter.JoinValues(s.Categories); v != "" {
		out[FilterKeyCategory] = v
	}
	if v := filter.JoinValues(s.Registries); v != "" {
		out[FilterKeyRegistry] = v
	}
	return out
}

// Search returns a new result holding only the servers whose name or description contains query.
// The input is not modified. Metadata is carried over, with Count set to the number of matches.
func Search(list catalog.ServerListResult, query string) catalog.ServerListResult {
	var textFilter map[string]string
	if q := strings.TrimSpace(query); q != "" {
		textFilter = map[string]string{FilterKeyText: q}
	}

	// The default matchers are static so this cannot fail.
	matched, _ := filter.All(list.Servers, textFilter, WithDefaultMatchers())

	md := catalog.Metadata{}
	if list.Metadata != nil {
		md = *list.Metadata
	}
	md.Count = catalog.IntPtr(len(matched))

	return catalog.ServerListResult{
		Servers:  matched,
		Metadata: &md,
	}
}

// ApplyFacets returns the servers that satisfy the selection, preserving order.
// The input slice is not modified.
func ApplyFacets(servers []catalog.ServerSummary, sel Selection) []catalog.ServerSummary {
	if sel.Empty() {
		out := make([]catalog.ServerSummary, len(servers))
		copy(out, servers)
		return out
	}

	// The default matchers are static so this cannot fail.
	out, _ := filter.All(servers, sel.filters(), WithDefaultMatchers())
	return out
}

// ApplyFacetsToList is ApplyFacets for a whole listing.
// When the selection restricts anything, Count is updated to the number of servers kept.
func ApplyFacetsToList(list catalog.ServerListResult, sel Selection) catalog.ServerListResult {
	servers := ApplyFacets(list.Servers, sel)

	var md *catalog.Metadata
	if list.Metadata != nil {
		cp := *list.Metadata
		md = &cp
	}
	if !sel.Empty() {
		if md == nil {
			md = &catalog.Metadata{}
		}
		md.Count = catalog.IntPtr(len(servers))
	}

	return catalog.ServerListResult{Servers: servers, Metadata: md}
}
