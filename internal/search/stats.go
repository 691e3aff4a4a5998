package search

import (
	"cmp"
	"slices"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/facets"
)

// FacetCount is how many servers carry a facet label.
type FacetCount struct {
	Name  string `json:"name"            yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	Count int    `json:"count"           yaml:"count"`
}

// Facets holds the label counts for each facet of a server set.
type Facets struct {
	Technologies []FacetCount `json:"technologies" yaml:"technologies"`
	Categories   []FacetCount `json:"categories"   yaml:"categories"`
}

// Stats summarizes a server set.
type Stats struct {
	Total           int    `json:"total"            yaml:"total"`
	Technologies    int    `json:"technologies"     yaml:"technologies"`
	Categories      int    `json:"categories"       yaml:"categories"`
	RecentlyUpdated int    `json:"recently_updated" yaml:"recently_updated"`
	Facets          Facets `json:"facets"           yaml:"facets"`
}

// Counts tallies the technology and category of every server.
// Each list is ordered by count descending, ties broken by name.
func Counts(servers []catalog.ServerSummary) Facets {
	tech := make(map[string]int)
	cat := make(map[string]int)
	for _, s := range servers {
		tech[TechnologyProvider(s)]++
		cat[CategoryProvider(s)]++
	}

	technologies := sortedCounts(tech)
	for i := range technologies {
		technologies[i].Color = facets.TechnologyColor(technologies[i].Name)
	}

	return Facets{
		Technologies: technologies,
		Categories:   sortedCounts(cat),
	}
}

func sortedCounts(m map[string]int) []FacetCount {
	out := make([]FacetCount, 0, len(m))
	for name, n := range m {
		out = append(out, FacetCount{Name: name, Count: n})
	}

	slices.SortFunc(out, func(a, b FacetCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

// Summarize computes totals for a server set relative to now.
// A server is recently updated when its release date falls within facets.RecentWindow.
func Summarize(servers []catalog.ServerSummary, now time.Time) Stats {
	f := Counts(servers)

	recent := 0
	for _, s := range servers {
		if facets.RecentlyUpdated(s.VersionDetail.ReleaseDate, now, facets.RecentWindow) {
			recent++
		}
	}

	return Stats{
		Total:           len(servers),
		Technologies:    len(f.Technologies),
		Categories:      len(f.Categories),
		RecentlyUpdated: recent,
		Facets:          f,
	}
}
