package search

import (
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/facets"
	"github.com/mozilla-ai/mcpcat/internal/filter"
)

const (
	// FilterKeyText is the key to use for free-text filtering of name and description.
	FilterKeyText = "q"

	// FilterKeyLanguage is the key to use for filtering by derived technology.
	FilterKeyLanguage = "language"

	// FilterKeyCategory is the key to use for filtering by derived category.
	FilterKeyCategory = "category"

	// FilterKeyRegistry is the key to use for filtering by repository source.
	FilterKeyRegistry = "registry"
)

// Predicate for matching a catalog.ServerSummary.
type Predicate = filter.Predicate[catalog.ServerSummary]

// Option for configuring how a catalog.ServerSummary is matched.
type Option = filter.Option[catalog.ServerSummary]

// ValueProvider is used to provide a specific string value from a catalog.ServerSummary.
type ValueProvider = filter.ValueProvider[catalog.ServerSummary]

// DefaultMatchers returns the matchers for every supported filter key.
// Multi-valued keys take comma-separated values and match when any value matches.
func DefaultMatchers() map[string]Predicate {
	return map[string]Predicate{
		FilterKeyText:     filter.OrContains(NameProvider, DescriptionProvider),
		FilterKeyLanguage: filter.In(TechnologyProvider),
		FilterKeyCategory: filter.In(CategoryProvider),
		FilterKeyRegistry: filter.In(SourceProvider),
	}
}

// WithDefaultMatchers configures every supported filter key.
func WithDefaultMatchers() Option {
	return filter.WithMatchers(DefaultMatchers())
}

func NameProvider(s catalog.ServerSummary) string {
	return s.Name
}

func DescriptionProvider(s catalog.ServerSummary) string {
	return s.Description
}

func TechnologyProvider(s catalog.ServerSummary) string {
	return facets.ExtractTechnology(s.Name)
}

func CategoryProvider(s catalog.ServerSummary) string {
	return facets.ExtractCategory(s.Name, s.Description)
}

func SourceProvider(s catalog.ServerSummary) string {
	return s.Repository.Source
}
