package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

func TestKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      Key
		expected Key
	}{
		{
			name:     "empty listing uses default limit",
			key:      ListKey(catalog.SearchFilters{}),
			expected: "servers?limit=20",
		},
		{
			name:     "listing with cursor and sets",
			key:      ListKey(catalog.SearchFilters{Cursor: "c1", Languages: []string{"Python", "Go"}, Limit: 5}),
			expected: "servers?cursor=c1&language=Go&language=Python&limit=5",
		},
		{
			name:     "search ignores limit and case",
			key:      SearchKey("  PyThon ", catalog.SearchFilters{Limit: 50}),
			expected: "search-servers?query=python",
		},
		{
			name:     "all ignores cursor and limit",
			key:      AllKey(catalog.SearchFilters{Cursor: "x", Limit: 7, Categories: []string{"Database"}}),
			expected: "servers-all?category=Database",
		},
		{
			name:     "detail",
			key:      DetailKey(" io.github/acme "),
			expected: "server?id=io.github%2Facme",
		},
		{
			name:     "health",
			key:      HealthKey(),
			expected: "health",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, tc.key)
		})
	}
}

func TestKeys_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := ListKey(catalog.SearchFilters{
		Languages:  []string{"Go", "Python", "Go"},
		Categories: []string{"Web API", "Database"},
	})
	b := ListKey(catalog.SearchFilters{
		Categories: []string{"Database", "Web API"},
		Languages:  []string{"Python", "Go"},
		Limit:      20,
	})

	require.Equal(t, a, b)
	require.NotEqual(t, a, ListKey(catalog.SearchFilters{Languages: []string{"Go"}}))
	require.Equal(t, SearchKey("go", catalog.SearchFilters{}), SearchKey("GO ", catalog.SearchFilters{Limit: 3}))
}

func TestKey_Kind(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindServers, ListKey(catalog.SearchFilters{}).Kind())
	require.Equal(t, KindServersAll, AllKey(catalog.SearchFilters{}).Kind())
	require.Equal(t, KindSearch, SearchKey("x", catalog.SearchFilters{}).Kind())
	require.Equal(t, KindServer, DetailKey("x").Kind())
	require.Equal(t, KindHealth, HealthKey().Kind())
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Policy{EvictAfter: time.Second}.Validate())
	require.Error(t, Policy{StaleAfter: -1, EvictAfter: time.Second}.Validate())
	require.Error(t, Policy{}.Validate())
	require.Error(t, Policy{EvictAfter: time.Second, RefreshInterval: -1}.Validate())
}

func TestDefaultPolicies(t *testing.T) {
	t.Parallel()

	p := DefaultPolicies()
	require.Equal(t, Policy{StaleAfter: 5 * time.Minute, EvictAfter: 10 * time.Minute}, p[KindServers])
	require.Equal(t, p[KindServers], p[KindServersAll])
	require.Equal(t, Policy{StaleAfter: 10 * time.Minute, EvictAfter: 30 * time.Minute}, p[KindServer])
	require.Equal(t, Policy{StaleAfter: 2 * time.Minute, EvictAfter: 5 * time.Minute}, p[KindSearch])
	require.Equal(t, Policy{StaleAfter: 10 * time.Second, EvictAfter: time.Minute, RefreshInterval: 30 * time.Second}, p[KindHealth])
}
