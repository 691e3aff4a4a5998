// Package registry is the query layer between presentation code and the catalog service.
// Every operation returns a cache.Result describing data, loading, staleness and error state,
// so callers never talk to the catalog client directly.
package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

const registryName = "registry"

// Ensure the catalog client satisfies Catalog.
var _ Catalog = (*catalog.Client)(nil)

// Catalog fetches data from the remote catalog service.
type Catalog interface {
	ListServers(ctx context.Context, filters catalog.SearchFilters) (catalog.ServerListResult, error)
	GetServerByID(ctx context.Context, id string) (catalog.ServerDetail, error)
	GetHealth(ctx context.Context) (catalog.Health, error)
}

// Registry answers server queries through a shared cache.Store.
// New should be used to create instances of Registry.
type Registry struct {
	logger   hclog.Logger
	catalog  Catalog
	store    *cache.Store
	maxPages int
	now      func() time.Time

	// upstream collapses concurrent searches onto one listing request.
	upstream singleflight.Group
}

// New creates a Registry. The store is owned by the caller, who is responsible for closing it.
func New(logger hclog.Logger, c Catalog, store *cache.Store, opt ...Option) (*Registry, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store cannot be nil")
	}

	opts, err := getOpts(opt...)
	if err != nil {
		return nil, err
	}

	return &Registry{
		logger:   logger.Named(registryName),
		catalog:  c,
		store:    store,
		maxPages: opts.maxPages,
		now:      opts.now,
	}, nil
}

// Store returns the cache backing the registry.
func (r *Registry) Store() *cache.Store {
	return r.store
}

// Servers returns one page of the listing, narrowed by any facet selection in filters.
// The free-text query of filters is ignored; see Browse.
func (r *Registry) Servers(ctx context.Context, filters catalog.SearchFilters) cache.Result[catalog.ServerListResult] {
	q, err := r.serversQuery(filters)
	if err != nil {
		return cache.Result[catalog.ServerListResult]{Error: err}
	}
	return cache.Fetch(ctx, r.store, q)
}

// WatchServers subscribes to the listing page described by filters.
func (r *Registry) WatchServers(filters catalog.SearchFilters) (*cache.Subscription[catalog.ServerListResult], error) {
	q, err := r.serversQuery(filters)
	if err != nil {
		return nil, err
	}
	return cache.Subscribe(r.store, q), nil
}

func (r *Registry) serversQuery(filters catalog.SearchFilters) (cache.Query[catalog.ServerListResult], error) {
	if err := filters.Validate(); err != nil {
		return cache.Query[catalog.ServerListResult]{}, err
	}

	f := filters.Normalize()
	f.Query = ""
	sel := search.SelectionFromFilters(f)

	return cache.NewQuery(cache.ListKey(f), func(ctx context.Context) (catalog.ServerListResult, error) {
		list, err := r.catalog.ListServers(ctx, catalog.SearchFilters{Limit: f.Limit, Cursor: f.Cursor})
		if err != nil {
			return catalog.ServerListResult{}, err
		}
		return search.ApplyFacetsToList(list, sel), nil
	}), nil
}

// AllServers follows the listing's cursors until the catalog reports no further page,
// returning every server narrowed by any facet selection in filters.
// At most the configured number of pages is requested; when that cap is hit,
// the result's metadata carries the cursor where reading stopped.
func (r *Registry) AllServers(ctx context.Context, filters catalog.SearchFilters) cache.Result[catalog.ServerListResult] {
	if err := filters.Validate(); err != nil {
		return cache.Result[catalog.ServerListResult]{Error: err}
	}

	f := filters.Normalize()
	f.Query = ""
	sel := search.SelectionFromFilters(f)

	q := cache.NewQuery(cache.AllKey(f), func(ctx context.Context) (catalog.ServerListResult, error) {
		list, err := r.fetchAllPages(ctx)
		if err != nil {
			return catalog.ServerListResult{}, err
		}
		return search.ApplyFacetsToList(list, sel), nil
	})

	return cache.Fetch(ctx, r.store, q)
}

func (r *Registry) fetchAllPages(ctx context.Context) (catalog.ServerListResult, error) {
	servers := []catalog.ServerSummary{}
	seen := make(map[string]struct{})

	var (
		cursor string
		total  *int
	)

	for page := 0; page < r.maxPages; page++ {
		list, err := r.catalog.ListServers(ctx, catalog.SearchFilters{Limit: catalog.MaxLimit, Cursor: cursor})
		if err != nil {
			return catalog.ServerListResult{}, err
		}

		servers = append(servers, list.Servers...)
		if list.Metadata != nil && list.Metadata.Total != nil {
			total = list.Metadata.Total
		}

		cursor = list.NextCursor()
		if cursor == "" {
			break
		}
		if _, ok := seen[cursor]; ok {
			r.logger.Warn("Catalog returned a repeated cursor, stopping", "cursor", cursor, "page", page+1)
			cursor = ""
			break
		}
		seen[cursor] = struct{}{}
	}

	if cursor != "" {
		r.logger.Warn("Stopped following listing pages", "pages", r.maxPages, "servers", len(servers))
	}

	return catalog.ServerListResult{
		Servers: servers,
		Metadata: &catalog.Metadata{
			NextCursor: cursor,
			Count:      catalog.IntPtr(len(servers)),
			Total:      total,
		},
	}, nil
}

// SearchServers returns the servers whose name or description contains text, ignoring case,
// narrowed by any facet selection in filters.
//
// The catalog has no server-side search, so the first catalog.SearchFetchLimit servers are
// fetched and filtered in memory. Blank text yields a disabled result; callers should fall
// back to Servers, as Browse does.
func (r *Registry) SearchServers(
	ctx context.Context,
	text string,
	filters catalog.SearchFilters,
) cache.Result[catalog.ServerListResult] {
	q, err := r.searchQuery(text, filters)
	if err != nil {
		return cache.Result[catalog.ServerListResult]{Error: err}
	}
	return cache.Fetch(ctx, r.store, q)
}

// WatchSearch subscribes to a free-text search.
func (r *Registry) WatchSearch(
	text string,
	filters catalog.SearchFilters,
) (*cache.Subscription[catalog.ServerListResult], error) {
	q, err := r.searchQuery(text, filters)
	if err != nil {
		return nil, err
	}
	return cache.Subscribe(r.store, q), nil
}

func (r *Registry) searchQuery(
	text string,
	filters catalog.SearchFilters,
) (cache.Query[catalog.ServerListResult], error) {
	if err := filters.Validate(); err != nil {
		return cache.Query[catalog.ServerListResult]{}, err
	}

	key := cache.SearchKey(text, filters)
	text = strings.TrimSpace(text)
	if text == "" {
		return cache.DisabledQuery[catalog.ServerListResult](key), nil
	}

	sel := search.SelectionFromFilters(filters.Normalize())

	return cache.NewQuery(key, func(ctx context.Context) (catalog.ServerListResult, error) {
		list, err := r.searchUpstream(ctx)
		if err != nil {
			return catalog.ServerListResult{}, err
		}

		found := search.Search(list, text)
		r.logger.Debug("Searched servers", "query", text, "candidates", len(list.Servers), "matches", len(found.Servers))

		return search.ApplyFacetsToList(found, sel), nil
	}), nil
}

// searchUpstream fetches the listing every search is evaluated against.
// Results are treated as read-only since they are shared between concurrent searches.
func (r *Registry) searchUpstream(ctx context.Context) (catalog.ServerListResult, error) {
	v, err, shared := r.upstream.Do("search-upstream", func() (any, error) {
		return r.catalog.ListServers(ctx, catalog.SearchFilters{Limit: catalog.SearchFetchLimit})
	})
	if err != nil {
		return catalog.ServerListResult{}, err
	}
	if shared {
		r.logger.Trace("Shared search listing between concurrent queries")
	}
	return v.(catalog.ServerListResult), nil
}

// Browse is what a listing view shows: a search when text is not blank, otherwise the plain listing.
func (r *Registry) Browse(
	ctx context.Context,
	text string,
	filters catalog.SearchFilters,
) cache.Result[catalog.ServerListResult] {
	if strings.TrimSpace(text) != "" {
		return r.SearchServers(ctx, text, filters)
	}
	return r.Servers(ctx, filters)
}

// Facets counts the technologies and categories present in what Browse would show for text,
// before any facet selection is applied, so every selectable value is reported.
func (r *Registry) Facets(ctx context.Context, text string, filters catalog.SearchFilters) cache.Result[search.Facets] {
	filters.Languages = nil
	filters.Categories = nil
	filters.Registries = nil

	return mapResult(r.Browse(ctx, text, filters), func(list catalog.ServerListResult) search.Facets {
		return search.Counts(list.Servers)
	})
}

// Server returns the detail of one server. A blank id yields a disabled result.
func (r *Registry) Server(ctx context.Context, id string) cache.Result[catalog.ServerDetail] {
	return cache.Fetch(ctx, r.store, r.serverQuery(id))
}

// WatchServer subscribes to the detail of one server.
func (r *Registry) WatchServer(id string) *cache.Subscription[catalog.ServerDetail] {
	return cache.Subscribe(r.store, r.serverQuery(id))
}

func (r *Registry) serverQuery(id string) cache.Query[catalog.ServerDetail] {
	id = strings.TrimSpace(id)
	key := cache.DetailKey(id)
	if id == "" {
		return cache.DisabledQuery[catalog.ServerDetail](key)
	}

	return cache.NewQuery(key, func(ctx context.Context) (catalog.ServerDetail, error) {
		return r.catalog.GetServerByID(ctx, id)
	})
}

// Health returns the catalog service's health. Use HealthOrUnknown to present it.
func (r *Registry) Health(ctx context.Context) cache.Result[catalog.Health] {
	return cache.Fetch(ctx, r.store, r.healthQuery())
}

// WatchHealth subscribes to the catalog service's health, which refreshes on a timer while subscribed.
func (r *Registry) WatchHealth() *cache.Subscription[catalog.Health] {
	return cache.Subscribe(r.store, r.healthQuery())
}

func (r *Registry) healthQuery() cache.Query[catalog.Health] {
	return cache.NewQuery(cache.HealthKey(), r.catalog.GetHealth)
}

// HealthOrUnknown returns the health carried by res, or an unknown status when there is none.
// A failed health check is never fatal.
func HealthOrUnknown(res cache.Result[catalog.Health]) catalog.Health {
	if !res.HasData() {
		return catalog.UnknownHealth()
	}
	return res.Value()
}

// Stats summarizes the first catalog.MaxLimit servers of the listing.
func (r *Registry) Stats(ctx context.Context) cache.Result[search.Stats] {
	now := r.now()
	return mapResult(r.Servers(ctx, catalog.SearchFilters{Limit: catalog.MaxLimit}), func(list catalog.ServerListResult) search.Stats {
		return search.Summarize(list.Servers, now)
	})
}

// Warm populates the cache with the queries a fresh session needs first.
func (r *Registry) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.Health(ctx).Error
	})
	g.Go(func() error {
		return r.Stats(ctx).Error
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error warming cache: %w", err)
	}

	r.logger.Debug("Cache warmed", "entries", r.store.Len())
	return nil
}

// Refresh refetches a cached query, discarding any response already in flight for it.
func (r *Registry) Refresh(ctx context.Context, key cache.Key) error {
	return r.store.Refetch(ctx, key)
}

// Invalidate marks every cached query of the given kinds as stale, or of every kind when none are given.
// It returns the number of queries affected.
func (r *Registry) Invalidate(kinds ...cache.Kind) int {
	if len(kinds) == 0 {
		kinds = []cache.Kind{
			cache.KindServers,
			cache.KindServersAll,
			cache.KindSearch,
			cache.KindServer,
			cache.KindHealth,
		}
	}

	n := 0
	for _, k := range kinds {
		n += r.store.InvalidateKind(k)
	}
	return n
}

// Clear drops every cached result.
func (r *Registry) Clear() {
	r.store.Clear()
}

// mapResult converts the data of a result, keeping its state flags.
func mapResult[A, B any](res cache.Result[A], fn func(A) B) cache.Result[B] {
	out := cache.Result[B]{
		IsLoading:  res.IsLoading,
		IsFetching: res.IsFetching,
		IsStale:    res.IsStale,
		Disabled:   res.Disabled,
		Error:      res.Error,
		FetchedAt:  res.FetchedAt,
	}
	if res.HasData() {
		v := fn(res.Value())
		out.Data = &v
	}
	return out
}
