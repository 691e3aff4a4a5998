package daemon

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/registry"
)

func newTestHealthTracker(t *testing.T) *HealthTracker {
	t.Helper()

	h, err := NewHealthTracker(hclog.NewNullLogger())
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestNewHealthTracker(t *testing.T) {
	t.Parallel()

	_, err := NewHealthTracker(nil)
	require.EqualError(t, err, "logger cannot be nil")

	h, err := NewHealthTracker(hclog.NewNullLogger())
	require.NoError(t, err)

	status := h.Status()
	require.Equal(t, catalog.HealthStatusUnknown, status.Status)
	require.Nil(t, status.LastChecked)
	require.Nil(t, status.LastSuccessful)
}

func TestHealthTracker_Update(t *testing.T) {
	t.Parallel()

	h := newTestHealthTracker(t)
	fetchedAt := time.Date(2025, time.February, 1, 11, 59, 0, 0, time.UTC)

	// In-flight checks are ignored.
	require.False(t, h.Update(cache.Result[catalog.Health]{IsLoading: true, IsFetching: true}))
	require.Nil(t, h.Status().LastChecked)

	changed := h.Update(cache.Result[catalog.Health]{
		Data:      &catalog.Health{Status: "ok", AuthEnabled: true},
		FetchedAt: fetchedAt,
	})
	require.True(t, changed)

	status := h.Status()
	require.Equal(t, "ok", status.Status)
	require.True(t, status.AuthEnabled)
	require.NotNil(t, status.LastChecked)
	require.Equal(t, fetchedAt, *status.LastSuccessful)

	// Same status again is not a change.
	require.False(t, h.Update(cache.Result[catalog.Health]{Data: &catalog.Health{Status: "ok", AuthEnabled: true}, FetchedAt: fetchedAt}))

	// A failure without data becomes unknown but keeps the last success.
	changed = h.Update(cache.Result[catalog.Health]{Error: stdErrors.New("unreachable")})
	require.True(t, changed)

	status = h.Status()
	require.Equal(t, catalog.HealthStatusUnknown, status.Status)
	require.Equal(t, fetchedAt, *status.LastSuccessful)
}

func TestHealthTracker_Track(t *testing.T) {
	t.Parallel()

	h := newTestHealthTracker(t)
	require.EqualError(t, h.Track(context.Background(), nil), "health watcher cannot be nil")

	var nilRegistry *registry.Registry
	require.EqualError(t, h.Track(context.Background(), nilRegistry), "health watcher cannot be nil")

	c := newFakeCatalog()
	c.setHealth(catalog.Health{Status: "degraded"}, nil)
	reg := newTestRegistry(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Track(ctx, reg) }()

	require.Eventually(t, func() bool {
		return h.Status().Status == "degraded"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tracker did not stop")
	}
}

func TestHealthTracker_TrackEndsWhenStoreCloses(t *testing.T) {
	t.Parallel()

	store, err := cache.NewStore(hclog.NewNullLogger(), cache.WithSweepInterval(0))
	require.NoError(t, err)

	reg, err := registry.New(hclog.NewNullLogger(), newFakeCatalog(), store)
	require.NoError(t, err)

	h := newTestHealthTracker(t)
	done := make(chan error, 1)
	go func() { done <- h.Track(context.Background(), reg) }()

	require.Eventually(t, func() bool {
		return h.Status().Status == "ok"
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, store.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tracker did not stop")
	}
}
