package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubscribe_DeliversLoadingThenData(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, newFakeClock())

	release := make(chan struct{})
	q := NewQuery(testKey("a"), func(context.Context) (string, error) {
		<-release
		return "ready", nil
	})

	sub := Subscribe(s, q)
	defer sub.Close()

	require.Eventually(t, func() bool { return sub.Current().IsLoading }, time.Second, time.Millisecond)
	close(release)

	require.Eventually(t, func() bool {
		select {
		case r := <-sub.Updates():
			return r.Value() == "ready" && !r.IsLoading
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestSubscribe_Disabled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, newFakeClock())
	sub := Subscribe(s, DisabledQuery[string](testKey("a")))
	defer sub.Close()

	select {
	case r := <-sub.Updates():
		require.True(t, r.Disabled)
	case <-time.After(time.Second):
		t.Fatal("expected a disabled result")
	}
	require.Zero(t, s.Len())
}

func TestSubscription_SwitchIgnoresPreviousKey(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, newFakeClock())

	releaseA := make(chan struct{})
	queryA := NewQuery(testKey("a"), func(context.Context) (string, error) {
		<-releaseA
		return "A", nil
	})
	queryB := NewQuery(testKey("b"), func(context.Context) (string, error) {
		return "B", nil
	})

	sub := Subscribe(s, queryA)
	defer sub.Close()

	sub.Switch(queryB)
	require.Equal(t, queryB.Key, sub.Key())
	require.Eventually(t, func() bool { return sub.Current().Value() == "B" }, time.Second, time.Millisecond)

	// The response for A arrives after the switch and must not surface.
	close(releaseA)
	require.Eventually(t, func() bool {
		p, _ := Peek[string](s, queryA.Key)
		return p.Value() == "A"
	}, time.Second, time.Millisecond)

	deadline := time.After(50 * time.Millisecond)
	for {
		select {
		case r, ok := <-sub.Updates():
			require.True(t, ok)
			if r.HasData() {
				require.Equal(t, "B", r.Value())
			}
		case <-deadline:
			require.Equal(t, "B", sub.Current().Value())
			return
		}
	}
}

func TestSubscription_RefreshInterval(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, newFakeClock(), WithPolicy(KindHealth, Policy{
		StaleAfter:      time.Hour,
		EvictAfter:      time.Hour,
		RefreshInterval: 10 * time.Millisecond,
	}))

	var calls atomic.Int64
	sub := Subscribe(s, NewQuery(HealthKey(), func(context.Context) (string, error) {
		calls.Add(1)
		return "ok", nil
	}))

	// The value never goes stale, so every call past the first comes from the timer.
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	sub.Close()
	_, ok := <-sub.Updates()
	for ok {
		_, ok = <-sub.Updates()
	}

	n := calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.LessOrEqual(t, calls.Load(), n+1, "refresh stops once closed")
}

func TestSubscription_InvalidateRefetchesImmediately(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, newFakeClock())
	fetch, calls := counter()
	q := NewQuery(testKey("a"), fetch)

	sub := Subscribe(s, q)
	defer sub.Close()
	require.Eventually(t, func() bool { return sub.Current().Value() == "v1" }, time.Second, time.Millisecond)

	require.True(t, s.Invalidate(q.Key))
	require.Eventually(t, func() bool { return sub.Current().Value() == "v2" }, time.Second, time.Millisecond)
	require.EqualValues(t, 2, calls.Load())
}

func TestSubscription_ClearRefetchesSubscribed(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, newFakeClock())
	fetch, _ := counter()
	q := NewQuery(testKey("a"), fetch)

	sub := Subscribe(s, q)
	defer sub.Close()
	require.Eventually(t, func() bool { return sub.Current().Value() == "v1" }, time.Second, time.Millisecond)

	s.Clear()
	require.Equal(t, 1, s.Len())
	require.Eventually(t, func() bool { return sub.Current().Value() == "v2" }, time.Second, time.Millisecond)
}

func TestSubscription_StoreClosed(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, newFakeClock())
	fetch, _ := counter()
	sub := Subscribe(s, NewQuery(testKey("a"), fetch))

	require.NoError(t, s.Close())

	// Updates is closed once the store shuts down.
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Updates():
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	sub.Close()
	require.ErrorIs(t, sub.Current().Error, ErrClosed)
}
