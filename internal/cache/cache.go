// Package cache holds query results keyed by their inputs, serving fresh values directly,
// serving stale values while revalidating them, and collapsing concurrent fetches of the same key.
//
// Every change to an entry happens under the Store's lock, and every fetch is tagged with the
// generation it was started under. Every fetch start, invalidation and refetch advances the
// entry's generation, so a response that arrives for an older generation is dropped rather
// than overwriting newer state.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrClosed is returned for queries issued after the store has been closed.
	ErrClosed = errors.New("cache closed")

	// ErrNotCached is returned when refetching a key that has never been queried.
	ErrNotCached = errors.New("key not cached")

	// ErrTypeMismatch is returned when a key is read with a different type than it was stored with.
	ErrTypeMismatch = errors.New("cached value has unexpected type")
)

type fetchFunc func(ctx context.Context) (any, error)

// entry is the cached state of one key. All fields are guarded by Store.mu.
type entry struct {
	key  Key
	kind Kind

	value     any
	hasValue  bool
	err       error
	fetchedAt time.Time

	// invalidated forces the next read to treat the value as stale.
	invalidated bool

	// generation is advanced whenever in-flight results for this entry must be ignored.
	generation uint64

	// appliedGen is the generation whose fetch result the entry currently reflects.
	appliedGen uint64

	// fetching is true while a fetch for fetchGen is outstanding.
	fetching bool
	fetchGen uint64

	// fetch is the most recently supplied way to obtain the value.
	fetch fetchFunc

	// listeners are signalled on every change; an entry with listeners is never evicted.
	listeners map[uint64]chan struct{}

	// lastUsed is when the entry was last read, fetched or unsubscribed from.
	lastUsed time.Time

	// changed is closed and replaced on every change, waking blocked readers.
	changed chan struct{}
}

func (e *entry) staleLocked(now time.Time, p Policy) bool {
	return !e.hasValue || e.invalidated || now.Sub(e.fetchedAt) >= p.StaleAfter
}

// settledLocked reports whether the entry reflects a completed fetch of its current generation.
func (e *entry) settledLocked() bool {
	return !e.fetching && e.appliedGen == e.generation
}

// Store caches query results.
// NewStore should be used to create instances of Store.
type Store struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	policies   map[Kind]Policy
	now        func() time.Time
	observer   Observer
	logger     hclog.Logger
	generation uint64
	listenerID uint64
	closed     bool

	// ctx is cancelled when the store is closed; background fetches run under it.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore creates a store and starts its eviction janitor.
// Close must be called to stop background work.
func NewStore(logger hclog.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	o, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		entries:  make(map[Key]*entry),
		policies: o.policies,
		now:      o.now,
		observer: o.observer,
		logger:   logger.Named("cache"),
		ctx:      ctx,
		cancel:   cancel,
	}

	if o.sweepInterval > 0 {
		s.wg.Add(1)
		go s.janitor(o.sweepInterval)
	}

	return s, nil
}

// Policy returns the policy applied to a kind of query.
func (s *Store) Policy(kind Kind) Policy {
	if p, ok := s.policies[kind]; ok {
		return p
	}
	return defaultPolicy
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Close stops the janitor and all background work, waiting for in-flight fetches to return.
// Subscriptions stop delivering updates.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Store) janitor(interval time.Duration) {
	defer s.wg.Done()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("Evicted unused entries", "count", n)
			}
		}
	}
}

// Sweep evicts every entry that has no subscribers, no fetch in flight,
// and has not been used for its kind's EvictAfter. It returns the number evicted.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for key, e := range s.entries {
		if len(e.listeners) > 0 || e.fetching {
			continue
		}
		if now.Sub(e.lastUsed) < s.Policy(e.kind).EvictAfter {
			continue
		}

		delete(s.entries, key)
		s.notifyLocked(e)
		s.observer.Evicted(e.kind)
		evicted++
	}

	return evicted
}

// Invalidate marks a key as stale and ignores any fetch already in flight for it.
// Subscribed keys are refetched immediately; others on their next read.
// It reports whether the key was cached.
func (s *Store) Invalidate(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.invalidateLocked(e)
	return true
}

// InvalidateKind invalidates every cached key of the given kind and returns how many there were.
func (s *Store) InvalidateKind(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if e.kind == kind {
			s.invalidateLocked(e)
			n++
		}
	}
	return n
}

func (s *Store) invalidateLocked(e *entry) {
	e.invalidated = true
	e.generation = s.nextGenerationLocked()
	if len(e.listeners) > 0 {
		s.startLocked(e)
	}
	s.notifyLocked(e)
}

// Clear drops every cached value. Unsubscribed entries are removed;
// subscribed entries are reset to loading and refetched.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if len(e.listeners) == 0 {
			delete(s.entries, key)
			s.notifyLocked(e)
			continue
		}

		e.value = nil
		e.hasValue = false
		e.err = nil
		e.fetchedAt = time.Time{}
		e.invalidated = false
		e.generation = s.nextGenerationLocked()
		s.startLocked(e)
		s.notifyLocked(e)
	}

	s.logger.Debug("Cache cleared")
}

// Refetch discards any in-flight fetch for key, fetches it again and waits for the result.
// The returned error is the outcome of the new fetch.
func (s *Store) Refetch(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	e, ok := s.entries[key]
	if !ok || e.fetch == nil {
		return fmt.Errorf("%w: %s", ErrNotCached, key)
	}

	e.generation = s.nextGenerationLocked()
	s.startLocked(e)

	e, err := s.awaitLocked(ctx, e)
	if err != nil {
		return err
	}
	return e.err
}

// revalidate starts a fetch for key unless one is already running. It does not discard in-flight work.
func (s *Store) revalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !s.closed {
		s.startLocked(e)
	}
}

func (s *Store) nextGenerationLocked() uint64 {
	s.generation++
	return s.generation
}

// entryLocked returns the entry for key, creating it if necessary.
func (s *Store) entryLocked(key Key) *entry {
	if e, ok := s.entries[key]; ok {
		return e
	}

	e := &entry{
		key:        key,
		kind:       key.Kind(),
		generation: s.nextGenerationLocked(),
		listeners:  make(map[uint64]chan struct{}),
		lastUsed:   s.now(),
		changed:    make(chan struct{}),
	}
	s.entries[key] = e
	return e
}

// notifyLocked wakes readers blocked on e and signals its subscribers.
func (s *Store) notifyLocked(e *entry) {
	close(e.changed)
	e.changed = make(chan struct{})

	for _, ch := range e.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// startLocked begins a fetch under a new generation unless one for the current generation is
// already running. Any older fetch still in flight is discarded when it completes.
func (s *Store) startLocked(e *entry) {
	if s.closed || e.fetch == nil {
		return
	}
	if e.fetching && e.fetchGen == e.generation {
		return
	}

	gen := s.nextGenerationLocked()
	fetch := e.fetch
	e.generation = gen
	e.fetching = true
	e.fetchGen = gen
	s.notifyLocked(e)

	s.logger.Trace("Fetching", "key", e.key, "generation", gen)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		start := time.Now()
		v, err := fetch(s.ctx)
		s.complete(e, gen, v, err, time.Since(start))
	}()
}

// complete applies a fetch result if it belongs to the entry's current generation.
func (s *Store) complete(e *entry, gen uint64, v any, err error, took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[e.key]; !ok || cur != e {
		s.observer.Discarded(e.kind)
		s.logger.Debug("Discarding response for removed entry", "key", e.key, "generation", gen)
		return
	}

	if gen != e.generation {
		s.observer.Discarded(e.kind)
		s.logger.Debug(
			"Discarding superseded response",
			"key", e.key,
			"generation", gen,
			"current", e.generation,
		)
		if e.fetchGen == gen {
			e.fetching = false
			s.notifyLocked(e)
		}
		return
	}

	now := s.now()
	e.fetching = false
	e.appliedGen = gen
	e.lastUsed = now
	s.observer.Fetched(e.kind, took, err)

	if err != nil {
		// Keep serving the previous value, if any.
		e.err = err
		s.logger.Warn("Fetch failed", "key", e.key, "error", err)
	} else {
		e.value = v
		e.hasValue = true
		e.err = nil
		e.fetchedAt = now
		e.invalidated = false
	}

	s.notifyLocked(e)
}

// awaitLocked blocks, with s.mu held on entry and exit, until the entry for e's key has settled.
// If the entry is removed while waiting, the wait continues on a replacement entry.
func (s *Store) awaitLocked(ctx context.Context, e *entry) (*entry, error) {
	for !e.settledLocked() {
		if !e.fetching {
			s.startLocked(e)
			if !e.fetching {
				// Closed, or nothing to fetch with.
				if s.closed {
					return e, ErrClosed
				}
				return e, nil
			}
		}

		ch := e.changed
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			s.mu.Lock()
			return e, ctx.Err()
		}
		s.mu.Lock()

		if cur, ok := s.entries[e.key]; !ok || cur != e {
			if s.closed {
				return e, ErrClosed
			}
			fetch := e.fetch
			e = s.entryLocked(e.key)
			if e.fetch == nil {
				e.fetch = fetch
			}
		}
	}

	return e, nil
}

func snapshotLocked[T any](e *entry, now time.Time, p Policy) Result[T] {
	r := Result[T]{
		IsFetching: e.fetching,
		Error:      e.err,
	}

	if !e.hasValue {
		r.IsLoading = e.fetching
		return r
	}

	v, ok := e.value.(T)
	if !ok {
		r.Error = fmt.Errorf("%w: '%s' holds %T", ErrTypeMismatch, e.key, e.value)
		return r
	}
	r.Data = &v
	r.FetchedAt = e.fetchedAt
	r.IsStale = e.staleLocked(now, p)

	return r
}

func erase[T any](fetch func(ctx context.Context) (T, error)) fetchFunc {
	return func(ctx context.Context) (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Fetch returns the cached result for q, fetching it if necessary.
//
// A fresh value is returned without fetching. A stale value is returned immediately while a
// single background fetch revalidates it. With no value, Fetch waits for a fetch, sharing it
// with every other caller waiting on the same key. A disabled query returns a Disabled result
// and leaves the cache untouched.
func Fetch[T any](ctx context.Context, s *Store, q Query[T]) Result[T] {
	if q.Disabled {
		return Result[T]{Disabled: true}
	}
	if q.Fetch == nil {
		return Result[T]{Error: fmt.Errorf("query '%s' has no fetch function", q.Key)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Result[T]{Error: ErrClosed}
	}

	e := s.entryLocked(q.Key)
	e.fetch = erase(q.Fetch)

	now := s.now()
	e.lastUsed = now
	p := s.Policy(e.kind)

	if e.hasValue {
		if !e.staleLocked(now, p) {
			s.observer.Hit(e.kind)
			return snapshotLocked[T](e, now, p)
		}

		s.observer.StaleHit(e.kind)
		s.startLocked(e)
		return snapshotLocked[T](e, now, p)
	}

	s.observer.Miss(e.kind)

	// A previous failure is retried rather than served.
	s.startLocked(e)

	e, err := s.awaitLocked(ctx, e)
	r := snapshotLocked[T](e, s.now(), p)
	if err != nil {
		r.Error = err
	}
	return r
}

// Peek returns the cached result for key without fetching or touching it.
// It reports false when the key is not cached.
func Peek[T any](s *Store, key Key) (Result[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Result[T]{Error: ErrClosed}, true
	}

	e, ok := s.entries[key]
	if !ok {
		return Result[T]{}, false
	}
	return snapshotLocked[T](e, s.now(), s.Policy(e.kind)), true
}
