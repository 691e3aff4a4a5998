package cache

import (
	"sync"
	"time"
)

// Subscription keeps a query's entry alive and delivers its result whenever it changes.
// Only the latest undelivered result is kept; slow consumers skip intermediate states.
// Subscribe should be used to create instances of Subscription.
type Subscription[T any] struct {
	store   *Store
	updates chan Result[T]

	// signal is registered as the listener on the current entry.
	signal chan struct{}

	// switched tells the delivery loop that the query changed.
	switched chan struct{}

	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	query      Query[T]
	listenerID uint64
	attached   bool
}

// Subscribe starts observing q. The current state is delivered immediately, a fetch is started
// if the cached value is missing or stale, and the entry is refetched every RefreshInterval of
// its kind's policy for as long as the subscription stays open.
func Subscribe[T any](s *Store, q Query[T]) *Subscription[T] {
	sub := &Subscription[T]{
		store:    s,
		updates:  make(chan Result[T], 1),
		signal:   make(chan struct{}, 1),
		switched: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	sub.mu.Lock()
	sub.attach(q)
	sub.mu.Unlock()

	s.mu.Lock()
	closed := s.closed
	if !closed {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if closed {
		close(sub.updates)
		return sub
	}

	go sub.run()
	return sub
}

// Updates delivers results until the subscription or the store is closed.
func (sub *Subscription[T]) Updates() <-chan Result[T] {
	return sub.updates
}

// Key returns the key currently observed.
func (sub *Subscription[T]) Key() Key {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	return sub.query.Key
}

// Current returns the latest result for the observed query without waiting.
func (sub *Subscription[T]) Current() Result[T] {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	return sub.snapshotLocked()
}

// Switch moves the subscription to another query. Changes to the previous key are no longer delivered,
// including results that were still in flight when Switch was called.
func (sub *Subscription[T]) Switch(q Query[T]) {
	sub.mu.Lock()
	sub.detach()
	sub.attach(q)
	sub.mu.Unlock()

	select {
	case sub.switched <- struct{}{}:
	default:
	}
}

// Close stops the subscription. The entry becomes eligible for eviction once no other subscribers remain.
func (sub *Subscription[T]) Close() {
	sub.closeOnce.Do(func() {
		close(sub.done)

		sub.mu.Lock()
		sub.detach()
		sub.mu.Unlock()
	})
}

// attach registers the subscription on q's entry. sub.mu must be held.
func (sub *Subscription[T]) attach(q Query[T]) {
	s := sub.store
	sub.query = q
	defer sub.poke()

	if q.Disabled || q.Fetch == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	e := s.entryLocked(q.Key)
	e.fetch = erase(q.Fetch)

	s.listenerID++
	sub.listenerID = s.listenerID
	e.listeners[sub.listenerID] = sub.signal
	sub.attached = true

	now := s.now()
	e.lastUsed = now
	if e.staleLocked(now, s.Policy(e.kind)) || e.err != nil {
		s.startLocked(e)
	}
}

// detach removes the subscription from its current entry. sub.mu must be held.
func (sub *Subscription[T]) detach() {
	if !sub.attached {
		return
	}
	sub.attached = false

	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sub.query.Key]
	if !ok {
		return
	}
	delete(e.listeners, sub.listenerID)
	if len(e.listeners) == 0 {
		e.lastUsed = s.now()
	}
}

func (sub *Subscription[T]) poke() {
	select {
	case sub.signal <- struct{}{}:
	default:
	}
}

// snapshotLocked reads the state of the current query. sub.mu must be held.
func (sub *Subscription[T]) snapshotLocked() Result[T] {
	if sub.query.Disabled {
		return Result[T]{Disabled: true}
	}

	res, ok := Peek[T](sub.store, sub.query.Key)
	if !ok {
		return Result[T]{IsLoading: true}
	}
	return res
}

func (sub *Subscription[T]) refreshInterval() time.Duration {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.query.Disabled {
		return 0
	}
	return sub.store.Policy(sub.query.Key.Kind()).RefreshInterval
}

func (sub *Subscription[T]) run() {
	defer sub.store.wg.Done()
	defer close(sub.updates)

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	resetTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if d := sub.refreshInterval(); d > 0 {
			ticker = time.NewTicker(d)
			tick = ticker.C
		}
	}
	resetTicker()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-sub.done:
			return
		case <-sub.store.ctx.Done():
			return
		case <-sub.switched:
			resetTicker()
		case <-tick:
			sub.store.revalidate(sub.Key())
		case <-sub.signal:
			sub.deliver(sub.Current())
		}
	}
}

// deliver replaces any undelivered result with r.
func (sub *Subscription[T]) deliver(r Result[T]) {
	select {
	case <-sub.updates:
	default:
	}
	select {
	case sub.updates <- r:
	default:
	}
}
