package cache

import (
	"time"
)

// Observer receives cache events, typically to export metrics.
// Methods are called with the store's lock held and must not call back into the store.
type Observer interface {
	// Hit is called when a fresh value is served.
	Hit(kind Kind)

	// StaleHit is called when a stale value is served while it is revalidated.
	StaleHit(kind Kind)

	// Miss is called when a query has no usable value and must wait for a fetch.
	Miss(kind Kind)

	// Fetched is called when an underlying fetch finishes and its result is applied.
	Fetched(kind Kind, took time.Duration, err error)

	// Discarded is called when a fetch finishes for a superseded generation.
	Discarded(kind Kind)

	// Evicted is called when an unused entry is removed.
	Evicted(kind Kind)
}

type noopObserver struct{}

func (noopObserver) Hit(Kind) {}
func (noopObserver) StaleHit(Kind) {}
func (noopObserver) Miss(Kind) {}
func (noopObserver) Fetched(Kind, time.Duration, error) {}
func (noopObserver) Discarded(Kind) {}
func (noopObserver) Evicted(Kind) {}
