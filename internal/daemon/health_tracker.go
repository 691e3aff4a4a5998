package daemon

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/registry"
)

// HealthWatcher provides a live view of the catalog's health.
type HealthWatcher interface {
	WatchHealth() *cache.Subscription[catalog.Health]
}

// CatalogHealth is the last known health of the catalog service.
type CatalogHealth struct {
	Status         string
	AuthEnabled    bool
	LastChecked    *time.Time
	LastSuccessful *time.Time
}

// HealthTracker holds a health subscription open so the catalog's health is refreshed on the
// policy's interval, and logs every change of status.
// NewHealthTracker should be used to create instances of HealthTracker.
type HealthTracker struct {
	logger hclog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	health CatalogHealth
}

// NewHealthTracker creates a tracker whose status is unknown until the first check completes.
func NewHealthTracker(logger hclog.Logger) (*HealthTracker, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &HealthTracker{
		logger: logger.Named("health"),
		now:    time.Now,
		health: CatalogHealth{Status: catalog.HealthStatusUnknown},
	}, nil
}

// Status returns the last known health.
func (h *HealthTracker) Status() CatalogHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.health
}

// Update records a health result and reports whether the status changed.
// Results taken while a check is in flight are ignored.
func (h *HealthTracker) Update(res cache.Result[catalog.Health]) bool {
	if res.IsFetching {
		return false
	}

	current := registry.HealthOrUnknown(res)
	now := h.now().UTC()

	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.health
	next := CatalogHealth{
		Status:         current.Status,
		AuthEnabled:    current.AuthEnabled,
		LastChecked:    &now,
		LastSuccessful: prev.LastSuccessful,
	}
	if res.HasData() && !res.FetchedAt.IsZero() {
		fetchedAt := res.FetchedAt.UTC()
		next.LastSuccessful = &fetchedAt
	}
	h.health = next

	if res.Error != nil {
		h.logger.Warn("Catalog health check failed", "error", res.Error)
	}

	if prev.Status == next.Status {
		return false
	}

	h.logger.Info("Catalog health changed", "from", prev.Status, "to", next.Status, "auth", next.AuthEnabled)
	return true
}

// Track subscribes to the catalog's health and records every update until ctx is done
// or the subscription ends.
func (h *HealthTracker) Track(ctx context.Context, watcher HealthWatcher) error {
	if watcher == nil || reflect.ValueOf(watcher).IsNil() {
		return fmt.Errorf("health watcher cannot be nil")
	}

	sub := watcher.WatchHealth()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case res, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			h.Update(res)
		}
	}
}
