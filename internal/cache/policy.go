package cache

import (
	"fmt"
	"time"
)

// Kind groups queries that share a freshness policy.
type Kind string

const (
	KindServers    Kind = "servers"
	KindServersAll Kind = "servers-all"
	KindSearch     Kind = "search-servers"
	KindServer     Kind = "server"
	KindHealth     Kind = "health"
)

// Policy controls how long a cached value is served without refetching,
// how long an unused entry is retained and how often subscribed entries refresh.
type Policy struct {
	// StaleAfter is the age at which a value stops being fresh.
	StaleAfter time.Duration `json:"stale_after" yaml:"stale_after"`

	// EvictAfter is how long an entry with no subscribers is kept.
	EvictAfter time.Duration `json:"evict_after" yaml:"evict_after"`

	// RefreshInterval, when set, refetches subscribed entries on a timer regardless of staleness.
	RefreshInterval time.Duration `json:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
}

// Validate reports whether the durations are usable.
func (p Policy) Validate() error {
	if p.StaleAfter < 0 {
		return fmt.Errorf("stale after cannot be negative, got %v", p.StaleAfter)
	}
	if p.EvictAfter <= 0 {
		return fmt.Errorf("evict after must be positive, got %v", p.EvictAfter)
	}
	if p.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval cannot be negative, got %v", p.RefreshInterval)
	}
	return nil
}

// defaultPolicy applies to kinds without an explicit policy.
var defaultPolicy = Policy{StaleAfter: 0, EvictAfter: 5 * time.Minute}

// DefaultPolicies returns the freshness rules for each kind of query.
func DefaultPolicies() map[Kind]Policy {
	list := Policy{StaleAfter: 5 * time.Minute, EvictAfter: 10 * time.Minute}

	return map[Kind]Policy{
		KindServers:    list,
		KindServersAll: list,
		KindServer:     {StaleAfter: 10 * time.Minute, EvictAfter: 30 * time.Minute},
		KindSearch:     {StaleAfter: 2 * time.Minute, EvictAfter: 5 * time.Minute},
		KindHealth:     {StaleAfter: 10 * time.Second, EvictAfter: time.Minute, RefreshInterval: 30 * time.Second},
	}
}
