// internal/metacache/store.go
// Package metacache optionally caches the result of platform metadata
// queries (agents(), agentsForService(), agentForService()) for a short TTL,
// so a process issuing the same query repeatedly (e.g. a CLI polling agent
// presence) does not round-trip to the platform every time. Grounded on the
// teacher's internal/gateway/retention package: a small Store interface with
// an in-memory implementation and an optional Redis-backed one for sharing
// the cache across multiple Gateway instances in the same process group.
// Unlike the teacher's append-only chunk retention, this is a key/TTL cache,
// so the Store shape is Get/Set rather than Write/ReadAll.
package metacache

import "time"

// Store caches byte-slice values (JSON-encoded query results) under a
// string key for a bounded time-to-live. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the cached value for key and whether it was found and not
	// yet expired.
	Get(key string) ([]byte, bool)
	// Set stores value under key for ttl.
	Set(key string, value []byte, ttl time.Duration)
}

// Noop is a Store that caches nothing; used when no cache is configured so
// callers can unconditionally consult a Store without a nil check.
type Noop struct{}

func (Noop) Get(string) ([]byte, bool)     { return nil, false }
func (Noop) Set(string, []byte, time.Duration) {}
