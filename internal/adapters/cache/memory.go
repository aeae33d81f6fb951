// Package cache provides in-process implementations of the cache port.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ozend/earnings-proxy/internal/domain"
)

// entry is one cached value with its expiry. A zero deadline never expires.
type entry struct {
	value    []byte
	deadline time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

// Memory is a concurrency-safe in-memory cache implementing ports.Cache.
// Entries are evicted lazily on read and by a periodic sweep; the cache
// does not survive process restarts.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMemory creates a new in-memory cache and starts its expiry sweep.
// Call Close when the cache is no longer needed.
func NewMemory(sweepInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if sweepInterval > 0 {
		go m.sweep(sweepInterval)
	}

	return m
}

// Get retrieves a value from the cache.
// Returns domain.ErrNotFound if the key does not exist or has expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	if e.expired(m.now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()

		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return e.value, nil
}

// Set stores a value with a TTL in seconds. A TTL of 0 means no expiration.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	var deadline time.Time
	if ttlSeconds > 0 {
		deadline = m.now().Add(time.Duration(ttlSeconds) * time.Second)
	}

	m.mu.Lock()
	m.entries[key] = entry{value: value, deadline: deadline}
	m.mu.Unlock()

	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}

// Len returns the number of live entries, counting not-yet-swept expired
// ones. Intended for tests and metrics.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Close stops the expiry sweep goroutine.
func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// sweep periodically drops expired entries so an idle cache does not
// hold dead values forever.
func (m *Memory) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := m.now()

			m.mu.Lock()
			for key, e := range m.entries {
				if e.expired(now) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
