// Package cache provides TTL caches for catalog reads: an in-memory
// implementation and a Redis-backed one sharing the same interface.
package cache

import (
	"sync"
	"time"
)

// Sweep bounds for the in-memory cache. Short TTLs are swept at most every
// minSweep; long TTLs at least every maxSweep.
const (
	minSweep = 10 * time.Millisecond
	maxSweep = time.Minute
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// InMemory is a process-local TTL cache, safe for concurrent use. A
// non-positive TTL disables it: Set is a no-op and every Get misses.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	swept    sync.WaitGroup
}

// New creates an in-memory cache whose entries live for ttl. Call Close to
// stop the background sweeper.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	if ttl > 0 {
		c.swept.Add(1)
		go c.sweep(min(max(ttl, minSweep), maxSweep))
	}
	return c
}

// Get returns the live value stored under key.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the cache TTL.
func (c *InMemory[T]) Set(key string, value T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key] = entry[T]{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete drops key.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len counts stored entries, expired ones included until the next sweep.
func (c *InMemory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper and waits for it to exit. Safe to call more than
// once.
func (c *InMemory[T]) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.swept.Wait()
	return nil
}

func (c *InMemory[T]) sweep(every time.Duration) {
	defer c.swept.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.items {
				if e.expired(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
