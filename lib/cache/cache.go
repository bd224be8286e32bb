// Package cache implements a small TTL memoization cache. It exists for
// repeat lookups that are expensive but slow-changing, such as
// namespace-existence checks. The store only grows; there is no eviction
// beyond lazy expiry on read and explicit Clear/Invalidate.
package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cache memoizes values under string keys for a fixed TTL. Safe for
// concurrent use.
type Cache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]entry

	now func() time.Time
}

type entry struct {
	value   any
	expires time.Time
}

// New returns a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key composes a cache key from a function name and its arguments. Keyword
// style arguments should be passed pre-sorted so equal calls map to equal
// keys.
func Key(fn string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, fn)

	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}

	return strings.Join(parts, ":")
}

// KeyKW composes a cache key from a function name, positional arguments,
// and keyword arguments sorted by name.
func KeyKW(fn string, args []any, kw map[string]any) string {
	names := make([]string, 0, len(kw))
	for name := range kw {
		names = append(names, name)
	}
	sort.Strings(names)

	all := make([]any, 0, len(args)+len(kw))
	all = append(all, args...)

	for _, name := range names {
		all = append(all, fmt.Sprintf("%s=%v", name, kw[name]))
	}

	return Key(fn, all...)
}

// Do returns the cached value for key if it is still fresh; otherwise it
// invokes compute, stores the result, and returns it. A compute error is
// never cached.
func (c *Cache) Do(key string, compute func() (any, error)) (any, error) {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expires) {
			c.mu.Unlock()
			return e.value, nil
		}

		delete(c.entries, key)
	}

	c.mu.Unlock()

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return value, nil
}

// Get returns the fresh cached value for key, if any.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}

	return e.value, true
}

// Clear empties the whole store.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Invalidate removes entries whose key starts with prefix. This is a plain
// string match against the composed key, not a semantic argument match.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
