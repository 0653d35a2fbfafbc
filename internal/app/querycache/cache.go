package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxEntries = 512
	DefaultStaleTime  = 30 * time.Second
)

// Scopes used by the services
const (
	ScopeCart        = "cart"
	ScopeOrders      = "orders"
	ScopeRestaurants = "restaurants"
	ScopeRestaurant  = "restaurant"
	ScopeReviews     = "reviews"
	ScopeProfile     = "profile"
)

// Key identifies one cached server response. Params holds the encoded
// query parameters, empty for parameterless reads.
type Key struct {
	Scope  string
	User   string
	Params string
}

func (k Key) String() string {
	return k.Scope + "|" + k.User + "|" + k.Params
}

type owner struct {
	scope string
	user  string
}

type entry struct {
	value    any
	storedAt time.Time
}

// Cache holds server responses per user. Invalidating a (scope, user) pair
// drops its entries and discards results of reads that were already in
// flight, so a late response never overwrites fresher truth.
type Cache struct {
	mu        sync.Mutex
	entries   *lru.Cache
	staleTime time.Duration
	now       func() time.Time

	owned     map[owner]map[Key]struct{}
	ownerGen  map[owner]uint64
	scopeGen  map[string]uint64
	inflights singleflight.Group
}

func New(maxEntries int, staleTime time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}

	c := &Cache{
		entries:   lru.New(maxEntries),
		staleTime: staleTime,
		now:       time.Now,
		owned:     make(map[owner]map[Key]struct{}),
		ownerGen:  make(map[owner]uint64),
		scopeGen:  make(map[string]uint64),
	}
	c.entries.OnEvicted = func(k lru.Key, _ interface{}) {
		key := k.(Key)
		o := owner{scope: key.Scope, user: key.User}
		delete(c.owned[o], key)
		if len(c.owned[o]) == 0 {
			delete(c.owned, o)
		}
	}
	return c
}

// SetClock replaces the time source, used in tests
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Set stores v under key unconditionally
func (c *Cache) Set(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, v)
}

// store expects c.mu to be held
func (c *Cache) store(key Key, v any) {
	c.entries.Add(key, entry{value: v, storedAt: c.now()})
	o := owner{scope: key.Scope, user: key.User}
	if c.owned[o] == nil {
		c.owned[o] = make(map[Key]struct{})
	}
	c.owned[o][key] = struct{}{}
}

func (c *Cache) lookup(key Key, freshOnly bool) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	e := raw.(entry)
	if freshOnly && c.now().Sub(e.storedAt) > c.staleTime {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) generation(o owner) (uint64, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownerGen[o], c.scopeGen[o.scope]
}

// Invalidate drops every entry of one user in scope
func (c *Cache) Invalidate(scope, user string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o := owner{scope: scope, user: user}
	c.ownerGen[o]++
	for key := range c.owned[o] {
		c.entries.Remove(key)
	}
	delete(c.owned, o)
}

// InvalidateScope drops the scope for every user
func (c *Cache) InvalidateScope(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scopeGen[scope]++
	for o, keys := range c.owned {
		if o.scope != scope {
			continue
		}
		for key := range keys {
			c.entries.Remove(key)
		}
		delete(c.owned, o)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Peek returns the cached value for key even if it is stale
func Peek[T any](c *Cache, key Key) (T, bool) {
	var zero T
	raw, ok := c.lookup(key, false)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Fetch returns the fresh cached value for key or loads it with fn.
// Concurrent loads of the same key share one call. Errors are not cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if raw, ok := c.lookup(key, true); ok {
		if v, ok := raw.(T); ok {
			return v, nil
		}
	}

	o := owner{scope: key.Scope, user: key.User}
	raw, err, _ := c.inflights.Do(key.String(), func() (interface{}, error) {
		ownerGen, scopeGen := c.generation(o)

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.ownerGen[o] == ownerGen && c.scopeGen[o.scope] == scopeGen {
			c.store(key, v)
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("querycache: unexpected value type %T for %s", raw, key)
	}
	return v, nil
}
