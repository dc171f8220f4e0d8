// Package dedupe tracks snapshot IDs the worker has already indexed.
package dedupe

import (
	"container/list"
	"sync"
	"time"
)

type record struct {
	id       string
	markedAt time.Time
}

// Cache remembers recently indexed snapshot IDs so replayed Kafka messages
// do not hit Elasticsearch twice. Entries age out after ttl and the least
// recently marked ID is dropped once capacity is exceeded.
type Cache struct {
	mu    sync.Mutex
	byID  map[string]*list.Element
	lru   *list.List
	limit int
	ttl   time.Duration
	now   func() time.Time
}

// NewCache builds a cache holding at most capacity IDs for ttl each.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		byID:  make(map[string]*list.Element, capacity),
		lru:   list.New(),
		limit: capacity,
		ttl:   ttl,
		now:   time.Now,
	}
}

// IsSeen reports whether id was marked within the ttl window. It never marks id.
func (c *Cache) IsSeen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byID[id]
	if !ok {
		return false
	}
	return c.now().Sub(el.Value.(*record).markedAt) <= c.ttl
}

// MarkSeen records id as indexed, refreshing it when already present.
func (c *Cache) MarkSeen(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.byID[id]; ok {
		el.Value.(*record).markedAt = now
		c.lru.MoveToFront(el)
	} else {
		c.byID[id] = c.lru.PushFront(&record{id: id, markedAt: now})
	}
	c.evict(now)
}

// Len returns the number of IDs currently tracked.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// evict trims from the back: first anything over capacity, then anything expired.
func (c *Cache) evict(now time.Time) {
	for el := c.lru.Back(); el != nil; el = c.lru.Back() {
		rec := el.Value.(*record)
		if c.lru.Len() <= c.limit && now.Sub(rec.markedAt) <= c.ttl {
			return
		}
		c.lru.Remove(el)
		delete(c.byID, rec.id)
	}
}
