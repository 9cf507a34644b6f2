package patchstore

import (
	"github.com/couchcryptid/spitfire-etl/internal/domain"
)

// lruCache keeps the most recently stepped patches. It is not safe for
// concurrent use; Store serializes access.
type lruCache struct {
	maxEntries int
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
	onEvict    func(*domain.Patch)
}

type entry struct {
	key   string
	value *domain.Patch
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int, onEvict func(*domain.Patch)) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
		onEvict:    onEvict,
	}
}

func (c *lruCache) len() int { return len(c.entries) }

func (c *lruCache) get(key string) (*domain.Patch, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

// peek looks up a patch without changing its recency.
func (c *lruCache) peek(key string) (*domain.Patch, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *lruCache) put(key string, value *domain.Patch) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	victim := c.tail
	delete(c.entries, victim.key)
	c.remove(victim)
	if c.onEvict != nil {
		c.onEvict(victim.value)
	}
}
