// Package pagecache keeps recently fetched article fragments in memory so
// revisiting a page needs no network round-trip.
package pagecache

import "container/list"

// DefaultCapacity is the number of pages kept when no capacity is given.
const DefaultCapacity = 20

// Entry is one fetched article. Entries are never modified after insertion.
type Entry struct {
	Path     string
	Title    string
	BodyHTML string
}

// Cache is a least-recently-used store of entries keyed by path.
// It is not safe for concurrent use; it is confined to the main loop.
type Cache struct {
	capacity int
	order    *list.List // front is most recently used
	byPath   map[string]*list.Element
}

// New creates a cache holding at most capacity entries.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		byPath:   make(map[string]*list.Element),
	}
}

// Get returns the entry for path and promotes it to most recently used.
func (c *Cache) Get(path string) (Entry, bool) {
	el, ok := c.byPath[path]
	if !ok {
		return Entry{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(Entry), true
}

// Put inserts e as the most recently used entry, replacing any entry with
// the same path, and evicts the least recently used entries beyond capacity.
func (c *Cache) Put(e Entry) {
	if el, ok := c.byPath[e.Path]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}
	c.byPath[e.Path] = c.order.PushFront(e)
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byPath, oldest.Value.(Entry).Path)
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.order.Len()
}

// Paths lists cached paths from most to least recently used.
func (c *Cache) Paths() []string {
	paths := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		paths = append(paths, el.Value.(Entry).Path)
	}
	return paths
}
