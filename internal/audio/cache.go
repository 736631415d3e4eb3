package audio

import "sync"

// Cache maps resolved asset paths to decoded buffers. It lives for the
// process lifetime and is never evicted; the catalog is small and finite.
type Cache struct {
	mu      sync.Mutex
	buffers map[string]*Buffer
}

func NewCache() *Cache {
	return &Cache{buffers: make(map[string]*Buffer)}
}

func (c *Cache) Get(path string) (*Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buffers[path]
	return b, ok
}

func (c *Cache) Put(path string, b *Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffers[path] = b
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffers)
}
