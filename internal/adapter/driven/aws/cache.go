package aws

import (
	"sync"
	"time"
)

// defaultCacheTTL controla por quanto tempo uma resposta de API vale dentro
// de uma mesma execução. O Cost Explorer cobra por chamada, então evitamos
// repetir consultas idênticas entre relatórios.
const defaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// ttlCache é um armazém chave→valor com expiração, protegido por mutex.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *ttlCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *ttlCache) put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}
