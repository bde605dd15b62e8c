package store

import (
	"sync"
	"time"

	"github.com/hellodex/otcboard/model"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
)

const paymentKeyPrefix = "payment:"

// Catalog remembers the payment methods the platform advertised, keyed by payment type id.
// Entries never expire on their own; once ttl has passed since the last load the catalog
// reports itself stale and the owner is expected to reload it.
type Catalog struct {
	mu       sync.RWMutex
	store    *cache.Cache
	ttl      time.Duration
	loadedAt time.Time
	now      func() time.Time
}

func NewCatalog(ttl time.Duration) *Catalog {
	return &Catalog{
		store: cache.New(cache.NoExpiration, 0),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the clock used for staleness.
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

func paymentKey(id string) string {
	return paymentKeyPrefix + id
}

// Load replaces the known payments.
func (c *Catalog) Load(payments []model.Payment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Flush()
	for _, p := range payments {
		c.store.Set(paymentKey(p.Type), p.Name, cache.NoExpiration)
	}
	c.loadedAt = c.now()
}

// Touch restarts the staleness window without changing the entries.
func (c *Catalog) Touch() {
	c.mu.Lock()
	c.loadedAt = c.now()
	c.mu.Unlock()
}

// Stale reports whether the catalog was never loaded or is older than its ttl.
// A non-positive ttl never goes stale after the first load.
func (c *Catalog) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loadedAt.IsZero() {
		return true
	}
	return c.ttl > 0 && c.now().Sub(c.loadedAt) >= c.ttl
}

// Len is the number of unexpired entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store.Items())
}

func (c *Catalog) Name(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name(id)
}

func (c *Catalog) name(id string) (string, bool) {
	v, ok := c.store.Get(paymentKey(id))
	if !ok {
		return "", false
	}
	name, _ := v.(string)
	return name, true
}

// Unknown returns the ids not present in the catalog. An empty catalog knows nothing to reject.
func (c *Catalog) Unknown(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.store.Items()) == 0 {
		return nil
	}
	return lo.Filter(lo.Uniq(ids), func(id string, _ int) bool {
		_, ok := c.name(id)
		return !ok
	})
}
