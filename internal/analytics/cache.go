package analytics

import (
	"sync"
	"time"
)

// Metric names used as cache keys.
const (
	MetricCoreMetrics       = "core-metrics"
	MetricQualityScore      = "quality-score"
	MetricMetafieldAnalysis = "metafield-analysis"
)

// MetricNames lists every cacheable metric, in warm order.
var MetricNames = []string{MetricCoreMetrics, MetricQualityScore, MetricMetafieldAnalysis}

// Entry is one cached metric payload.
type Entry struct {
	Payload    interface{}
	ComputedAt time.Time
}

// Cache holds computed analytics payloads keyed by metric name. Entries
// older than the TTL are treated as absent.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry
}

// NewCache creates an empty cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]Entry),
	}
}

// Get returns a fresh entry for the metric, or false when the metric is
// missing or stale.
func (c *Cache) Get(metric string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[metric]
	if !ok {
		return Entry{}, false
	}
	if time.Since(entry.ComputedAt) > c.ttl {
		return Entry{}, false
	}
	return entry, true
}

// Set stores a freshly computed payload for the metric.
func (c *Cache) Set(metric string, payload interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[metric] = Entry{Payload: payload, ComputedAt: time.Now()}
}

// Clear drops all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
