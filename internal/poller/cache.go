// Package poller implements the status-drift poller: a timer loop that diffs
// a bounded window of recent orders against a last-seen-status cache and fires
// the payment notification path when an order's status changed out-of-band.
package poller

import "sync"

// StatusCache maps order ids to their last observed normalized status. It only
// ever tracks the bounded recent working set; entries are evicted when the
// order turns terminal, leaves the monitored window or disappears.
type StatusCache struct {
	mu       sync.Mutex
	statuses map[int64]string
}

// NewStatusCache creates an empty StatusCache.
func NewStatusCache() *StatusCache {
	return &StatusCache{statuses: make(map[int64]string)}
}

// Get returns the cached status for the order and whether one exists.
func (c *StatusCache) Get(orderID int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[orderID]
	return status, ok
}

// Set records the order's last observed status.
func (c *StatusCache) Set(orderID int64, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[orderID] = status
}

// Delete evicts the order from the cache.
func (c *StatusCache) Delete(orderID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statuses, orderID)
}

// IDs returns the cached order ids in unspecified order.
func (c *StatusCache) IDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int64, 0, len(c.statuses))
	for id := range c.statuses {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of cached entries.
func (c *StatusCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.statuses)
}
