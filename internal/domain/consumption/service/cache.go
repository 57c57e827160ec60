package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ResultCache memoises jobs by upload checksum so re-uploading the same
// bytes returns the earlier result. It also indexes jobs by ID.
type ResultCache struct {
	mu         sync.Mutex
	maxEntries int
	byChecksum map[string]*Job
	byID       map[uuid.UUID]*Job
	order      []string // checksums, oldest first
}

// NewResultCache creates a cache holding at most maxEntries jobs.
// A non-positive limit means unbounded.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		maxEntries: maxEntries,
		byChecksum: make(map[string]*Job),
		byID:       make(map[uuid.UUID]*Job),
	}
}

// Get returns the job stored for checksum.
func (c *ResultCache) Get(checksum string) (*Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.byChecksum[checksum]
	return job, ok
}

// Lookup returns the job with the given ID.
func (c *ResultCache) Lookup(id uuid.UUID) (*Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.byID[id]
	return job, ok
}

// Put stores job, evicting the oldest entries beyond the limit.
func (c *ResultCache) Put(job *Job) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.byChecksum[job.Checksum]; ok {
		delete(c.byID, old.ID)
		c.removeOrder(job.Checksum)
	}
	c.byChecksum[job.Checksum] = job
	c.byID[job.ID] = job
	c.order = append(c.order, job.Checksum)

	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		c.evict(c.order[0])
	}
}

// Purge removes jobs created before olderThan and returns how many went.
func (c *ResultCache) Purge(olderThan time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired []string
	for _, sum := range c.order {
		if c.byChecksum[sum].CreatedAt.Before(olderThan) {
			expired = append(expired, sum)
		}
	}
	for _, sum := range expired {
		c.evict(sum)
	}
	return len(expired)
}

// Len returns the number of cached jobs.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.order)
}

func (c *ResultCache) evict(checksum string) {
	if job, ok := c.byChecksum[checksum]; ok {
		delete(c.byID, job.ID)
		delete(c.byChecksum, checksum)
	}
	c.removeOrder(checksum)
}

func (c *ResultCache) removeOrder(checksum string) {
	for i, sum := range c.order {
		if sum == checksum {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
