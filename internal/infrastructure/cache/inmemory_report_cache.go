package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryReportCache implements ReportCache in process memory.
// Suitable for single-instance deployments and tests; instances do not share entries.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]map[string]entry
	gens      map[uuid.UUID]int64
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReportCache creates the cache and starts the expiry sweeper
func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	c := &InMemoryReportCache{
		users:    make(map[uuid.UUID]map[string]entry),
		gens:     make(map[uuid.UUID]int64),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get decodes the cached report into dest. Expired entries are misses.
func (c *InMemoryReportCache) Get(_ context.Context, userID uuid.UUID, key string, dest any) (int64, bool, error) {
	c.mu.RLock()
	gen := c.gens[userID]
	e, ok := c.users[userID][key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return gen, false, nil
	}
	if err := json.Unmarshal(e.value, dest); err != nil {
		return gen, false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return gen, true, nil
}

// Set stores value for the configured TTL. Writes for a past generation are dropped.
func (c *InMemoryReportCache) Set(_ context.Context, userID uuid.UUID, gen int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[userID] != gen {
		return nil
	}

	reports, ok := c.users[userID]
	if !ok {
		reports = make(map[string]entry)
		c.users[userID] = reports
	}
	reports[key] = entry{value: raw, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// InvalidateUser drops every report of userID and starts a new generation.
// Generations are kept after their reports expire so a late write stays stale.
func (c *InMemoryReportCache) InvalidateUser(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	delete(c.users, userID)
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (c *InMemoryReportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of live and expired entries (for tests and monitoring)
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, reports := range c.users {
		n += len(reports)
	}
	return n
}

func (c *InMemoryReportCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryReportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for userID, reports := range c.users {
		for key, e := range reports {
			if now.After(e.expiresAt) {
				delete(reports, key)
			}
		}
		if len(reports) == 0 {
			delete(c.users, userID)
		}
	}
}

var _ ReportCache = (*InMemoryReportCache)(nil)
