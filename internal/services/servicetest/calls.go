// Package servicetest provides in-memory stores for service tests. Every
// store counts its calls so tests can assert that a denied request never
// reached persistence.
package servicetest

import (
	"sort"
	"sync"

	"github.com/amrella/amrella-backend/internal/models"
)

type Calls struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *Calls) record(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[method]++
}

func (c *Calls) Count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[method]
}

func (c *Calls) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Activity collects audit entries written by a store.
type Activity struct {
	mu      sync.Mutex
	entries []models.AdminActivityLog
}

func (a *Activity) add(entry *models.AdminActivityLog) {
	if entry == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *entry)
}

func (a *Activity) Entries() []models.AdminActivityLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AdminActivityLog(nil), a.entries...)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func newestFirst[T any](items []T, created func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return created(items[i]) > created(items[j]) })
}
