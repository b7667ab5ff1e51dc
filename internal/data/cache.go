package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"power-sim/internal/analysis"
	"power-sim/internal/model"
	"power-sim/internal/simulation"
)

// Entry is one completed simulation kept around so the API can serve its
// ensemble and rankings after the POST that produced it.
type Entry struct {
	ID          string
	Fingerprint string
	Scenario    string
	Result      *simulation.Result
	Summary     analysis.SummaryStats
	Band        *analysis.PercentileBand
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// ResultCache is an in-memory TTL store for simulation results, indexed by
// id and by input fingerprint. Runs are deterministic in their inputs, so a
// repeated request can be answered from the fingerprint index.
type ResultCache struct {
	mu         sync.RWMutex
	byID       map[string]*Entry
	byPrint    map[string]string
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewResultCache returns a cache. maxEntries <= 0 means unbounded.
func NewResultCache(ttl time.Duration, maxEntries int) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		byID:       make(map[string]*Entry),
		byPrint:    make(map[string]string),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves an entry by id if present and not expired.
func (c *ResultCache) Get(id string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byID[id]
	if !ok || c.now().After(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

// Lookup finds a live entry produced from the same fingerprint.
func (c *ResultCache) Lookup(fingerprint string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	id, ok := c.byPrint[fingerprint]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.Get(id)
}

// Put stores e under a fresh id and returns it. When the cache is full the
// oldest entry is evicted.
func (c *ResultCache) Put(e *Entry) *Entry {
	if c == nil {
		return e
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.ExpiresAt = now.Add(c.ttl)

	if c.maxEntries > 0 && len(c.byID) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.byID[e.ID] = e
	if e.Fingerprint != "" {
		c.byPrint[e.Fingerprint] = e.ID
	}
	return e
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Prune drops expired entries and returns how many were removed.
func (c *ResultCache) Prune() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, e := range c.byID {
		if now.After(e.ExpiresAt) {
			c.deleteLocked(id, e)
			n++
		}
	}
	return n
}

// Run prunes on every tick until ctx is done.
func (c *ResultCache) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Prune()
		}
	}
}

func (c *ResultCache) evictOldestLocked() {
	var oldest *Entry
	for _, e := range c.byID {
		if oldest == nil || e.CreatedAt.Before(oldest.CreatedAt) {
			oldest = e
		}
	}
	if oldest != nil {
		c.deleteLocked(oldest.ID, oldest)
	}
}

func (c *ResultCache) deleteLocked(id string, e *Entry) {
	delete(c.byID, id)
	if e.Fingerprint != "" && c.byPrint[e.Fingerprint] == id {
		delete(c.byPrint, e.Fingerprint)
	}
}

// Fingerprint creates a deterministic key from the run inputs and the
// requested percentile levels.
func Fingerprint(in model.Inputs, levels []float64) string {
	raw, err := json.Marshal(struct {
		Inputs model.Inputs
		Levels []float64
	}{in, levels})
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:])
}
