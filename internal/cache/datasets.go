package cache

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"sales-dashboard/internal/loader"
	"sales-dashboard/internal/models"
)

// LoadFunc reads a dataset from its source.
type LoadFunc func(ctx context.Context, cfg loader.Config) (*models.Dataset, error)

// Key identifies a cached dataset.
type Key struct {
	Path  string
	Sheet string
}

type entry struct {
	dataset  *models.Dataset
	loadedAt time.Time
}

// Datasets is a read-through cache of loaded datasets keyed by file path and
// sheet. Entries stay until Invalidate or Clear; failed loads are not
// cached.
type Datasets struct {
	mu      sync.RWMutex
	entries map[Key]entry
	load    LoadFunc
	group   singleflight.Group
	// epoch counts invalidations; loads started under an older epoch are
	// returned to their callers but not stored.
	epoch uint64

	hits   atomic.Int64
	misses atomic.Int64
}

func NewDatasets(load LoadFunc) *Datasets {
	if load == nil {
		load = loader.Load
	}
	return &Datasets{
		entries: make(map[Key]entry),
		load:    load,
	}
}

// sharedLoadTimeout bounds a load that has outlived the callers waiting on
// it.
const sharedLoadTimeout = 2 * time.Minute

func (k Key) flightKey() string {
	return k.Path + "\x00" + k.Sheet
}

// Get returns the cached dataset for cfg, loading it on a miss. Concurrent
// misses for the same key share one load. The shared load is detached from
// any single caller: a caller whose ctx ends gets ctx.Err() while the others
// keep waiting.
func (c *Datasets) Get(ctx context.Context, cfg loader.Config) (*models.Dataset, error) {
	key := Key{Path: cfg.Path, Sheet: cfg.Sheet}

	c.mu.RLock()
	e, ok := c.entries[key]
	epoch := c.epoch
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return e.dataset, nil
	}
	c.misses.Add(1)

	ch := c.group.DoChan(key.flightKey(), func() (any, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return e.dataset, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		ds, err := c.load(loadCtx, cfg)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// An invalidation since the lookup means ds may predate the file
		// the caller asked to re-read.
		if c.epoch == epoch {
			c.entries[key] = entry{dataset: ds, loadedAt: time.Now()}
		}
		c.mu.Unlock()
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Dataset), nil
	}
}

// Invalidate drops one entry and reports whether it was present. A load
// already in flight for the key is forgotten, so the next Get reads the
// source again.
func (c *Datasets) Invalidate(path, sheet string) bool {
	key := Key{Path: path, Sheet: sheet}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.epoch++
	c.group.Forget(key.flightKey())
	return ok
}

// Clear drops every entry and returns how many were removed.
func (c *Datasets) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	clear(c.entries)
	c.epoch++
	return n
}

func (c *Datasets) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type EntryStats struct {
	Path     string    `json:"path"`
	Sheet    string    `json:"sheet,omitempty"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}

type Stats struct {
	Entries []EntryStats `json:"entries"`
	Hits    int64        `json:"hits"`
	Misses  int64        `json:"misses"`
}

func (c *Datasets) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		Entries: make([]EntryStats, 0, len(c.entries)),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
	for k, e := range c.entries {
		stats.Entries = append(stats.Entries, EntryStats{
			Path:     k.Path,
			Sheet:    k.Sheet,
			Records:  e.dataset.Len(),
			LoadedAt: e.loadedAt,
		})
	}
	slices.SortFunc(stats.Entries, func(a, b EntryStats) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Sheet, b.Sheet))
	})
	return stats
}
