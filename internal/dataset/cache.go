//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// Key identifies one version of a dataset. Locator names the dataset
// (source and path or table); Version changes whenever its contents may have
// changed.
type Key struct {
	Locator string
	Version string
}

func (k Key) String() string {
	return k.Locator + "@" + k.Version
}

// FileKey builds a key from a file's path and modification time.
func FileKey(source, path string) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, WrapError(path, err)
	}
	if info.IsDir() {
		return Key{}, &LoadError{Source: path, Reason: ReasonUnreadable, Err: fmt.Errorf("is a directory")}
	}
	return Key{
		Locator: source + ":" + path,
		Version: strconv.FormatInt(info.ModTime().UnixNano(), 10) + "/" + strconv.FormatInt(info.Size(), 10),
	}, nil
}

// LoadFunc produces a table on a cache miss.
type LoadFunc func(ctx context.Context) (*Table, error)

type cacheEntry struct {
	version string
	table   *Table
}

// Cache holds at most one table per locator. A table is loaded at most once
// per key even under concurrent access; a request with a new version
// replaces the previous entry for that locator. Failed loads are not cached.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the table for key, calling load on a miss. The boolean
// reports a cache hit.
func (c *Cache) Get(ctx context.Context, key Key, load LoadFunc) (*Table, bool, error) {
	if t, ok := c.lookup(key); ok {
		return t, true, nil
	}

	// The shared load outlives any single caller; each caller stops waiting
	// when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		if t, ok := c.lookup(key); ok {
			return t, nil
		}
		t, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		prev, replaced := c.entries[key.Locator]
		c.entries[key.Locator] = cacheEntry{version: key.Version, table: t}
		c.mu.Unlock()

		ev := logging.Debug().
			Str("locator", key.Locator).
			Str("version", key.Version).
			Int("rows", t.Len())
		if replaced {
			ev = ev.Str("previous_version", prev.version)
		}
		ev.Msg("Cached dataset")
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		if res.Shared {
			logging.Debug().Str("key", key.String()).Msg("Shared in-flight dataset load")
		}
		return res.Val.(*Table), false, nil
	}
}

// Invalidate removes the entry for a locator.
func (c *Cache) Invalidate(locator string) {
	c.mu.Lock()
	delete(c.entries, locator)
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key Key) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key.Locator]
	if !ok || e.version != key.Version {
		return nil, false
	}
	return e.table, true
}
