//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sources

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Source)
	mu       sync.RWMutex
)

// Register adds a source to the registry.
func Register(src Source) {
	mu.Lock()
	defer mu.Unlock()
	registry[src.Name()] = src
}

// Get retrieves a source by name.
func Get(name string) (Source, error) {
	mu.RLock()
	defer mu.RUnlock()

	src, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown dataset source: %s", name)
	}
	return src, nil
}

// List returns all registered source names in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered sources sorted by name.
func All() []Source {
	names := List()

	mu.RLock()
	defer mu.RUnlock()

	srcs := make([]Source, 0, len(names))
	for _, name := range names {
		if src, ok := registry[name]; ok {
			srcs = append(srcs, src)
		}
	}
	return srcs
}

// CloseAll releases connections held by registered sources.
func CloseAll() {
	for _, src := range All() {
		if c, ok := src.(Closer); ok {
			c.Close()
		}
	}
}
