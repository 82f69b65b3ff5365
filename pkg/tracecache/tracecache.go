// Package tracecache implements an optional compiled-graph cache:
// repeated compilations of an unchanged system (same
// source text bound to the same entities) can skip re-tracing within one
// process. The cache key is a sha256 of the source text plus a fingerprint
// of the entity registrations and bindings it was compiled against.
//
// Graph reuse itself is in-process only (a plain map, guarded by a mutex):
// internal/graphir has a Serialize but no matching parser, so a
// graphir.Graph can't be reconstructed from bytes alone. The sqlite table
// is the persistent half: it durably records which hashes have already
// been compiled and what their serialized form was, so a tool inspecting
// the cache file (or a future version of this package that gains a
// parser) can tell whether a system changed across runs without needing
// an engine round trip.
package tracecache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bentobox-sdk/ecsgraph/internal/graphir"
	"github.com/bentobox-sdk/ecsgraph/internal/pipeline"
	"github.com/bentobox-sdk/ecsgraph/internal/plotter"
)

// Cache is a sqlite-backed ledger of compiled graphs, paired with an
// in-process map holding the live Graph values themselves.
type Cache struct {
	db *sql.DB

	mu     sync.RWMutex
	graphs map[string]graphir.Graph
}

// Open creates (or reopens) a cache database at path. path may be ":memory:"
// for a process-local cache with no file on disk.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace cache %s: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS compiled_graphs (
			hash TEXT PRIMARY KEY,
			serialized TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing trace cache schema: %w", err)
	}
	return &Cache{db: db, graphs: make(map[string]graphir.Graph)}, nil
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key fingerprints a compile request: the source text plus a deterministic
// rendering of the entity registrations and bindings it's compiled
// against, so two textually identical sources bound to different entity
// shapes never collide.
func Key(source string, entities []plotter.EntityRegistration, bindings []pipeline.EntityBinding) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})

	sortedEntities := append([]plotter.EntityRegistration(nil), entities...)
	sort.Slice(sortedEntities, func(i, j int) bool { return sortedEntities[i].ID < sortedEntities[j].ID })
	for _, e := range sortedEntities {
		fmt.Fprintf(h, "entity:%d", e.ID)
		names := make([]string, 0, len(e.Components))
		for name := range e.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(h, ",%s", name)
		}
		h.Write([]byte{0})
	}

	sortedBindings := append([]pipeline.EntityBinding(nil), bindings...)
	sort.Slice(sortedBindings, func(i, j int) bool { return sortedBindings[i].Param < sortedBindings[j].Param })
	for _, b := range sortedBindings {
		fmt.Fprintf(h, "bind:%s=%v", b.Param, b.Components)
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the in-process cached Graph for key, if any.
func (c *Cache) Get(key string) (graphir.Graph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.graphs[key]
	return g, ok
}

// Known reports whether key has ever been recorded in the durable ledger,
// even if this process hasn't compiled it (and so has no in-memory Graph
// for it).
func (c *Cache) Known(key string) (bool, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(1) FROM compiled_graphs WHERE hash = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying trace cache: %w", err)
	}
	return n > 0, nil
}

// Put records a freshly compiled Graph under key, both in-process and in
// the durable ledger.
func (c *Cache) Put(key string, g graphir.Graph) error {
	c.mu.Lock()
	c.graphs[key] = g
	c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT INTO compiled_graphs (hash, serialized, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET serialized = excluded.serialized, created_at = excluded.created_at`,
		key, g.Serialize(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording compiled graph in trace cache: %w", err)
	}
	return nil
}
