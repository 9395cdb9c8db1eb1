package service

import (
	"context"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/analyzer"
	"github.com/ludo-technologies/codeguard/internal/constants"
	"github.com/ludo-technologies/codeguard/internal/parser"
)

// UnitCache stores the SourceUnit of every file in a batch.
// After Seal() is called the cache is read-only and safe for concurrent access
// without locks.
type UnitCache struct {
	units  map[string]*analyzer.SourceUnit
	sealed bool
}

// NewUnitCache creates a new empty UnitCache.
func NewUnitCache() *UnitCache {
	return &UnitCache{
		units: make(map[string]*analyzer.SourceUnit),
	}
}

// Put stores a unit under its ID. Must be called before Seal().
func (c *UnitCache) Put(unit *analyzer.SourceUnit) {
	if c.sealed || unit == nil {
		return
	}
	c.units[unit.ID] = unit
}

// Seal marks the cache as read-only.
func (c *UnitCache) Seal() {
	c.sealed = true
}

// Get retrieves a unit. Returns (unit, true) on hit.
func (c *UnitCache) Get(id string) (*analyzer.SourceUnit, bool) {
	u, ok := c.units[id]
	return u, ok
}

// Len returns the number of entries in the cache.
func (c *UnitCache) Len() int {
	return len(c.units)
}

// IDs returns the cached identifiers in ascending order.
func (c *UnitCache) IDs() []string {
	ids := make([]string, 0, len(c.units))
	for id := range c.units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UnitCacheConfig controls how BuildUnitCache works.
type UnitCacheConfig struct {
	Options     analyzer.Options
	Concurrency int // 0 means runtime.GOMAXPROCS(0)
}

// BuildUnitCache builds a SourceUnit for every file in parallel and returns a
// sealed cache. Files with identical content are built once and share
// representations. Each task creates its own parser.Parser because
// tree-sitter is not thread-safe.
func BuildUnitCache(ctx context.Context, files map[string][]byte, cfg UnitCacheConfig) (*UnitCache, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// group identical contents; the first id in order builds the unit
	var builders []string
	aliases := make(map[string][]string)
	seen := make(map[[32]byte]string)
	for _, id := range ids {
		h := analyzer.ContentHash(files[id])
		if owner, ok := seen[h]; ok {
			aliases[owner] = append(aliases[owner], id)
			continue
		}
		seen[h] = id
		builders = append(builders, id)
	}

	built := make([]*analyzer.SourceUnit, len(builders))
	p := pool.New().WithMaxGoroutines(concurrency).WithContext(ctx)
	for i, id := range builders {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ps := parser.New().WithTimeout(constants.ParseTimeout)
			defer ps.Close()
			built[i] = analyzer.BuildSourceUnit(ctx, ps, id, files[id], cfg.Options)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, domain.NewCancelledError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	// populate cache from collected results (single-threaded, no lock needed)
	cache := NewUnitCache()
	for _, u := range built {
		cache.Put(u)
		for _, alias := range aliases[u.ID] {
			cache.Put(u.WithID(alias))
		}
	}
	cache.Seal()
	return cache, nil
}
