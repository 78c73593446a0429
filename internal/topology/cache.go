package topology

import (
	"fmt"
)

const (
	// DefaultGrid backs caches that declare no grids.
	DefaultGrid = "GLOBAL_WEBMERCATOR"

	// DefaultFormat is the tile format of caches that declare none.
	DefaultFormat = "image/png"
)

// Cache is a resolved tile cache. It implements Source so caches can chain.
type Cache struct {
	name    string
	Format  string
	Grids   []*Grid
	Sources []Source
}

func (c *Cache) Name() string { return c.name }
func (c *Cache) Kind() string { return "cache" }

func (b *builder) cache(name string) (*Cache, error) {
	if c, ok := b.caches[name]; ok {
		return c, nil
	}
	if b.state[name] == stateBuilding {
		return nil, fmt.Errorf("circular cache chain involving '%s'", name)
	}
	b.state[name] = stateBuilding

	cfg := b.doc.Caches[name]
	if cfg == nil {
		return nil, fmt.Errorf("cache '%s' is empty", name)
	}

	c := &Cache{name: name, Format: cfg.Format}
	if c.Format == "" {
		c.Format = DefaultFormat
	}

	gridNames := cfg.Grids
	if len(gridNames) == 0 {
		gridNames = []string{DefaultGrid}
	}
	for _, gridName := range gridNames {
		grid, ok := b.grids[gridName]
		if !ok {
			return nil, fmt.Errorf("cache '%s' uses unknown grid '%s'", name, gridName)
		}
		c.Grids = append(c.Grids, grid)
	}

	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no sources configured for cache '%s'", name)
	}
	for _, ref := range cfg.Sources {
		src, err := b.resolve(ref)
		if err != nil {
			return nil, err
		}
		c.Sources = append(c.Sources, src)
	}

	b.caches[name] = c
	b.state[name] = stateDone
	return c, nil
}
