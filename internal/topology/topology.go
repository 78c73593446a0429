package topology

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tilemux/tilemux/internal/config"
)

// Topology is the fully instantiated object graph of a configuration
// document.
type Topology struct {
	Grids   map[string]*Grid
	Caches  map[string]*Cache
	Sources map[string]Source
	Layers  []*Layer
}

// Layer is a resolved display layer in document order.
type Layer struct {
	name    string
	Title   string
	Sources []Source
}

func (l *Layer) Name() string { return l.name }

const (
	stateBuilding = 1
	stateDone     = 2
)

type builder struct {
	doc     *config.Document
	grids   map[string]*Grid
	caches  map[string]*Cache
	sources map[string]Source
	state   map[string]int
}

// Build instantiates the document or reports the first element that cannot
// be constructed. Every cache and source is built, referenced or not, so a
// broken element cannot hide behind an unused one.
func Build(doc *config.Document) (*Topology, error) {
	grids, err := resolveGrids(doc)
	if err != nil {
		return nil, err
	}

	b := &builder{
		doc:     doc,
		grids:   grids,
		caches:  make(map[string]*Cache, len(doc.Caches)),
		sources: make(map[string]Source, len(doc.Sources)),
		state:   make(map[string]int),
	}

	for _, name := range slices.Sorted(maps.Keys(doc.Caches)) {
		if _, err := b.cache(name); err != nil {
			return nil, err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Sources)) {
		if _, err := b.standaloneSource(name); err != nil {
			return nil, err
		}
	}

	layers := make([]*Layer, 0, len(doc.Layers))
	seen := make(map[string]bool, len(doc.Layers))
	for i, cfg := range doc.Layers {
		if cfg == nil || cfg.Name == "" {
			return nil, fmt.Errorf("layer %d has no name", i)
		}
		if seen[cfg.Name] {
			return nil, fmt.Errorf("duplicate layer '%s'", cfg.Name)
		}
		seen[cfg.Name] = true

		if len(cfg.Sources) == 0 {
			return nil, fmt.Errorf("no sources configured for layer '%s'", cfg.Name)
		}

		layer := &Layer{name: cfg.Name, Title: cfg.Title}
		for _, ref := range cfg.Sources {
			src, err := b.resolve(ref)
			if err != nil {
				return nil, err
			}
			layer.Sources = append(layer.Sources, src)
		}
		layers = append(layers, layer)
	}

	return &Topology{
		Grids:   b.grids,
		Caches:  b.caches,
		Sources: b.sources,
		Layers:  layers,
	}, nil
}

// resolve returns the cache or source known under ref. Caches shadow
// sources of the same name.
func (b *builder) resolve(ref string) (Source, error) {
	if _, ok := b.doc.Caches[ref]; ok {
		return b.cache(ref)
	}
	if _, ok := b.doc.Sources[ref]; ok {
		return b.standaloneSource(ref)
	}
	return nil, fmt.Errorf("unknown source '%s'", ref)
}

func (b *builder) standaloneSource(name string) (Source, error) {
	if src, ok := b.sources[name]; ok {
		return src, nil
	}

	src, err := buildSource(name, b.doc.Sources[name])
	if err != nil {
		return nil, err
	}
	b.sources[name] = src
	return src, nil
}
