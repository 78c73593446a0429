package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BuiltinGrids are the tile grids every deployment knows without declaring
// them in the document.
var BuiltinGrids = map[string]*Grid{
	"GLOBAL_GEODETIC":    {SRS: "EPSG:4326"},
	"GLOBAL_WEBMERCATOR": {SRS: "EPSG:3857"},
	"GLOBAL_MERCATOR":    {SRS: "EPSG:900913"},
}

// Document is the root of the proxy configuration file. Fields this build
// does not model stay in Extra and are written back unchanged.
type Document struct {
	Services map[string]interface{} `yaml:"services,omitempty"`
	Layers   []*Layer               `yaml:"layers"`
	Caches   map[string]*Cache      `yaml:"caches"`
	Sources  map[string]*Source     `yaml:"sources"`
	Grids    map[string]*Grid       `yaml:"grids,omitempty"`
	Globals  map[string]interface{} `yaml:"globals,omitempty"`

	Extra map[string]interface{} `yaml:",inline"`
}

// Layer is one entry in the ordered layer list. Sources reference caches or
// sources by name.
type Layer struct {
	Name    string   `yaml:"name" validate:"required"`
	Title   string   `yaml:"title,omitempty"`
	Sources []string `yaml:"sources,omitempty"`

	Extra map[string]interface{} `yaml:",inline"`
}

// Cache describes a tile cache: the sources it is filled from, the grids it
// is built on, and the tile format.
type Cache struct {
	Sources []string `yaml:"sources,omitempty"`
	Grids   []string `yaml:"grids,omitempty"`
	Format  string   `yaml:"format,omitempty" validate:"omitempty,cachefmt"`

	Extra map[string]interface{} `yaml:",inline"`
}

// Source describes where map data comes from. Only type and the request URL
// are interpreted here; everything else is opaque.
type Source struct {
	Type string         `yaml:"type" validate:"required"`
	URL  string         `yaml:"url,omitempty"`
	Req  *SourceRequest `yaml:"req,omitempty"`

	Extra map[string]interface{} `yaml:",inline"`
}

// SourceRequest carries the upstream request parameters of a source.
type SourceRequest struct {
	URL string `yaml:"url,omitempty"`

	Extra map[string]interface{} `yaml:",inline"`
}

// Grid defines a tile grid, possibly deriving from another grid via base.
type Grid struct {
	Base string `yaml:"base,omitempty"`
	SRS  string `yaml:"srs,omitempty"`

	Extra map[string]interface{} `yaml:",inline"`
}

// FindLayer returns the position and record of the first layer with the
// given name, or (-1, nil) when no layer matches.
func (d *Document) FindLayer(name string) (int, *Layer) {
	for i, layer := range d.Layers {
		if layer != nil && layer.Name == name {
			return i, layer
		}
	}
	return -1, nil
}

// HasGrid reports whether name resolves to a document-defined or builtin grid.
func (d *Document) HasGrid(name string) bool {
	if _, ok := d.Grids[name]; ok {
		return true
	}
	_, ok := BuiltinGrids[name]
	return ok
}

// Normalize materializes the three mutable collections so handlers never
// touch a nil map or slice.
func (d *Document) Normalize() {
	if d.Layers == nil {
		d.Layers = []*Layer{}
	}
	if d.Caches == nil {
		d.Caches = map[string]*Cache{}
	}
	if d.Sources == nil {
		d.Sources = map[string]*Source{}
	}
}

// DeepCopy returns an independent copy of the document produced by a YAML
// round trip, so copy semantics match persistence semantics and opaque
// fields survive.
func (d *Document) DeepCopy() (*Document, error) {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to copy configuration: %w", err)
	}

	copied := &Document{}
	if err := yaml.Unmarshal(raw, copied); err != nil {
		return nil, fmt.Errorf("failed to copy configuration: %w", err)
	}
	copied.Normalize()
	return copied, nil
}
