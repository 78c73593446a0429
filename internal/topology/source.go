package topology

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/tilemux/tilemux/internal/config"
)

// Source is anything a cache or layer can pull map data from. Caches
// implement it too, so a cache may feed another cache or back a layer
// directly.
type Source interface {
	Name() string
	Kind() string
}

// WMSSource requests map images from an upstream WMS endpoint.
type WMSSource struct {
	name string
	URL  *url.URL
}

func (s *WMSSource) Name() string { return s.name }
func (s *WMSSource) Kind() string { return "wms" }

// TileSource requests ready-made tiles from a templated URL.
type TileSource struct {
	name string
	tmpl *fasttemplate.Template
}

func (s *TileSource) Name() string { return s.name }
func (s *TileSource) Kind() string { return "tile" }

// TileURL renders the upstream URL for one tile coordinate.
func (s *TileSource) TileURL(x, y, z int) string {
	return s.tmpl.ExecuteString(map[string]interface{}{
		"x": strconv.Itoa(x),
		"y": strconv.Itoa(y),
		"z": strconv.Itoa(z),
	})
}

// DebugSource renders coordinate overlays and needs no configuration.
type DebugSource struct {
	name string
}

func (s *DebugSource) Name() string { return s.name }
func (s *DebugSource) Kind() string { return "debug" }

func buildSource(name string, cfg *config.Source) (Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source '%s' is empty", name)
	}

	switch cfg.Type {
	case "wms":
		return buildWMSSource(name, cfg)
	case "tile":
		return buildTileSource(name, cfg)
	case "debug":
		return &DebugSource{name: name}, nil
	default:
		return nil, fmt.Errorf("unsupported type '%s' for source '%s'", cfg.Type, name)
	}
}

func buildWMSSource(name string, cfg *config.Source) (*WMSSource, error) {
	if cfg.Req == nil || cfg.Req.URL == "" {
		return nil, fmt.Errorf("missing request URL for source '%s'", name)
	}

	u, err := url.Parse(cfg.Req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL for source '%s': %v", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid request URL for source '%s': %s", name, cfg.Req.URL)
	}

	return &WMSSource{name: name, URL: u}, nil
}

// tileAxes are the placeholders a tile URL template must fill in.
var tileAxes = []string{"x", "y", "z"}

func buildTileSource(name string, cfg *config.Source) (*TileSource, error) {
	raw := cfg.URL
	if raw == "" && cfg.Req != nil {
		raw = cfg.Req.URL
	}
	if raw == "" {
		return nil, fmt.Errorf("missing URL template for source '%s'", name)
	}

	tmpl, err := fasttemplate.NewTemplate(raw, "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("invalid URL template for source '%s': %v", name, err)
	}

	seen := make(map[string]bool, len(tileAxes))
	tmpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		seen[strings.TrimSpace(tag)] = true
		return 0, nil
	})
	for _, axis := range tileAxes {
		if !seen[axis] {
			return nil, fmt.Errorf("URL template for source '%s' is missing {{%s}}", name, axis)
		}
	}

	return &TileSource{name: name, tmpl: tmpl}, nil
}
