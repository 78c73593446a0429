package topology

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tilemux/tilemux/internal/config"
)

// Grid is a resolved tile grid.
type Grid struct {
	Name string
	SRS  string
}

// resolveGrids merges the builtin grid registry with the document's grids,
// following base chains. Runs in passes so declaration order does not
// matter; a pass without progress means the remaining bases form a cycle.
func resolveGrids(doc *config.Document) (map[string]*Grid, error) {
	resolved := make(map[string]*Grid, len(config.BuiltinGrids)+len(doc.Grids))
	for name, grid := range config.BuiltinGrids {
		resolved[name] = &Grid{Name: name, SRS: grid.SRS}
	}

	pending := make(map[string]*config.Grid, len(doc.Grids))
	for name, grid := range doc.Grids {
		if grid == nil {
			grid = &config.Grid{}
		}
		pending[name] = grid
	}

	for len(pending) > 0 {
		progress := false
		for _, name := range slices.Sorted(maps.Keys(pending)) {
			grid := pending[name]
			if grid.Base == "" {
				resolved[name] = &Grid{Name: name, SRS: grid.SRS}
				delete(pending, name)
				progress = true
				continue
			}

			base, ok := resolved[grid.Base]
			if !ok {
				if _, definedLater := pending[grid.Base]; definedLater {
					continue
				}
				return nil, fmt.Errorf("grid '%s' is based on unknown grid '%s'", name, grid.Base)
			}

			srs := grid.SRS
			if srs == "" {
				srs = base.SRS
			}
			resolved[name] = &Grid{Name: name, SRS: srs}
			delete(pending, name)
			progress = true
		}

		if !progress {
			stuck := slices.Sorted(maps.Keys(pending))
			return nil, fmt.Errorf("circular grid inheritance between: %s", strings.Join(stuck, ", "))
		}
	}

	return resolved, nil
}
