package config

import "encoding/json"

// jsonObject merges opaque fields with the typed ones and encodes the result
// as a JSON object. Typed fields win on key collision.
func jsonObject(extra map[string]interface{}, typed map[string]interface{}) ([]byte, error) {
	obj := make(map[string]interface{}, len(extra)+len(typed))
	for k, v := range extra {
		obj[k] = v
	}
	for k, v := range typed {
		obj[k] = v
	}
	return json.Marshal(obj)
}

// MarshalJSON renders the document with opaque top-level sections folded
// back in. The three mutable collections are always present.
func (d *Document) MarshalJSON() ([]byte, error) {
	typed := map[string]interface{}{
		"layers":  d.Layers,
		"caches":  d.Caches,
		"sources": d.Sources,
	}
	if d.Services != nil {
		typed["services"] = d.Services
	}
	if d.Grids != nil {
		typed["grids"] = d.Grids
	}
	if d.Globals != nil {
		typed["globals"] = d.Globals
	}
	return jsonObject(d.Extra, typed)
}

func (l *Layer) MarshalJSON() ([]byte, error) {
	typed := map[string]interface{}{
		"name": l.Name,
	}
	if l.Title != "" {
		typed["title"] = l.Title
	}
	if l.Sources != nil {
		typed["sources"] = l.Sources
	}
	return jsonObject(l.Extra, typed)
}

func (c *Cache) MarshalJSON() ([]byte, error) {
	typed := map[string]interface{}{}
	if c.Sources != nil {
		typed["sources"] = c.Sources
	}
	if c.Grids != nil {
		typed["grids"] = c.Grids
	}
	if c.Format != "" {
		typed["format"] = c.Format
	}
	return jsonObject(c.Extra, typed)
}

func (s *Source) MarshalJSON() ([]byte, error) {
	typed := map[string]interface{}{}
	if s.Type != "" {
		typed["type"] = s.Type
	}
	if s.URL != "" {
		typed["url"] = s.URL
	}
	if s.Req != nil {
		typed["req"] = s.Req
	}
	return jsonObject(s.Extra, typed)
}

func (r *SourceRequest) MarshalJSON() ([]byte, error) {
	typed := map[string]interface{}{}
	if r.URL != "" {
		typed["url"] = r.URL
	}
	return jsonObject(r.Extra, typed)
}

func (g *Grid) MarshalJSON() ([]byte, error) {
	typed := map[string]interface{}{}
	if g.Base != "" {
		typed["base"] = g.Base
	}
	if g.SRS != "" {
		typed["srs"] = g.SRS
	}
	return jsonObject(g.Extra, typed)
}
