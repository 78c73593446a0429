package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tilemux/tilemux/internal/config"
)

// packRequest is the body of a pack creation: the layer plus optional
// cache and source records.
type packRequest struct {
	Layer  *config.Layer  `yaml:"layer"`
	Cache  *config.Cache  `yaml:"cache"`
	Source *config.Source `yaml:"source"`
}

// packListHandler creates configuration packs.
type packListHandler struct {
	*base
}

// Post creates a layer plus its backing cache and source as one unit,
// wired together by naming convention: the layer draws from <name>_cache,
// which draws from <name>_source. All precondition checks run before any
// mutation.
func (h *packListHandler) Post(r *http.Request, args []string) (*response, error) {
	req := &packRequest{}
	if err := decodeBody(r, req); err != nil {
		return nil, err
	}

	if req.Layer == nil {
		return nil, InvalidRequest("Missing 'layer' value.")
	}
	if req.Layer.Name == "" {
		return nil, InvalidRequest("Missing 'name' for layer.")
	}
	name := req.Layer.Name

	doc, err := h.load()
	if err != nil {
		return nil, err
	}

	if _, layer := doc.FindLayer(name); layer != nil {
		return nil, InvalidRequest(fmt.Sprintf("Already have a layer for '%s'", name))
	}
	cacheName := name + "_cache"
	if _, ok := doc.Caches[cacheName]; ok {
		return nil, InvalidRequest(fmt.Sprintf("Already have a cache '%s'", cacheName))
	}
	sourceName := name + "_source"
	if _, ok := doc.Sources[sourceName]; ok {
		return nil, InvalidRequest(fmt.Sprintf("Already have a source '%s'", sourceName))
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}

	layer := req.Layer
	cache := req.Cache
	if cache == nil {
		cache = &config.Cache{}
	}
	source := req.Source
	if source == nil {
		source = &config.Source{}
	}

	layer.Sources = []string{cacheName}
	cache.Sources = []string{sourceName}

	candidate.Layers = append(candidate.Layers, layer)
	candidate.Caches[cacheName] = cache
	candidate.Sources[sourceName] = source

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return jsonResponse(candidate), nil
}

// packHandler reads and removes configuration packs.
type packHandler struct {
	*base
}

// Get aggregates the three pack parts, or reports which are missing.
func (h *packHandler) Get(r *http.Request, args []string) (*response, error) {
	name := args[0]

	doc, err := h.load()
	if err != nil {
		return nil, err
	}

	var missing []string

	cache, ok := doc.Caches[name+"_cache"]
	if !ok {
		missing = append(missing, "cache")
	}
	source, ok := doc.Sources[name+"_source"]
	if !ok {
		missing = append(missing, "source")
	}
	_, layer := doc.FindLayer(name)
	if layer == nil {
		missing = append(missing, "layer")
	}

	if len(missing) > 0 {
		return nil, NotFound(fmt.Sprintf("Missing '%s'", strings.Join(missing, ", ")))
	}

	return jsonResponse(map[string]interface{}{
		"layer":  layer,
		"cache":  cache,
		"source": source,
	}), nil
}

// Delete removes all three pack parts. Presence is checked for the whole
// pack before anything is touched, so a partial pack is never half-deleted.
func (h *packHandler) Delete(r *http.Request, args []string) (*response, error) {
	name := args[0]

	doc, err := h.load()
	if err != nil {
		return nil, err
	}

	var missing []string

	idx, _ := doc.FindLayer(name)
	if idx < 0 {
		missing = append(missing, "layer")
	}
	cacheName := name + "_cache"
	if _, ok := doc.Caches[cacheName]; !ok {
		missing = append(missing, "cache")
	}
	sourceName := name + "_source"
	if _, ok := doc.Sources[sourceName]; !ok {
		missing = append(missing, "source")
	}

	if len(missing) > 0 {
		return nil, NotFound(fmt.Sprintf("Missing '%s'", strings.Join(missing, ", ")))
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}

	idx, _ = candidate.FindLayer(name)
	candidate.Layers = append(candidate.Layers[:idx], candidate.Layers[idx+1:]...)
	delete(candidate.Caches, cacheName)
	delete(candidate.Sources, sourceName)

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return emptyResponse(), nil
}
