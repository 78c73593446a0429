package api

import (
	"fmt"
	"net/http"

	"github.com/tilemux/tilemux/internal/config"
)

// layerListHandler serves the layer collection. Layers are an ordered list
// keyed by their name field, unlike the map-shaped cache and source
// collections, so they get their own handlers.
type layerListHandler struct {
	*base
}

// Get returns the layers in document order.
func (h *layerListHandler) Get(r *http.Request, args []string) (*response, error) {
	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	return jsonResponse(doc.Layers), nil
}

// Post appends a new layer.
func (h *layerListHandler) Post(r *http.Request, args []string) (*response, error) {
	layer := &config.Layer{}
	if err := decodeBody(r, layer); err != nil {
		return nil, err
	}
	if layer.Name == "" {
		return nil, InvalidRequest("Missing required field 'name'")
	}
	if len(layer.Sources) == 0 {
		return nil, InvalidRequest("Missing required field 'sources'")
	}

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	if _, existing := doc.FindLayer(layer.Name); existing != nil {
		return nil, InvalidRequest(fmt.Sprintf("Layer '%s' already exists.", layer.Name))
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}
	candidate.Layers = append(candidate.Layers, layer)

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return jsonResponse(layer).withHeader("Location", "/layer/"+layer.Name), nil
}

// layerHandler serves a single named layer.
type layerHandler struct {
	*base
}

func (h *layerHandler) Get(r *http.Request, args []string) (*response, error) {
	name := args[0]

	doc, err := h.load()
	if err != nil {
		return nil, err
	}

	_, layer := doc.FindLayer(name)
	if layer == nil {
		return nil, NotFound(fmt.Sprintf("Layer '%s' not found", name))
	}
	return jsonResponse(layer), nil
}

// Put replaces the named layer wholesale. The body may rename the layer; a
// collision with another layer is caught by validation.
func (h *layerHandler) Put(r *http.Request, args []string) (*response, error) {
	name := args[0]

	layer := &config.Layer{}
	if err := decodeBody(r, layer); err != nil {
		return nil, err
	}
	if layer.Name == "" {
		layer.Name = name
	}

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	idx, _ := doc.FindLayer(name)
	if idx < 0 {
		return nil, NotFound(fmt.Sprintf("Layer '%s' not found", name))
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}
	candidate.Layers[idx] = layer

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return jsonResponse(layer), nil
}

func (h *layerHandler) Delete(r *http.Request, args []string) (*response, error) {
	name := args[0]

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	idx, _ := doc.FindLayer(name)
	if idx < 0 {
		return nil, NotFound(fmt.Sprintf("Layer '%s' not found", name))
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}
	candidate.Layers = append(candidate.Layers[:idx], candidate.Layers[idx+1:]...)

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return emptyResponse(), nil
}
