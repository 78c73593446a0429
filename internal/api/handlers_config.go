package api

import (
	"net/http"

	"github.com/tilemux/tilemux/internal/config"
)

// configHandler serves the whole configuration document.
type configHandler struct {
	*base
}

// Get returns the current document.
func (h *configHandler) Get(r *http.Request, args []string) (*response, error) {
	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	return jsonResponse(doc), nil
}

// Put replaces the document wholesale.
func (h *configHandler) Put(r *http.Request, args []string) (*response, error) {
	candidate := &config.Document{}
	if err := decodeBody(r, candidate); err != nil {
		return nil, err
	}
	candidate.Normalize()

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return jsonResponse(candidate), nil
}
