package api

import (
	"fmt"
	"net/http"

	"github.com/tilemux/tilemux/internal/config"
)

// keyedCollection describes a name-keyed document collection, so the cache
// and source endpoints share one handler implementation.
type keyedCollection[T any] struct {
	kind   string // capitalized noun for error messages
	prefix string // item location prefix, e.g. "/cache/"
	items  func(*config.Document) map[string]*T
}

var (
	cacheCollection = keyedCollection[config.Cache]{
		kind:   "Cache",
		prefix: "/cache/",
		items:  func(d *config.Document) map[string]*config.Cache { return d.Caches },
	}
	sourceCollection = keyedCollection[config.Source]{
		kind:   "Source",
		prefix: "/source/",
		items:  func(d *config.Document) map[string]*config.Source { return d.Sources },
	}
)

// itemListHandler serves a whole keyed collection.
type itemListHandler[T any] struct {
	*base
	coll keyedCollection[T]
}

// Get returns the collection as a name-to-record mapping.
func (h *itemListHandler[T]) Get(r *http.Request, args []string) (*response, error) {
	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	return jsonResponse(h.coll.items(doc)), nil
}

// Post inserts one named record, sent as a single-entry mapping.
func (h *itemListHandler[T]) Post(r *http.Request, args []string) (*response, error) {
	entry := map[string]*T{}
	if err := decodeBody(r, &entry); err != nil {
		return nil, err
	}
	if len(entry) != 1 {
		return nil, InvalidRequest("Request must contain exactly one item.")
	}

	var name string
	var record *T
	for k, v := range entry {
		name, record = k, v
	}

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	if _, ok := h.coll.items(doc)[name]; ok {
		return nil, InvalidRequest(fmt.Sprintf("'%s' already exists.", name))
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}
	h.coll.items(candidate)[name] = record

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return jsonResponse(entry).withHeader("Location", h.coll.prefix+name), nil
}

// itemHandler serves one named record of a keyed collection.
type itemHandler[T any] struct {
	*base
	coll keyedCollection[T]
}

func (h *itemHandler[T]) notFound(name string) *Error {
	return NotFound(fmt.Sprintf("%s '%s' not found", h.coll.kind, name))
}

func (h *itemHandler[T]) Get(r *http.Request, args []string) (*response, error) {
	name := args[0]

	doc, err := h.load()
	if err != nil {
		return nil, err
	}

	record, ok := h.coll.items(doc)[name]
	if !ok {
		return nil, h.notFound(name)
	}
	return jsonResponse(record), nil
}

// Put replaces the named record wholesale.
func (h *itemHandler[T]) Put(r *http.Request, args []string) (*response, error) {
	name := args[0]

	record := new(T)
	if err := decodeBody(r, record); err != nil {
		return nil, err
	}

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	if _, ok := h.coll.items(doc)[name]; !ok {
		return nil, h.notFound(name)
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}
	h.coll.items(candidate)[name] = record

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return jsonResponse(record), nil
}

// Delete removes the named record. A record still referenced elsewhere
// makes the candidate invalid, so nothing is persisted in that case.
func (h *itemHandler[T]) Delete(r *http.Request, args []string) (*response, error) {
	name := args[0]

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	if _, ok := h.coll.items(doc)[name]; !ok {
		return nil, h.notFound(name)
	}

	candidate, err := doc.DeepCopy()
	if err != nil {
		return nil, err
	}
	delete(h.coll.items(candidate), name)

	if err := h.commit(candidate); err != nil {
		return nil, err
	}
	return emptyResponse(), nil
}
