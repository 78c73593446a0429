package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/tilemux/tilemux/internal/config"
)

func TestLayerList_Get(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodGet, "/api/config/layer", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var layers []map[string]interface{}
	decodeJSON(t, rec, &layers)
	if len(layers) != 2 {
		t.Fatalf("Expected 2 layers, got %d", len(layers))
	}
	if layers[0]["name"] != "base" || layers[1]["name"] != "foo" {
		t.Errorf("Expected document order to be preserved, got %v", layers)
	}
}

func TestLayerCreate_AppendsAndPersists(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	body := `{"name": "extra", "title": "Extra", "sources": ["base_cache"]}`
	rec := doRequest(d, http.MethodPost, "/api/config/layer", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/layer/extra" {
		t.Errorf("Expected Location /layer/extra, got %q", loc)
	}

	var echoed map[string]interface{}
	decodeJSON(t, rec, &echoed)
	if echoed["name"] != "extra" {
		t.Errorf("Expected the created layer to be echoed, got %v", echoed)
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	if len(doc.Layers) != 3 || doc.Layers[2].Name != "extra" {
		t.Errorf("Expected the new layer appended at the end, got %+v", doc.Layers)
	}
}

func TestLayerCreate_BadRequests(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"MissingName", `{"title": "X", "sources": ["base_cache"]}`, "Missing required field 'name'"},
		{"MissingSources", `{"name": "x", "title": "X"}`, "Missing required field 'sources'"},
		{"Duplicate", `{"name": "foo", "title": "X", "sources": ["base_cache"]}`, "Layer 'foo' already exists."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, path := newTestDispatcher(t, testDocument)
			before := readFile(t, path)

			rec := doRequest(d, http.MethodPost, "/api/config/layer", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
			if msg := errorMessage(t, rec); msg != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, msg)
			}
			if !bytes.Equal(before, readFile(t, path)) {
				t.Error("A rejected layer must leave the document unchanged")
			}
		})
	}
}

func TestLayerItem_Get(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodGet, "/api/config/layer/foo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var layer map[string]interface{}
	decodeJSON(t, rec, &layer)
	if layer["name"] != "foo" || layer["title"] != "Foo Overlay" {
		t.Errorf("Expected the foo layer, got %v", layer)
	}

	rec = doRequest(d, http.MethodGet, "/api/config/layer/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Layer 'ghost' not found" {
		t.Errorf("Expected the not-found message, got %q", msg)
	}
}

func TestLayerPut_ReplacesInPlace(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	body := `{"name": "foo", "title": "Renamed Overlay", "sources": ["foo_cache"]}`
	rec := doRequest(d, http.MethodPut, "/api/config/layer/foo", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	idx, layer := doc.FindLayer("foo")
	if layer == nil || layer.Title != "Renamed Overlay" {
		t.Fatalf("Expected the replacement to be persisted, got %+v", layer)
	}
	if idx != 1 {
		t.Errorf("Expected the layer to keep its position, got index %d", idx)
	}
}

func TestLayerPut_DefaultsNameFromPath(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	body := `{"title": "Nameless", "sources": ["foo_cache"]}`
	rec := doRequest(d, http.MethodPut, "/api/config/layer/foo", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	if _, layer := doc.FindLayer("foo"); layer == nil {
		t.Error("Expected the layer to keep the path name")
	}
}

func TestLayerPut_RenameCollisionRejected(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)
	before := readFile(t, path)

	body := `{"name": "base", "title": "Clash", "sources": ["foo_cache"]}`
	rec := doRequest(d, http.MethodPut, "/api/config/layer/foo", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, "duplicate layer name: base") {
		t.Errorf("Expected the duplicate finding, got %q", msg)
	}
	if !bytes.Equal(before, readFile(t, path)) {
		t.Error("A rejected rename must leave the document unchanged")
	}
}

func TestLayerPut_NotFound(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodPut, "/api/config/layer/ghost", `{"sources": ["base_cache"]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); msg != "Layer 'ghost' not found" {
		t.Errorf("Expected the not-found message, got %q", msg)
	}
}

func TestLayerDelete_Removes(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodDelete, "/api/config/layer/foo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Expected an empty body, got %q", rec.Body.String())
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	if len(doc.Layers) != 1 {
		t.Errorf("Expected 1 remaining layer, got %d", len(doc.Layers))
	}

	rec = doRequest(d, http.MethodDelete, "/api/config/layer/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown layer, got %d", rec.Code)
	}
}

func TestCacheList_Get(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodGet, "/api/config/cache", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var caches map[string]map[string]interface{}
	decodeJSON(t, rec, &caches)
	if len(caches) != 2 {
		t.Errorf("Expected 2 caches, got %d", len(caches))
	}
	if _, ok := caches["foo_cache"]; !ok {
		t.Error("Expected foo_cache in the listing")
	}
}

func TestCacheCreate_InsertsAndPersists(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	body := `{"extra_cache": {"sources": ["spare_source"], "format": "image/webp"}}`
	rec := doRequest(d, http.MethodPost, "/api/config/cache", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/cache/extra_cache" {
		t.Errorf("Expected Location /cache/extra_cache, got %q", loc)
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	cache, ok := doc.Caches["extra_cache"]
	if !ok {
		t.Fatal("Expected extra_cache to be persisted")
	}
	if cache.Format != "image/webp" {
		t.Errorf("Expected the submitted format, got %s", cache.Format)
	}
}

func TestCacheCreate_BadRequests(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"TwoEntries", `{"a_cache": {"sources": ["spare_source"]}, "b_cache": {"sources": ["spare_source"]}}`, "Request must contain exactly one item."},
		{"EmptyMapping", `{}`, "Request must contain exactly one item."},
		{"Duplicate", `{"base_cache": {"sources": ["spare_source"]}}`, "'base_cache' already exists."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, path := newTestDispatcher(t, testDocument)
			before := readFile(t, path)

			rec := doRequest(d, http.MethodPost, "/api/config/cache", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
			if msg := errorMessage(t, rec); msg != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, msg)
			}
			if !bytes.Equal(before, readFile(t, path)) {
				t.Error("A rejected cache must leave the document unchanged")
			}
		})
	}
}

func TestCacheItem_Get(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodGet, "/api/config/cache/base_cache", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var cache map[string]interface{}
	decodeJSON(t, rec, &cache)
	sources, ok := cache["sources"].([]interface{})
	if !ok || len(sources) != 1 || sources[0] != "base_tiles" {
		t.Errorf("Expected the base_cache record, got %v", cache)
	}

	rec = doRequest(d, http.MethodGet, "/api/config/cache/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Cache 'nope' not found" {
		t.Errorf("Expected the cache not-found message, got %q", msg)
	}
}

func TestCachePut_Replaces(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	body := `{"sources": ["spare_source"], "format": "image/jpeg"}`
	rec := doRequest(d, http.MethodPut, "/api/config/cache/foo_cache", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	cache := doc.Caches["foo_cache"]
	if cache.Format != "image/jpeg" || len(cache.Sources) != 1 || cache.Sources[0] != "spare_source" {
		t.Errorf("Expected the replacement to be persisted, got %+v", cache)
	}
}

func TestCacheDelete_ReferencedRejected(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)
	before := readFile(t, path)

	rec := doRequest(d, http.MethodDelete, "/api/config/cache/base_cache", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, "unknown source: base_cache") {
		t.Errorf("Expected the dangling reference finding, got %q", msg)
	}
	if !bytes.Equal(before, readFile(t, path)) {
		t.Error("A rejected delete must leave the document unchanged")
	}
}

func TestSourceList_Get(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodGet, "/api/config/source", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var sources map[string]map[string]interface{}
	decodeJSON(t, rec, &sources)
	if len(sources) != 3 {
		t.Errorf("Expected 3 sources, got %d", len(sources))
	}
}

func TestSourceCreate_InsertsAndPersists(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	body := `{"new_wms": {"type": "wms", "req": {"url": "https://wms.example.com/new"}}}`
	rec := doRequest(d, http.MethodPost, "/api/config/source", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/source/new_wms" {
		t.Errorf("Expected Location /source/new_wms, got %q", loc)
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	source, ok := doc.Sources["new_wms"]
	if !ok || source.Type != "wms" {
		t.Errorf("Expected the new source to be persisted, got %+v", source)
	}
}

func TestSourceItem_NotFound(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodGet, "/api/config/source/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Source 'nope' not found" {
		t.Errorf("Expected the source not-found message, got %q", msg)
	}
}

func TestSourcePut_UnbuildableRejected(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)
	before := readFile(t, path)

	// Tile template without {{x}} and {{y}} passes field validation but
	// fails the build
	body := `{"type": "tile", "url": "https://tile.example.com/{{z}}.png"}`
	rec := doRequest(d, http.MethodPut, "/api/config/source/base_tiles", body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, "missing {{x}}") {
		t.Errorf("Expected the build error, got %q", msg)
	}
	if !bytes.Equal(before, readFile(t, path)) {
		t.Error("A rejected replacement must leave the document unchanged")
	}
}

func TestSourceDelete_UnreferencedSucceeds(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodDelete, "/api/config/source/spare_source", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	if _, ok := doc.Sources["spare_source"]; ok {
		t.Error("Expected spare_source to be removed")
	}
}

func TestSourceDelete_ReferencedRejected(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)
	before := readFile(t, path)

	rec := doRequest(d, http.MethodDelete, "/api/config/source/base_tiles", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, "unknown source: base_tiles") {
		t.Errorf("Expected the dangling reference finding, got %q", msg)
	}
	if !bytes.Equal(before, readFile(t, path)) {
		t.Error("A rejected delete must leave the document unchanged")
	}
}
