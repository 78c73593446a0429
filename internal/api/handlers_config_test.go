package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tilemux/tilemux/internal/config"
)

func TestConfigGet_ReturnsDocument(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodGet, "/api/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	if _, ok := body["error"]; ok {
		t.Fatalf("Success responses must not be enveloped: %s", rec.Body.String())
	}

	layers, ok := body["layers"].([]interface{})
	if !ok || len(layers) != 2 {
		t.Errorf("Expected 2 layers, got %v", body["layers"])
	}
	caches, ok := body["caches"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected a caches mapping, got %v", body["caches"])
	}
	if _, ok := caches["base_cache"]; !ok {
		t.Error("Expected base_cache in the caches mapping")
	}
}

const replacementDocument = `{
  "layers": [{"name": "solo", "title": "Solo", "sources": ["solo_cache"]}],
  "caches": {"solo_cache": {"sources": ["solo_tiles"]}},
  "sources": {"solo_tiles": {"type": "tile", "url": "https://t.example.com/{{z}}/{{x}}/{{y}}.png"}}
}`

func TestConfigPut_ReplacesAndPersists(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)

	rec := doRequest(d, http.MethodPut, "/api/config", replacementDocument)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var putBody interface{}
	decodeJSON(t, rec, &putBody)

	// A follow-up GET must return exactly what the PUT reported
	got := doRequest(d, http.MethodGet, "/api/config", "")
	var getBody interface{}
	decodeJSON(t, got, &getBody)
	if diff := cmp.Diff(putBody, getBody); diff != "" {
		t.Errorf("GET after PUT differs (-put +get):\n%s", diff)
	}

	doc, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to reload the persisted document: %v", err)
	}
	if len(doc.Layers) != 1 || doc.Layers[0].Name != "solo" {
		t.Errorf("Expected the persisted document to hold the replacement, got %+v", doc.Layers)
	}
}

func TestConfigPut_BadBodies(t *testing.T) {
	cases := []struct {
		name, body string
	}{
		{"Empty", ""},
		{"Null", "null"},
		{"Malformed", `{"layers": [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, path := newTestDispatcher(t, testDocument)
			before := readFile(t, path)

			rec := doRequest(d, http.MethodPut, "/api/config", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
			if msg := errorMessage(t, rec); msg != "Invalid JSON" {
				t.Errorf("Expected 'Invalid JSON', got %q", msg)
			}
			if !bytes.Equal(before, readFile(t, path)) {
				t.Error("A rejected body must leave the document unchanged")
			}
		})
	}
}

func TestConfigPut_ValidationRejects(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)
	before := readFile(t, path)

	body := `{"layers": [{"name": "broken", "title": "Broken", "sources": ["ghost"]}], "caches": {}, "sources": {}}`
	rec := doRequest(d, http.MethodPut, "/api/config", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, "unknown source: ghost") {
		t.Errorf("Expected the validation finding, got %q", msg)
	}
	if !bytes.Equal(before, readFile(t, path)) {
		t.Error("A rejected candidate must leave the document unchanged")
	}
}

func TestConfigPut_TopologyFailureIs404(t *testing.T) {
	d, path := newTestDispatcher(t, testDocument)
	before := readFile(t, path)

	// Passes field validation but cannot be instantiated
	body := `{"layers": [{"name": "solo", "title": "Solo", "sources": ["solo_cache"]}], "caches": {"solo_cache": {}}, "sources": {}}`
	rec := doRequest(d, http.MethodPut, "/api/config", body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}

	msg := errorMessage(t, rec)
	if !strings.HasPrefix(msg, "Failed to update configuration:\n") {
		t.Errorf("Expected the update failure prefix, got %q", msg)
	}
	if !strings.Contains(msg, "no sources configured for cache 'solo_cache'") {
		t.Errorf("Expected the build error detail, got %q", msg)
	}
	if !bytes.Equal(before, readFile(t, path)) {
		t.Error("A rejected candidate must leave the document unchanged")
	}
}

func TestConfigPut_KeepsOpaqueSections(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	body := `{
	  "layers": [{"name": "solo", "title": "Solo", "sources": ["solo_src"]}],
	  "caches": {},
	  "sources": {"solo_src": {"type": "debug", "seed_only": true}},
	  "parts": {"bbox": [5.9, 45.8, 10.5, 47.8]}
	}`
	rec := doRequest(d, http.MethodPut, "/api/config", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	got := doRequest(d, http.MethodGet, "/api/config", "")
	var roundTripped map[string]interface{}
	decodeJSON(t, got, &roundTripped)

	parts, ok := roundTripped["parts"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected the opaque parts section to survive, got: %s", got.Body.String())
	}
	if bbox, ok := parts["bbox"].([]interface{}); !ok || len(bbox) != 4 {
		t.Errorf("Expected the bbox list to survive, got %v", parts["bbox"])
	}

	sources := roundTripped["sources"].(map[string]interface{})
	solo := sources["solo_src"].(map[string]interface{})
	if solo["seed_only"] != true {
		t.Errorf("Expected the opaque source field to survive, got %v", solo)
	}
}

func TestConfigPut_EchoesNormalizedDocument(t *testing.T) {
	d, _ := newTestDispatcher(t, testDocument)

	// Collections omitted from the body still appear in the response
	body := `{"layers": [{"name": "solo", "title": "Solo", "sources": ["solo_src"]}], "sources": {"solo_src": {"type": "debug"}}}`
	rec := doRequest(d, http.MethodPut, "/api/config", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var echoed map[string]json.RawMessage
	decodeJSON(t, rec, &echoed)
	if _, ok := echoed["caches"]; !ok {
		t.Error("Expected the omitted caches collection to be materialized")
	}
}
