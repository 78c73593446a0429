package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tilemux/tilemux/internal/config"
	"github.com/tilemux/tilemux/internal/log"
	"github.com/tilemux/tilemux/internal/topology"
)

// checkFunc validates a candidate document before it may be persisted.
type checkFunc func(*config.Document) error

// defaultCheck is the two-stage candidate check: document validation first,
// then a full topology build. Informal findings never block; they are
// logged and the mutation proceeds.
func defaultCheck(doc *config.Document) error {
	findings := doc.Validate()
	if !findings.InformalOnly() {
		return ValidationFailed(strings.Join(findings.Messages(), "\n"))
	}
	for _, warning := range findings.Informal() {
		log.Warnf("Configuration warning: %s", warning.String())
	}

	if _, err := topology.Build(doc); err != nil {
		return NotFound(fmt.Sprintf("Failed to update configuration:\n%v", err))
	}
	return nil
}

// base carries what every handler shares: the per-request document store
// and the candidate check.
type base struct {
	store *config.Store
	check checkFunc
}

func (b *base) load() (*config.Document, error) {
	return b.store.Load()
}

// commit runs the candidate check and persists the document only when the
// check passed in full. The live document is untouched on any failure.
func (b *base) commit(candidate *config.Document) error {
	if err := b.check(candidate); err != nil {
		return err
	}
	return b.store.Persist(candidate)
}

// decodeBody parses the request body into v. JSON is a subset of YAML, so
// the same permissive parser covers the wire format and keeps unknown
// fields via the inline maps. An empty body, a lone null, or anything that
// does not decode is a client error.
func decodeBody(r *http.Request, v interface{}) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return InvalidRequest("Invalid JSON")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return InvalidRequest("Invalid JSON")
	}
	if isNullDocument(&node) {
		return InvalidRequest("Invalid JSON")
	}
	if err := node.Decode(v); err != nil {
		return InvalidRequest("Invalid JSON")
	}
	return nil
}

func isNullDocument(node *yaml.Node) bool {
	if node.Kind == 0 {
		return true
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return true
		}
		return node.Content[0].ShortTag() == "!!null"
	}
	return node.ShortTag() == "!!null"
}
