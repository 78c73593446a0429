// Package config models the tilemux proxy configuration document.
//
// The document is a YAML file describing the tile proxy: an ordered list of
// layers, plus caches, sources, and grids keyed by name. This package parses
// it into typed records, preserves every field it does not model, validates
// candidate documents, and persists them back.
//
// # Document Structure
//
// The top-level sections are:
//   - layers: ordered sequence of layer records (order is display order)
//   - caches: mapping from cache name to cache record
//   - sources: mapping from source name to source record
//   - grids: mapping from grid name to grid definition
//
// Sections and record fields that this build does not interpret are kept in
// inline maps and written back unchanged, so a document survives a
// load/mutate/persist cycle without losing anything.
//
// # Store
//
// Store gives one request cycle access to the document:
//
//	store := config.NewStore("/etc/tilemux/tilemux.yaml")
//	doc, err := store.Load()        // parsed once, then memoized
//	...
//	err = store.Persist(candidate)  // write through, swap the cached value
//
// Mutations never touch the loaded document directly. Callers take a
// DeepCopy, change the copy, validate it, and persist it only when validation
// passed in full.
//
// # Validation
//
// Validate checks record fields (via go-playground/validator tags) and the
// references between layers, caches, sources, and grids. Findings are
// ValidationError values; advisory ones carry Informal=true and must not
// block a write.
package config
