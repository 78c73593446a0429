// Package topology instantiates a configuration document into the object
// graph the tile proxy would serve from: resolved grids, sources, caches,
// and layers.
//
// Building a topology is the second validation stage for candidate
// documents. The first stage (config.Validate) checks fields and
// references; Build proves the document is actually runnable: every source
// type is known and well-formed, tile URL templates cover all coordinate
// axes, grid inheritance resolves, and cache chains are acyclic.
//
// Build stops at instantiation. Nothing here talks to upstream servers or
// serves tiles.
package topology
