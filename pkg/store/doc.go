// Package store implements the in-memory knowledge graph store.
//
// A Store is built once from static node and edge data and is immutable
// afterward: it exposes no mutation operations, so any number of concurrent
// queries can share one Store without locking. Node lookup by id and
// normalized-name resolution are both O(1); neighbor listings preserve edge
// insertion order so downstream ranking stays deterministic.
package store
