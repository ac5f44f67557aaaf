// Package catalog implements an MVCC-style versioned namespace: a
// [CatalogSet] is a per-name version chain terminated by an Invalid dummy
// entry, modeled as a doubly-linked list of [Entry] nodes, and [Catalog]
// is the two-level schemas -> {tables, indexes} root built on top of it.
//
// A generic [CatalogSet] is parameterized over the payload a version
// carries, so schemas (which need nested tables/indexes sets) and
// tables/indexes (which carry no extra payload) share one implementation
// instead of three hand-duplicated ones.
package catalog
