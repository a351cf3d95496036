// Package table implements the server-side table rendering decision pipeline.
//
// The package is independent of any HTML or HTTP machinery. It provides:
//   - RequestState: per-request sort and paging parameters, plus defaulting
//     against a Definition
//   - Definition, Column, Overrides: declarative table configuration and a
//     read-through override decorator
//   - Registry: a lazily-filled, concurrency-safe definition cache
//   - Paginate / Rows: the sort-then-slice row pipeline
//   - PageWindow: the visible pager window for a result set
//   - URLManager: navigation links that preserve the incoming query string
//   - RenderFlags: which regions (table body, pager, page-size control) a
//     request asks for
//
// All per-request values are owned by a single goroutine; only Registry is
// shared between requests.
package table
