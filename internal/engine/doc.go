// Package engine is the composition root of the search service.
//
// An Engine owns the code and summary vector stores, the SQLite
// metadata store, and the query pipeline: plan, augment, retrieve,
// merge, filter. Responses are cached in an LRU keyed by a hash of the
// full request; any index mutation purges the cache.
//
// Engines are constructed explicitly with New and injected where
// needed. There are no package-level singletons.
package engine
