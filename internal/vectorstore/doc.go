// Package vectorstore provides an in-memory nearest-neighbor index over
// embeddings with file-based persistence.
//
// The store owns the only mapping between numeric vector slots and chunk
// identifiers. Inserting a vector for a chunk that already has one is an
// exact replace: the old slot is deleted first, so the store never holds
// two vectors for one chunk.
//
// # Dimension Locking
//
// The dimensionality passed to Initialize may be overridden by the first
// insert into an empty store. Once the store holds at least one vector,
// any insert with a different length fails with ErrDimensionMismatch and
// leaves the store unchanged.
//
// # Persistence
//
// Save writes two files: a binary index file of little-endian float32
// vectors keyed by slot ID, and a JSON mapping sidecar holding the
// dimensionality, next-slot counter, slot/chunk mapping table, and
// per-slot metadata. Load restores both, so slot IDs are stable across
// restarts.
//
// # Concurrency
//
// A single RWMutex guards the bidirectional maps: mutations are
// exclusive, searches may run concurrently with each other but never
// with a mutation.
package vectorstore
