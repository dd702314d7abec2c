// Package metastore provides relational persistence for index metadata.
//
// The store keeps everything the vector index cannot answer on its own:
// chunk records, per-file summaries, extracted symbols, typed relationship
// edges between entities, and file-level import dependencies. A singleton
// index_status row tracks the lifecycle of the index as a whole.
//
// # Schema Management
//
// Migrations are versioned with semantic versions and applied in order on
// startup. Each migration runs inside its own transaction; a failed
// migration leaves the database at the previous version.
//
// # Drivers
//
// Two SQLite drivers are supported through build tags. The default build
// uses the pure-Go modernc.org/sqlite driver and needs no C toolchain.
// Building with -tags cgo_sqlite selects mattn/go-sqlite3 instead.
//
// # Integrity
//
// Symbol rows carry an advisory chunk_id reference. Deleting a chunk does
// not cascade to symbols; re-indexing a file refreshes both sides.
package metastore
