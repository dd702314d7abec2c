// Package graph provides read-only traversal over the file dependency
// and relationship edges stored in the metadata database.
//
// The accessor is used to widen search results with structurally related
// code: the files a hit imports, the files that import it, and the chunks
// those neighbors contain. Traversal depth is bounded and expansion output
// is deterministic so repeated queries return identical context.
package graph
