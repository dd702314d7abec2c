// Package types provides shared type definitions for the semsearch engine.
//
// This package defines the records exchanged between the retrieval core and
// its out-of-scope collaborators: chunks produced by the chunking pipeline,
// symbols and file summaries held by the metadata store, relationship edges
// used for graph expansion, and the caller-facing search result shape.
//
// # Core Types
//
// Chunk is the unit of indexing: a contiguous span of source text with a
// stable identifier and a content hash used for change detection:
//
//	chunk := &types.Chunk{
//	    ID:        "auth.go:12-48:9f2c",
//	    FilePath:  "internal/auth/auth.go",
//	    StartLine: 12,
//	    EndLine:   48,
//	    Content:   source,
//	    Language:  "go",
//	}
//	chunk.ComputeContentHash()
//
// VectorMetadata is the closed record attached to every vector in the
// vector store. It replaces a free-form metadata bag so that formatting
// code cannot reference fields that were never set for a given layer.
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Search Results
//
// SearchResult is the formatted, caller-facing shape: file path, line
// range, a snippet, and optional summary and score. Scores are combined
// layer similarities in the [0, 1] range, higher is better.
package types
