package types

import "time"

// ImportRef is a single import recorded in a file summary, tagged by
// whether the target lives outside the project.
type ImportRef struct {
	Path       string
	IsExternal bool
}

// FileSummary holds the file-level record for one source file. It is
// superseded wholesale when the file is re-indexed.
type FileSummary struct {
	FilePath       string
	Summary        string
	Responsibility string
	Exports        []string
	Imports        []ImportRef
	ChunkIDs       []string
	UpdatedAt      time.Time
}

// ImportKind distinguishes how a file dependency was declared
type ImportKind string

const (
	ImportStatic  ImportKind = "static"
	ImportDynamic ImportKind = "dynamic"
	ImportRequire ImportKind = "require"
)

// FileDependency is a directed edge between two file paths, unique per
// (FromPath, ToPath) pair. Re-indexing replaces the edge, never
// duplicates it.
type FileDependency struct {
	FromPath   string
	ToPath     string
	Kind       ImportKind
	Symbols    []string
	IsExternal bool
}

// FileInterface is the export/import surface of a single file, used by
// graph-strategy queries.
type FileInterface struct {
	FilePath string
	Exports  []string
	Imports  []ImportRef
}
