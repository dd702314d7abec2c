package metastore

import (
	"context"
	"errors"

	"github.com/semsearch-dev/semsearch/pkg/types"
)

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")
)

// SymbolFilter narrows a symbol search. Name is matched as a substring
// of the name or qualified name.
type SymbolFilter struct {
	Name         string
	Kind         types.SymbolKind
	ExportedOnly bool
	Limit        int
}

// Store defines the interface for the relational metadata store. It
// holds chunk records, file summaries, symbols, and the graph edges used
// for context expansion; vectors live elsewhere and are joined only by
// chunk identifier.
type Store interface {
	// Chunk operations. Upsert is idempotent per chunk ID: re-indexing a
	// file with an unchanged content hash never creates a duplicate.
	UpsertChunk(ctx context.Context, chunk *types.Chunk) error
	GetChunk(ctx context.Context, chunkID string) (*types.Chunk, error)
	GetChunks(ctx context.Context, chunkIDs []string) ([]*types.Chunk, error)
	ChunksByFile(ctx context.Context, filePath string) ([]*types.Chunk, error)
	// DeleteChunk removes only the chunk row. Symbols referencing the
	// chunk keep their chunk_id; callers clean those up explicitly.
	DeleteChunk(ctx context.Context, chunkID string) error
	DeleteChunksByFile(ctx context.Context, filePath string) error
	// CountFiles returns the number of distinct file paths with at least
	// one chunk.
	CountFiles(ctx context.Context) (int, error)

	// File summary operations. Upsert supersedes the row wholesale.
	UpsertFileSummary(ctx context.Context, summary *types.FileSummary) error
	GetFileSummary(ctx context.Context, filePath string) (*types.FileSummary, error)
	MatchFileSummaries(ctx context.Context, terms []string, limit int) ([]*types.FileSummary, error)
	FileInterface(ctx context.Context, filePath string) (*types.FileInterface, error)
	DeleteFileSummary(ctx context.Context, filePath string) error

	// Symbol operations
	UpsertSymbol(ctx context.Context, symbol *types.Symbol) error
	SymbolsByFile(ctx context.Context, filePath string) ([]*types.Symbol, error)
	SearchSymbols(ctx context.Context, filter SymbolFilter) ([]*types.Symbol, error)
	DeleteSymbolsByFile(ctx context.Context, filePath string) error
	// CallersOf returns symbols whose outgoing call/reference edges
	// target the named symbol.
	CallersOf(ctx context.Context, symbolName string) ([]*types.Symbol, error)

	// Relationship operations
	AddRelationship(ctx context.Context, rel *types.Relationship) error
	RelationsFrom(ctx context.Context, from types.EntityRef) ([]*types.Relationship, error)
	RelationsTo(ctx context.Context, to types.EntityRef) ([]*types.Relationship, error)

	// File dependency operations. Upsert is idempotent per (from, to):
	// calling twice with different symbols replaces the row.
	UpsertFileDependency(ctx context.Context, dep *types.FileDependency) error
	DependenciesOf(ctx context.Context, fromPath string) ([]*types.FileDependency, error)
	DependentsOf(ctx context.Context, toPath string) ([]*types.FileDependency, error)
	// DeleteFileDependencies removes every edge touching filePath, in
	// either direction.
	DeleteFileDependencies(ctx context.Context, filePath string) error

	// Status operations on the singleton index record
	GetIndexStatus(ctx context.Context) (*types.IndexStatus, error)
	UpdateIndexStatus(ctx context.Context, status *types.IndexStatus) error

	// ClearAll empties every table in a single transaction
	ClearAll(ctx context.Context) error

	Close() error
}
