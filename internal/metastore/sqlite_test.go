package metastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semsearch-dev/semsearch/pkg/types"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testChunk(id, filePath string) *types.Chunk {
	chunk := &types.Chunk{
		ID:         id,
		FilePath:   filePath,
		StartLine:  10,
		EndLine:    12,
		Content:    "func Hello() string { return \"hello\" }",
		SymbolName: "Hello",
		SymbolType: "function",
		Language:   "go",
		Imports:    []string{"fmt"},
		Signature:  "func Hello() string",
		Summary:    "Returns a greeting",
	}
	chunk.ComputeContentHash()
	chunk.ComputeTokenCount()
	return chunk
}

func TestUpsertChunkIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunk := testChunk("chunk-1", "pkg/greet/greet.go")
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	chunk.Summary = "Returns a friendly greeting"
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	got, err := store.GetChunk(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, "Returns a friendly greeting", got.Summary)
	assert.Equal(t, []string{"fmt"}, got.Imports)

	chunks, err := store.ChunksByFile(ctx, "pkg/greet/greet.go")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestGetChunkNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetChunk(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetChunksPreservesOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChunk(ctx, testChunk("a", "a.go")))
	require.NoError(t, store.UpsertChunk(ctx, testChunk("b", "b.go")))
	require.NoError(t, store.UpsertChunk(ctx, testChunk("c", "c.go")))

	chunks, err := store.GetChunks(ctx, []string{"c", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c", chunks[0].ID)
	assert.Equal(t, "a", chunks[1].ID)
}

func TestDeleteChunksByFile(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChunk(ctx, testChunk("a", "keep.go")))
	require.NoError(t, store.UpsertChunk(ctx, testChunk("b", "drop.go")))

	require.NoError(t, store.DeleteChunksByFile(ctx, "drop.go"))

	_, err := store.GetChunk(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetChunk(ctx, "a")
	assert.NoError(t, err)
}

func TestCountFiles(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	count, err := store.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.UpsertChunk(ctx, testChunk("a1", "a.go")))
	require.NoError(t, store.UpsertChunk(ctx, testChunk("a2", "a.go")))
	require.NoError(t, store.UpsertChunk(ctx, testChunk("b1", "b.go")))

	count, err = store.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.DeleteChunksByFile(ctx, "b.go"))
	count, err = store.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFileSummaryRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	summary := &types.FileSummary{
		FilePath:       "internal/auth/login.go",
		Summary:        "Handles user login and session creation",
		Responsibility: "authentication",
		Exports:        []string{"Login", "Logout"},
		Imports: []types.ImportRef{
			{Path: "net/http", IsExternal: false},
			{Path: "github.com/golang-jwt/jwt", IsExternal: true},
		},
		ChunkIDs: []string{"c1", "c2"},
	}
	require.NoError(t, store.UpsertFileSummary(ctx, summary))

	got, err := store.GetFileSummary(ctx, "internal/auth/login.go")
	require.NoError(t, err)
	assert.Equal(t, summary.Summary, got.Summary)
	assert.Equal(t, summary.Exports, got.Exports)
	assert.Equal(t, summary.Imports, got.Imports)
	assert.False(t, got.UpdatedAt.IsZero())

	iface, err := store.FileInterface(ctx, "internal/auth/login.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Login", "Logout"}, iface.Exports)
	assert.Len(t, iface.Imports, 2)
}

func TestDeleteFileSummary(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertFileSummary(ctx, &types.FileSummary{
		FilePath: "a.go",
		Summary:  "short-lived",
	}))
	require.NoError(t, store.DeleteFileSummary(ctx, "a.go"))

	_, err := store.GetFileSummary(ctx, "a.go")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing summary is a no-op.
	assert.NoError(t, store.DeleteFileSummary(ctx, "a.go"))
}

func TestMatchFileSummaries(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	files := []*types.FileSummary{
		{FilePath: "internal/auth/login.go", Summary: "login", Exports: []string{"Login"}},
		{FilePath: "internal/auth/token.go", Summary: "tokens", Exports: []string{"Sign"}},
		{FilePath: "internal/db/conn.go", Summary: "db", Exports: []string{"Connect"}},
	}
	for _, fs := range files {
		require.NoError(t, store.UpsertFileSummary(ctx, fs))
	}

	matches, err := store.MatchFileSummaries(ctx, []string{"auth"}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// Ordered by file path for determinism.
	assert.Equal(t, "internal/auth/login.go", matches[0].FilePath)
	assert.Equal(t, "internal/auth/token.go", matches[1].FilePath)

	matches, err = store.MatchFileSummaries(ctx, []string{"Connect"}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "internal/db/conn.go", matches[0].FilePath)

	matches, err = store.MatchFileSummaries(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSymbolUpsertAndSearch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	symbols := []*types.Symbol{
		{
			Name:          "ParseConfig",
			QualifiedName: "config.ParseConfig",
			Kind:          types.KindFunction,
			FilePath:      "internal/config/config.go",
			StartLine:     20,
			EndLine:       45,
			Signature:     "func ParseConfig(path string) (*Config, error)",
			Visibility:    types.VisibilityPublic,
			IsExported:    true,
		},
		{
			Name:          "parseEnv",
			QualifiedName: "config.parseEnv",
			Kind:          types.KindFunction,
			FilePath:      "internal/config/config.go",
			StartLine:     50,
			EndLine:       70,
			Visibility:    types.VisibilityPrivate,
		},
		{
			Name:          "Config",
			QualifiedName: "config.Config",
			Kind:          types.KindType,
			FilePath:      "internal/config/config.go",
			StartLine:     5,
			EndLine:       18,
			Visibility:    types.VisibilityPublic,
			IsExported:    true,
		},
	}
	for _, sym := range symbols {
		require.NoError(t, store.UpsertSymbol(ctx, sym))
	}

	// Upsert on the same (file, qualified name, line) updates in place.
	symbols[0].Signature = "func ParseConfig(path string, strict bool) (*Config, error)"
	require.NoError(t, store.UpsertSymbol(ctx, symbols[0]))

	byFile, err := store.SymbolsByFile(ctx, "internal/config/config.go")
	require.NoError(t, err)
	require.Len(t, byFile, 3)
	assert.Equal(t, "Config", byFile[0].Name) // ordered by start line

	found, err := store.SearchSymbols(ctx, SymbolFilter{Name: "parse"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = store.SearchSymbols(ctx, SymbolFilter{Name: "parse", ExportedOnly: true})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "func ParseConfig(path string, strict bool) (*Config, error)", found[0].Signature)

	found, err = store.SearchSymbols(ctx, SymbolFilter{Kind: types.KindType})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Config", found[0].Name)
}

func TestCallersOf(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	callee := &types.Symbol{
		Name:          "Save",
		QualifiedName: "store.Save",
		Kind:          types.KindMethod,
		FilePath:      "internal/store/store.go",
		StartLine:     100,
		EndLine:       120,
	}
	caller := &types.Symbol{
		Name:          "HandleUpload",
		QualifiedName: "api.HandleUpload",
		Kind:          types.KindFunction,
		FilePath:      "internal/api/upload.go",
		StartLine:     30,
		EndLine:       60,
	}
	require.NoError(t, store.UpsertSymbol(ctx, callee))
	require.NoError(t, store.UpsertSymbol(ctx, caller))

	rel := &types.Relationship{
		From: types.EntityRef{Kind: types.EntitySymbol, ID: "api.HandleUpload"},
		To:   types.EntityRef{Kind: types.EntitySymbol, ID: "store.Save"},
		Type: types.RelCalls,
	}
	require.NoError(t, store.AddRelationship(ctx, rel))
	// Duplicate edges are ignored.
	require.NoError(t, store.AddRelationship(ctx, rel))

	callers, err := store.CallersOf(ctx, "store.Save")
	require.NoError(t, err)
	require.Len(t, callers, 1)
	assert.Equal(t, "HandleUpload", callers[0].Name)

	callers, err = store.CallersOf(ctx, "store.Missing")
	require.NoError(t, err)
	assert.Empty(t, callers)
}

func TestRelationsFromAndTo(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	edges := []*types.Relationship{
		{
			From: types.EntityRef{Kind: types.EntityFile, ID: "a.go"},
			To:   types.EntityRef{Kind: types.EntityFile, ID: "b.go"},
			Type: types.RelImports,
		},
		{
			From: types.EntityRef{Kind: types.EntityFile, ID: "a.go"},
			To:   types.EntityRef{Kind: types.EntityFile, ID: "c.go"},
			Type: types.RelImports,
		},
	}
	for _, e := range edges {
		require.NoError(t, store.AddRelationship(ctx, e))
	}

	from, err := store.RelationsFrom(ctx, types.EntityRef{Kind: types.EntityFile, ID: "a.go"})
	require.NoError(t, err)
	require.Len(t, from, 2)
	assert.Equal(t, "b.go", from[0].To.ID)

	to, err := store.RelationsTo(ctx, types.EntityRef{Kind: types.EntityFile, ID: "c.go"})
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "a.go", to[0].From.ID)
}

func TestFileDependencyReplace(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	dep := &types.FileDependency{
		FromPath: "cmd/main.go",
		ToPath:   "internal/server/server.go",
		Kind:     types.ImportStatic,
		Symbols:  []string{"New"},
	}
	require.NoError(t, store.UpsertFileDependency(ctx, dep))

	dep.Symbols = []string{"New", "Run"}
	require.NoError(t, store.UpsertFileDependency(ctx, dep))

	deps, err := store.DependenciesOf(ctx, "cmd/main.go")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, []string{"New", "Run"}, deps[0].Symbols)

	dependents, err := store.DependentsOf(ctx, "internal/server/server.go")
	require.NoError(t, err)
	require.Len(t, dependents, 1)
	assert.Equal(t, "cmd/main.go", dependents[0].FromPath)
}

func TestDeleteFileDependencies(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	addDep := func(from, to string) {
		require.NoError(t, store.UpsertFileDependency(ctx, &types.FileDependency{
			FromPath: from,
			ToPath:   to,
			Kind:     types.ImportStatic,
		}))
	}
	addDep("mid.go", "low.go")
	addDep("high.go", "mid.go")
	addDep("high.go", "low.go")

	// Edges touching mid.go go in both directions; the rest survive.
	require.NoError(t, store.DeleteFileDependencies(ctx, "mid.go"))

	deps, err := store.DependenciesOf(ctx, "mid.go")
	require.NoError(t, err)
	assert.Empty(t, deps)
	dependents, err := store.DependentsOf(ctx, "mid.go")
	require.NoError(t, err)
	assert.Empty(t, dependents)

	deps, err = store.DependenciesOf(ctx, "high.go")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "low.go", deps[0].ToPath)
}

func TestIndexStatusLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// The migration seeds an idle singleton row.
	status, err := store.GetIndexStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StateIdle, status.State)
	assert.Zero(t, status.ChunkCount)

	status.ProjectPath = "/home/dev/project"
	status.EmbeddingModel = "nomic-embed-text"
	status.Dimensions = 768
	status.State = types.StateReady
	status.FileCount = 12
	status.ChunkCount = 90
	status.VectorCount = 120
	status.LastIndexedAt = time.Now()
	require.NoError(t, store.UpdateIndexStatus(ctx, status))

	got, err := store.GetIndexStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StateReady, got.State)
	assert.Equal(t, 768, got.Dimensions)
	assert.Equal(t, 90, got.ChunkCount)
	assert.False(t, got.LastIndexedAt.IsZero())
}

func TestClearAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChunk(ctx, testChunk("c1", "a.go")))
	require.NoError(t, store.UpsertFileSummary(ctx, &types.FileSummary{FilePath: "a.go", Summary: "x"}))
	require.NoError(t, store.UpsertSymbol(ctx, &types.Symbol{
		Name: "F", QualifiedName: "a.F", Kind: types.KindFunction,
		FilePath: "a.go", StartLine: 1, EndLine: 2,
	}))
	require.NoError(t, store.UpsertFileDependency(ctx, &types.FileDependency{
		FromPath: "a.go", ToPath: "b.go", Kind: types.ImportStatic,
	}))

	status, err := store.GetIndexStatus(ctx)
	require.NoError(t, err)
	status.State = types.StateReady
	status.ChunkCount = 1
	require.NoError(t, store.UpdateIndexStatus(ctx, status))

	require.NoError(t, store.ClearAll(ctx))

	_, err = store.GetChunk(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetFileSummary(ctx, "a.go")
	assert.ErrorIs(t, err, ErrNotFound)

	syms, err := store.SymbolsByFile(ctx, "a.go")
	require.NoError(t, err)
	assert.Empty(t, syms)

	deps, err := store.DependenciesOf(ctx, "a.go")
	require.NoError(t, err)
	assert.Empty(t, deps)

	status, err = store.GetIndexStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StateIdle, status.State)
	assert.Zero(t, status.ChunkCount)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	store := setupTestStore(t)

	// Re-applying against an up-to-date schema is a no-op.
	err := ApplyMigrations(context.Background(), store.db)
	assert.NoError(t, err)
}
