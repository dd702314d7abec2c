package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semsearch-dev/semsearch/internal/graph"
	"github.com/semsearch-dev/semsearch/internal/metastore"
	"github.com/semsearch-dev/semsearch/internal/planner"
	"github.com/semsearch-dev/semsearch/internal/vectorstore"
	"github.com/semsearch-dev/semsearch/pkg/types"
)

// stubEmbedder maps exact texts to fixed vectors
type stubEmbedder struct {
	vectors map[string][]float32
	fail    map[string]bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.fail[text] {
		return nil, errors.New("embedding backend down")
	}
	vec, ok := s.vectors[text]
	if !ok {
		return []float32{0, 0, 1}, nil
	}
	return vec, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int   { return 3 }
func (s *stubEmbedder) Provider() string { return "stub" }
func (s *stubEmbedder) Model() string    { return "stub" }
func (s *stubEmbedder) Close() error     { return nil }

type fixture struct {
	retriever *Retriever
	meta      metastore.Store
	code      *vectorstore.Store
	summary   *vectorstore.Store
	emb       *stubEmbedder
}

func setup(t *testing.T) *fixture {
	t.Helper()

	meta, err := metastore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = meta.Close() })

	code := vectorstore.New()
	summary := vectorstore.New()
	code.Initialize(3, 100)
	summary.Initialize(3, 100)

	emb := &stubEmbedder{
		vectors: map[string][]float32{},
		fail:    map[string]bool{},
	}
	accessor := graph.NewAccessor(meta)

	return &fixture{
		retriever: New(code, summary, emb, meta, accessor),
		meta:      meta,
		code:      code,
		summary:   summary,
		emb:       emb,
	}
}

func (f *fixture) addChunk(t *testing.T, id, filePath string, vec []float32, layer types.Layer) {
	t.Helper()
	ctx := context.Background()

	chunk := &types.Chunk{
		ID:        id,
		FilePath:  filePath,
		StartLine: 1,
		EndLine:   10,
		Content:   "func " + id + "() {}",
	}
	chunk.ComputeContentHash()
	require.NoError(t, f.meta.UpsertChunk(ctx, chunk))

	meta := types.VectorMetadata{Layer: layer, FilePath: filePath}
	store := f.code
	if layer == types.LayerSummary {
		store = f.summary
	}
	_, err := store.Insert(vec, id, meta)
	require.NoError(t, err)
}

func codePlan(limit int) *planner.QueryPlan {
	return &planner.QueryPlan{
		Strategy: planner.StrategyCode,
		Query:    "query",
		Variants: []string{"query"},
		Layers:   []types.Layer{types.LayerCode},
		Limit:    limit,
	}
}

func TestExecuteCodeLayerRanksBySimilarity(t *testing.T) {
	f := setup(t)
	f.addChunk(t, "aligned", "a.go", []float32{1, 0, 0}, types.LayerCode)
	f.addChunk(t, "diagonal", "b.go", []float32{1, 1, 0}, types.LayerCode)
	f.addChunk(t, "orthogonal", "c.go", []float32{0, 1, 0}, types.LayerCode)
	f.emb.vectors["query"] = []float32{1, 0, 0}

	result, err := f.retriever.Execute(context.Background(), codePlan(10))
	require.NoError(t, err)
	require.Len(t, result.Code, 3)
	assert.Equal(t, "aligned", result.Code[0].ChunkID)
	assert.Equal(t, "diagonal", result.Code[1].ChunkID)
	assert.Equal(t, "orthogonal", result.Code[2].ChunkID)
	assert.NotNil(t, result.Code[0].Chunk)
	assert.InDelta(t, 1.0, result.Code[0].Score, 1e-5)
}

func TestExecuteKeepsMaxSimilarityAcrossVariants(t *testing.T) {
	f := setup(t)
	f.addChunk(t, "target", "a.go", []float32{1, 0, 0}, types.LayerCode)
	f.emb.vectors["query"] = []float32{0, 1, 0}    // orthogonal, similarity 0
	f.emb.vectors["expanded"] = []float32{1, 0, 0} // aligned, similarity 1

	plan := codePlan(10)
	plan.Variants = []string{"query", "expanded"}

	result, err := f.retriever.Execute(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, result.Code, 1)
	assert.InDelta(t, 1.0, result.Code[0].Score, 1e-5)
}

func TestExecuteHyDESearchedOnCodeLayer(t *testing.T) {
	f := setup(t)
	f.addChunk(t, "target", "a.go", []float32{1, 0, 0}, types.LayerCode)
	f.emb.vectors["query"] = []float32{0, 1, 0}
	f.emb.vectors["func Login() {}"] = []float32{1, 0, 0}

	plan := codePlan(10)
	plan.Hypothetical = "func Login() {}"

	result, err := f.retriever.Execute(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, result.Code, 1)
	assert.InDelta(t, 1.0, result.Code[0].Score, 1e-5)
}

func TestExecuteOriginalEmbedFailurePropagates(t *testing.T) {
	f := setup(t)
	f.emb.fail["query"] = true

	_, err := f.retriever.Execute(context.Background(), codePlan(10))
	assert.Error(t, err)
}

func TestExecuteVariantEmbedFailureSkipped(t *testing.T) {
	f := setup(t)
	f.addChunk(t, "target", "a.go", []float32{1, 0, 0}, types.LayerCode)
	f.emb.vectors["query"] = []float32{1, 0, 0}
	f.emb.fail["broken variant"] = true

	plan := codePlan(10)
	plan.Variants = []string{"query", "broken variant"}

	result, err := f.retriever.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Len(t, result.Code, 1)
}

func TestExecuteMultipleLayers(t *testing.T) {
	f := setup(t)
	f.addChunk(t, "code-1", "a.go", []float32{1, 0, 0}, types.LayerCode)
	f.addChunk(t, "summary-1", "a.go", []float32{1, 0, 0}, types.LayerSummary)
	f.emb.vectors["query"] = []float32{1, 0, 0}

	plan := codePlan(10)
	plan.Layers = []types.Layer{types.LayerCode, types.LayerSummary}

	result, err := f.retriever.Execute(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, result.Code, 1)
	require.Len(t, result.Summary, 1)
	assert.Equal(t, "code-1", result.Code[0].ChunkID)
	assert.Equal(t, "summary-1", result.Summary[0].ChunkID)
}

func TestExecuteFileLayer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.meta.UpsertFileSummary(ctx, &types.FileSummary{
		FilePath: "internal/auth/login.go",
		Summary:  "login flow",
		Exports:  []string{"Login"},
	}))
	require.NoError(t, f.meta.UpsertFileSummary(ctx, &types.FileSummary{
		FilePath: "internal/db/conn.go",
		Summary:  "db",
	}))

	plan := &planner.QueryPlan{
		Strategy: planner.StrategyFile,
		Query:    "where is the auth module",
		Variants: []string{"where is the auth module"},
		Layers:   []types.Layer{types.LayerFile},
		Limit:    10,
	}

	result, err := f.retriever.Execute(ctx, plan)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "internal/auth/login.go", result.Files[0].FilePath)
}

func TestExecuteContextExpansion(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.addChunk(t, "hit", "core.go", []float32{1, 0, 0}, types.LayerCode)
	// The neighbor chunk exists only in metadata; it is reachable through
	// the dependency edge, not through vector search.
	neighbor := &types.Chunk{
		ID: "neighbor", FilePath: "caller.go",
		StartLine: 1, EndLine: 5, Content: "func caller() {}",
	}
	neighbor.ComputeContentHash()
	require.NoError(t, f.meta.UpsertChunk(ctx, neighbor))
	require.NoError(t, f.meta.UpsertFileDependency(ctx, &types.FileDependency{
		FromPath: "caller.go",
		ToPath:   "core.go",
		Kind:     types.ImportStatic,
	}))
	f.emb.vectors["query"] = []float32{1, 0, 0}

	plan := codePlan(1)
	plan.ExpandContext = true

	result, err := f.retriever.Execute(ctx, plan)
	require.NoError(t, err)
	require.NotEmpty(t, result.Expanded)
	assert.Equal(t, "neighbor", result.Expanded[0].ID)
}

func TestExecuteEmptyIndex(t *testing.T) {
	f := setup(t)
	f.emb.vectors["query"] = []float32{1, 0, 0}

	result, err := f.retriever.Execute(context.Background(), codePlan(10))
	require.NoError(t, err)
	assert.Empty(t, result.Code)
}
