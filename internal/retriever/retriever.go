package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/semsearch-dev/semsearch/internal/embedder"
	"github.com/semsearch-dev/semsearch/internal/graph"
	"github.com/semsearch-dev/semsearch/internal/metastore"
	"github.com/semsearch-dev/semsearch/internal/planner"
	"github.com/semsearch-dev/semsearch/internal/vectorstore"
	"github.com/semsearch-dev/semsearch/pkg/types"
)

// Scored pairs a chunk with its best similarity across query variants
type Scored struct {
	ChunkID string
	Chunk   *types.Chunk
	Score   float64
}

// Result holds per-layer hits for one executed plan
type Result struct {
	Code     []Scored
	Summary  []Scored
	Files    []*types.FileSummary
	Expanded []*types.Chunk
}

// Retriever executes query plans against the two vector stores and the
// metadata store.
type Retriever struct {
	codeStore    *vectorstore.Store
	summaryStore *vectorstore.Store
	emb          embedder.Embedder
	meta         metastore.Store
	graph        *graph.Accessor
}

// New creates a retriever
func New(codeStore, summaryStore *vectorstore.Store, emb embedder.Embedder, meta metastore.Store, accessor *graph.Accessor) *Retriever {
	return &Retriever{
		codeStore:    codeStore,
		summaryStore: summaryStore,
		emb:          emb,
		meta:         meta,
		graph:        accessor,
	}
}

// Execute runs every layer of the plan. Vector layers run concurrently;
// the first hard failure cancels the rest.
func (r *Retriever) Execute(ctx context.Context, plan *planner.QueryPlan) (*Result, error) {
	result := &Result{}

	g, gctx := errgroup.WithContext(ctx)
	for _, layer := range plan.Layers {
		switch layer {
		case types.LayerCode:
			g.Go(func() error {
				scored, err := r.searchLayer(gctx, r.codeStore, plan, true)
				if err != nil {
					return fmt.Errorf("code layer: %w", err)
				}
				result.Code = scored
				return nil
			})
		case types.LayerSummary:
			g.Go(func() error {
				scored, err := r.searchLayer(gctx, r.summaryStore, plan, false)
				if err != nil {
					return fmt.Errorf("summary layer: %w", err)
				}
				result.Summary = scored
				return nil
			})
		case types.LayerFile:
			g.Go(func() error {
				files, err := r.searchFiles(gctx, plan)
				if err != nil {
					return fmt.Errorf("file layer: %w", err)
				}
				result.Files = files
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if plan.ExpandContext {
		expanded, err := r.expandContext(ctx, result, plan.Limit)
		if err != nil {
			return nil, fmt.Errorf("context expansion: %w", err)
		}
		result.Expanded = expanded
	}

	return result, nil
}

// searchLayer embeds every variant and searches one vector store. A
// chunk hit by several variants keeps its best similarity. Embedding
// failure on the original query propagates; later variants are
// best-effort.
func (r *Retriever) searchLayer(ctx context.Context, store *vectorstore.Store, plan *planner.QueryPlan, includeHyDE bool) ([]Scored, error) {
	texts := plan.Variants
	if includeHyDE && plan.Hypothetical != "" {
		texts = append(append([]string{}, texts...), plan.Hypothetical)
	}

	best := make(map[string]float64)
	order := make([]string, 0)

	for i, text := range texts {
		vec, err := r.emb.Embed(ctx, text)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("embedding query: %w", err)
			}
			continue
		}

		hits, err := store.Search(vec, plan.Limit*2)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			if _, seen := best[hit.ChunkID]; !seen {
				order = append(order, hit.ChunkID)
				best[hit.ChunkID] = hit.Similarity
			} else if hit.Similarity > best[hit.ChunkID] {
				best[hit.ChunkID] = hit.Similarity
			}
		}
	}

	chunks, err := r.meta.GetChunks(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	byID := make(map[string]*types.Chunk, len(chunks))
	for _, chunk := range chunks {
		byID[chunk.ID] = chunk
	}

	scored := make([]Scored, 0, len(order))
	for _, id := range order {
		scored = append(scored, Scored{
			ChunkID: id,
			Chunk:   byID[id], // nil when metadata lags the vector index
			Score:   best[id],
		})
	}

	// Descending score; the stable sort keeps first-seen order on ties.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// searchFiles matches file summaries by token containment over paths
// and exported names. Matches all score 1.0 and come back in path order.
func (r *Retriever) searchFiles(ctx context.Context, plan *planner.QueryPlan) ([]*types.FileSummary, error) {
	terms := queryTerms(plan.Query)
	if len(terms) == 0 {
		return []*types.FileSummary{}, nil
	}
	return r.meta.MatchFileSummaries(ctx, terms, plan.Limit)
}

// queryTerms splits a query into match tokens, dropping short words
func queryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '_')
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

// expandContext widens the hit set with chunks from structurally
// related files.
func (r *Retriever) expandContext(ctx context.Context, result *Result, limit int) ([]*types.Chunk, error) {
	seedSet := make(map[string]bool)
	exclude := make([]string, 0)

	collect := func(scored []Scored) {
		for _, s := range scored {
			exclude = append(exclude, s.ChunkID)
			if s.Chunk != nil {
				seedSet[s.Chunk.FilePath] = true
			}
		}
	}
	collect(result.Code)
	collect(result.Summary)
	for _, fs := range result.Files {
		seedSet[fs.FilePath] = true
	}

	if len(seedSet) == 0 {
		return []*types.Chunk{}, nil
	}

	seeds := make([]string, 0, len(seedSet))
	for path := range seedSet {
		seeds = append(seeds, path)
	}
	sort.Strings(seeds)

	return r.graph.ExpandContext(ctx, seeds, exclude, limit)
}
