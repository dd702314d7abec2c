package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/semsearch-dev/semsearch/internal/augmenter"
	"github.com/semsearch-dev/semsearch/internal/embedder"
	"github.com/semsearch-dev/semsearch/internal/graph"
	"github.com/semsearch-dev/semsearch/internal/metastore"
	"github.com/semsearch-dev/semsearch/internal/planner"
	"github.com/semsearch-dev/semsearch/internal/ranker"
	"github.com/semsearch-dev/semsearch/internal/retriever"
	"github.com/semsearch-dev/semsearch/internal/vectorstore"
	"github.com/semsearch-dev/semsearch/pkg/types"
)

// ErrEmptyQuery is returned when a request carries no query text
var ErrEmptyQuery = errors.New("query cannot be empty")

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Config holds engine configuration
type Config struct {
	// DataDir is where index files are saved and loaded
	DataDir string

	// Planner controls classification overrides and augmentation
	Planner planner.Config

	// Weights for result fusion; zero value selects the defaults
	Weights ranker.Weights

	// CacheSize is the query cache capacity; 0 selects 1000
	CacheSize int

	// CacheTTL is how long cached responses stay valid; 0 selects 1h
	CacheTTL time.Duration

	// Logger for structured query logging; nil selects slog.Default
	Logger *slog.Logger
}

// Request is one search request
type Request struct {
	Query          string
	Limit          int
	FileTypes      []string // extension filter, e.g. ".go"
	Paths          []string // path prefix filter
	IncludeCode    bool
	IncludeSummary bool
}

// Latency breaks down where query time went
type Latency struct {
	PlanningMs     float64
	AugmentationMs float64
	SearchMs       float64
	TotalMs        float64
}

// Response is the result of one search
type Response struct {
	Results  []types.SearchResult
	Expanded []types.SearchResult // context expansion, when the plan asked for it
	Strategy string
	CacheHit bool
	Latency  Latency
}

// Engine is the composition root: it owns both vector stores, the
// metadata store, and the query pipeline.
type Engine struct {
	codeStore    *vectorstore.Store
	summaryStore *vectorstore.Store
	meta         metastore.Store
	emb          embedder.Embedder
	planner      *planner.Planner
	retr         *retriever.Retriever
	cfg          Config
	cache        *queryCache
	logger       *slog.Logger
}

// New wires an engine from its dependencies. The vector stores start
// empty; call Load to restore a saved index.
func New(meta metastore.Store, emb embedder.Embedder, aug augmenter.Augmenter, cfg Config) *Engine {
	codeStore := vectorstore.New()
	summaryStore := vectorstore.New()
	codeStore.Initialize(emb.Dimension(), 0)
	summaryStore.Initialize(emb.Dimension(), 0)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	accessor := graph.NewAccessor(meta)
	return &Engine{
		codeStore:    codeStore,
		summaryStore: summaryStore,
		meta:         meta,
		emb:          emb,
		planner:      planner.New(aug),
		retr:         retriever.New(codeStore, summaryStore, emb, meta, accessor),
		cfg:          cfg,
		cache:        newQueryCache(cfg.CacheSize),
		logger:       logger,
	}
}

// Query runs the full pipeline: plan, augment, retrieve, merge, filter.
// Zero hits on a healthy index yield an empty result list, not an error.
func (e *Engine) Query(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	log := e.logger.With("request_id", uuid.NewString(), "query", req.Query)

	hash := requestHash(req)
	if resp := e.cache.get(hash, e.cfg.CacheTTL); resp != nil {
		resp.CacheHit = true
		resp.Latency.TotalMs = msSince(start)
		log.Debug("query served from cache")
		return resp, nil
	}

	planStart := time.Now()
	plan, err := e.planner.Plan(ctx, req.Query, e.cfg.Planner, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("planning query: %w", err)
	}
	planningMs := msSince(planStart)

	augStart := time.Now()
	e.planner.Augment(ctx, plan, e.cfg.Planner)
	augmentationMs := msSince(augStart)

	searchStart := time.Now()
	hits, err := e.retr.Execute(ctx, plan)
	if err != nil {
		log.Error("search failed", "strategy", plan.Strategy, "error", err)
		return nil, err
	}

	weights := e.cfg.Weights
	if weights == (ranker.Weights{}) {
		weights = ranker.DefaultWeights()
	}
	ranked := ranker.MergeAndRank(hits.Code, hits.Summary, weights)
	results := ranker.FormatSearchResults(ranked, req.IncludeCode, req.IncludeSummary)
	results = append(fileResults(hits.Files), results...)
	results = applyFilters(results, req.FileTypes, req.Paths)
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	searchMs := msSince(searchStart)

	resp := &Response{
		Results:  results,
		Expanded: expandedResults(hits.Expanded),
		Strategy: string(plan.Strategy),
		Latency: Latency{
			PlanningMs:     planningMs,
			AugmentationMs: augmentationMs,
			SearchMs:       searchMs,
			TotalMs:        msSince(start),
		},
	}
	e.cache.put(hash, resp)

	log.Info("query executed",
		"strategy", plan.Strategy,
		"variants", len(plan.Variants),
		"results", len(results),
		"expanded", len(resp.Expanded),
		"total_ms", resp.Latency.TotalMs)
	return resp, nil
}

// fileResults converts file-layer matches to result records. They carry
// a fixed score and stay in path order.
func fileResults(files []*types.FileSummary) []types.SearchResult {
	results := make([]types.SearchResult, 0, len(files))
	for _, fs := range files {
		results = append(results, types.SearchResult{
			FilePath: fs.FilePath,
			Snippet:  fs.Summary,
			Summary:  fs.Summary,
			Score:    1.0,
		})
	}
	return results
}

func expandedResults(chunks []*types.Chunk) []types.SearchResult {
	results := make([]types.SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, types.SearchResult{
			ChunkID:    chunk.ID,
			FilePath:   chunk.FilePath,
			StartLine:  chunk.StartLine,
			EndLine:    chunk.EndLine,
			Snippet:    chunk.Snippet(),
			SymbolName: chunk.SymbolName,
			SymbolType: chunk.SymbolType,
			Language:   chunk.Language,
		})
	}
	return results
}

// applyFilters keeps results matching any file type AND any path prefix
func applyFilters(results []types.SearchResult, fileTypes, paths []string) []types.SearchResult {
	if len(fileTypes) == 0 && len(paths) == 0 {
		return results
	}

	filtered := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if len(fileTypes) > 0 && !matchesFileType(r.FilePath, fileTypes) {
			continue
		}
		if len(paths) > 0 && !matchesPathPrefix(r.FilePath, paths) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func matchesFileType(filePath string, fileTypes []string) bool {
	ext := filepath.Ext(filePath)
	for _, ft := range fileTypes {
		if !strings.HasPrefix(ft, ".") {
			ft = "." + ft
		}
		if strings.EqualFold(ext, ft) {
			return true
		}
	}
	return false
}

func matchesPathPrefix(filePath string, paths []string) bool {
	for _, p := range paths {
		if strings.HasPrefix(filePath, p) {
			return true
		}
	}
	return false
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
