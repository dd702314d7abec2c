package planner

import (
	"context"
	"strings"

	"github.com/semsearch-dev/semsearch/internal/augmenter"
	"github.com/semsearch-dev/semsearch/pkg/types"
)

// Strategy selects how a query is executed
type Strategy string

const (
	StrategyCode    Strategy = "code"
	StrategySummary Strategy = "summary"
	StrategyFile    Strategy = "file"
	StrategyGraph   Strategy = "graph"
	StrategyHybrid  Strategy = "hybrid"
)

// Config controls planning behavior
type Config struct {
	// ForceStrategy overrides keyword classification when non-empty
	ForceStrategy Strategy

	// ExpandQueries enables model-based query expansion
	ExpandQueries bool

	// HyDE enables hypothetical code generation
	HyDE bool

	// MultiVector lets the hybrid strategy search the summary layer in
	// addition to the code layer
	MultiVector bool
}

// QueryPlan is the executable description of one search
type QueryPlan struct {
	Strategy      Strategy
	Query         string        // original query text, verbatim
	Variants      []string      // query texts to embed; Variants[0] == Query
	Hypothetical  string        // HyDE text, empty when unavailable
	Layers        []types.Layer // vector layers to search
	ExpandContext bool
	Limit         int
}

// classification keyword groups, checked in order; first match wins
var keywordGroups = []struct {
	strategy Strategy
	keywords []string
}{
	{StrategySummary, []string{"how does", "what is", "explain", "overview", "architecture", "describe"}},
	{StrategyGraph, []string{"what uses", "what calls", "depends on", "imports", "exports", "related to"}},
	{StrategyCode, []string{"implement", "code for", "function", "method", "class"}},
	{StrategyFile, []string{"file", "module", "where is"}},
}

// Classify maps a query to a strategy by keyword matching. Queries
// matching no group default to hybrid.
func Classify(query string) Strategy {
	lowered := strings.ToLower(query)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.strategy
			}
		}
	}
	return StrategyHybrid
}

// layersFor returns the vector layers a strategy searches
func layersFor(strategy Strategy, cfg Config) []types.Layer {
	switch strategy {
	case StrategyCode, StrategyGraph:
		return []types.Layer{types.LayerCode}
	case StrategySummary:
		return []types.Layer{types.LayerSummary, types.LayerFile}
	case StrategyFile:
		return []types.Layer{types.LayerFile}
	case StrategyHybrid:
		if cfg.MultiVector {
			return []types.Layer{types.LayerCode, types.LayerSummary}
		}
		return []types.Layer{types.LayerCode}
	default:
		return []types.Layer{types.LayerCode}
	}
}

// Planner builds query plans. It is stateless; the augmenter may be nil,
// which disables expansion and HyDE regardless of config.
type Planner struct {
	aug augmenter.Augmenter
}

// New creates a planner
func New(aug augmenter.Augmenter) *Planner {
	if aug == nil {
		aug = augmenter.NewDisabled()
	}
	return &Planner{aug: aug}
}

// Plan classifies the query and assembles the variants, layers, and
// flags the retriever needs. Model-based augmentation is a separate
// step; see Augment.
func (p *Planner) Plan(ctx context.Context, query string, cfg Config, limit int) (*QueryPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	strategy := cfg.ForceStrategy
	if strategy == "" {
		strategy = Classify(query)
	}

	return &QueryPlan{
		Strategy:      strategy,
		Query:         query,
		Variants:      []string{query},
		Layers:        layersFor(strategy, cfg),
		ExpandContext: strategy == StrategyGraph || strategy == StrategySummary,
		Limit:         limit,
	}, nil
}

// Augment applies config-gated query expansion and HyDE to the plan in
// place. Augmentation is best-effort: any failure leaves the plan
// unchanged and the search proceeds with the raw query.
func (p *Planner) Augment(ctx context.Context, plan *QueryPlan, cfg Config) {
	if cfg.ExpandQueries {
		expanded, err := p.aug.ExpandQuery(ctx, plan.Query)
		if err == nil && expanded != "" && expanded != plan.Query {
			plan.Variants = append(plan.Variants, expanded)
		}
	}

	if cfg.HyDE && plan.Strategy != StrategyGraph {
		hypothetical, err := p.aug.GenerateHypotheticalCode(ctx, plan.Query)
		if err == nil {
			plan.Hypothetical = hypothetical
		}
	}
}
