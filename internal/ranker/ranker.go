package ranker

import (
	"sort"

	"github.com/semsearch-dev/semsearch/internal/retriever"
	"github.com/semsearch-dev/semsearch/pkg/types"
)

// Weights control how the code and summary layer scores combine
type Weights struct {
	Code    float64
	Summary float64
}

// DefaultWeights favors the code layer
func DefaultWeights() Weights {
	return Weights{Code: 0.6, Summary: 0.4}
}

// Ranked is a fused result with its per-layer components
type Ranked struct {
	ChunkID      string
	Chunk        *types.Chunk
	Score        float64
	CodeScore    float64
	SummaryScore float64
}

// MergeAndRank fuses the code and summary layer hits into one list. A
// chunk present in only one layer scores zero on the other. Results sort
// by combined score descending; ties keep first-seen order with the code
// list enumerated first.
func MergeAndRank(code, summary []retriever.Scored, w Weights) []Ranked {
	index := make(map[string]int)
	merged := make([]Ranked, 0, len(code)+len(summary))

	for _, s := range code {
		if i, seen := index[s.ChunkID]; seen {
			if s.Score > merged[i].CodeScore {
				merged[i].CodeScore = s.Score
			}
			continue
		}
		index[s.ChunkID] = len(merged)
		merged = append(merged, Ranked{ChunkID: s.ChunkID, Chunk: s.Chunk, CodeScore: s.Score})
	}
	for _, s := range summary {
		if i, seen := index[s.ChunkID]; seen {
			if s.Score > merged[i].SummaryScore {
				merged[i].SummaryScore = s.Score
			}
			if merged[i].Chunk == nil {
				merged[i].Chunk = s.Chunk
			}
			continue
		}
		index[s.ChunkID] = len(merged)
		merged = append(merged, Ranked{ChunkID: s.ChunkID, Chunk: s.Chunk, SummaryScore: s.Score})
	}

	for i := range merged {
		merged[i].Score = merged[i].CodeScore*w.Code + merged[i].SummaryScore*w.Summary
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

// FormatSearchResults converts ranked chunks to the caller-facing result
// records. Entries without a loaded chunk are dropped.
func FormatSearchResults(ranked []Ranked, includeCode, includeSummary bool) []types.SearchResult {
	results := make([]types.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		chunk := r.Chunk
		if chunk == nil {
			continue
		}

		snippet := snippetFor(chunk, includeCode)
		result := types.SearchResult{
			ChunkID:    r.ChunkID,
			FilePath:   chunk.FilePath,
			StartLine:  chunk.StartLine,
			EndLine:    chunk.EndLine,
			Snippet:    snippet,
			SymbolName: chunk.SymbolName,
			SymbolType: chunk.SymbolType,
			Language:   chunk.Language,
			Score:      r.Score,
		}
		if includeSummary {
			result.Summary = chunk.Summary
		}
		results = append(results, result)
	}
	return results
}

func snippetFor(chunk *types.Chunk, includeCode bool) string {
	if includeCode {
		return chunk.Content
	}
	return chunk.Snippet()
}
