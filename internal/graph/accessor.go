package graph

import (
	"context"
	"sort"

	"github.com/semsearch-dev/semsearch/internal/metastore"
	"github.com/semsearch-dev/semsearch/pkg/types"
)

// MaxDepth bounds importer traversal. Depth 2 covers direct importers and
// their importers, which is as far as expanded context stays relevant.
const MaxDepth = 2

// Accessor answers structural questions over the dependency edges recorded
// in the metadata store. It holds no state of its own.
type Accessor struct {
	meta metastore.Store
}

// NewAccessor creates a graph accessor backed by the given metadata store
func NewAccessor(meta metastore.Store) *Accessor {
	return &Accessor{meta: meta}
}

// Importers returns the files that depend on filePath, walking the
// dependents edges breadth-first up to depth levels. Depth is clamped to
// MaxDepth. The result excludes filePath itself and is sorted by path.
func (a *Accessor) Importers(ctx context.Context, filePath string, depth int) ([]string, error) {
	if depth <= 0 || depth > MaxDepth {
		depth = MaxDepth
	}

	visited := map[string]bool{filePath: true}
	frontier := []string{filePath}

	for level := 0; level < depth && len(frontier) > 0; level++ {
		next := make([]string, 0)
		for _, path := range frontier {
			deps, err := a.meta.DependentsOf(ctx, path)
			if err != nil {
				return nil, err
			}
			for _, dep := range deps {
				if visited[dep.FromPath] {
					continue
				}
				visited[dep.FromPath] = true
				next = append(next, dep.FromPath)
			}
		}
		frontier = next
	}

	importers := make([]string, 0, len(visited)-1)
	for path := range visited {
		if path != filePath {
			importers = append(importers, path)
		}
	}
	sort.Strings(importers)
	return importers, nil
}

// Dependencies returns the internal files filePath imports directly.
// External imports are not files in the index and are skipped.
func (a *Accessor) Dependencies(ctx context.Context, filePath string) ([]string, error) {
	deps, err := a.meta.DependenciesOf(ctx, filePath)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(deps))
	for _, dep := range deps {
		if dep.IsExternal {
			continue
		}
		paths = append(paths, dep.ToPath)
	}
	sort.Strings(paths)
	return paths, nil
}

// RelatedFiles returns the union of filePath's direct dependencies,
// direct importers, and files connected through relationship edges,
// deduplicated and sorted by path.
func (a *Accessor) RelatedFiles(ctx context.Context, filePath string) ([]string, error) {
	related := make(map[string]bool)

	deps, err := a.Dependencies(ctx, filePath)
	if err != nil {
		return nil, err
	}
	for _, path := range deps {
		related[path] = true
	}

	importers, err := a.Importers(ctx, filePath, 1)
	if err != nil {
		return nil, err
	}
	for _, path := range importers {
		related[path] = true
	}

	linked, err := a.linkedFiles(ctx, filePath)
	if err != nil {
		return nil, err
	}
	for _, path := range linked {
		related[path] = true
	}
	delete(related, filePath)

	paths := make([]string, 0, len(related))
	for path := range related {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// linkedFiles returns files connected to filePath through relationship
// edges in either direction. Edges whose opposite endpoint is a symbol
// or module do not name an indexed file and are skipped.
func (a *Accessor) linkedFiles(ctx context.Context, filePath string) ([]string, error) {
	ref := types.EntityRef{Kind: types.EntityFile, ID: filePath}

	outgoing, err := a.meta.RelationsFrom(ctx, ref)
	if err != nil {
		return nil, err
	}
	incoming, err := a.meta.RelationsTo(ctx, ref)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(outgoing)+len(incoming))
	for _, rel := range outgoing {
		if rel.To.Kind == types.EntityFile {
			paths = append(paths, rel.To.ID)
		}
	}
	for _, rel := range incoming {
		if rel.From.Kind == types.EntityFile {
			paths = append(paths, rel.From.ID)
		}
	}
	return paths, nil
}

// ExpandContext collects chunks from files related to the seed paths:
// importers up to MaxDepth levels above each seed plus the seed's
// related files. Chunks already listed in excludeChunkIDs are dropped,
// at most limit chunks are taken per file, the expansion is ordered by
// file path then start line for determinism, and the result is capped
// at twice the requested limit.
func (a *Accessor) ExpandContext(ctx context.Context, seedPaths []string, excludeChunkIDs []string, limit int) ([]*types.Chunk, error) {
	if limit <= 0 {
		return []*types.Chunk{}, nil
	}
	maxExpansion := 2 * limit

	exclude := make(map[string]bool, len(excludeChunkIDs))
	for _, id := range excludeChunkIDs {
		exclude[id] = true
	}

	// Gather the candidate files across all seeds.
	candidates := make(map[string]bool)
	seeds := make(map[string]bool, len(seedPaths))
	for _, seed := range seedPaths {
		seeds[seed] = true
	}
	for _, seed := range seedPaths {
		related, err := a.RelatedFiles(ctx, seed)
		if err != nil {
			return nil, err
		}
		importers, err := a.Importers(ctx, seed, MaxDepth)
		if err != nil {
			return nil, err
		}
		for _, path := range append(related, importers...) {
			if !seeds[path] {
				candidates[path] = true
			}
		}
	}

	paths := make([]string, 0, len(candidates))
	for path := range candidates {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	expansion := make([]*types.Chunk, 0, maxExpansion)
	for _, path := range paths {
		if len(expansion) >= maxExpansion {
			break
		}
		chunks, err := a.meta.ChunksByFile(ctx, path)
		if err != nil {
			return nil, err
		}
		taken := 0
		for _, chunk := range chunks {
			if exclude[chunk.ID] {
				continue
			}
			expansion = append(expansion, chunk)
			taken++
			if taken >= limit || len(expansion) >= maxExpansion {
				break
			}
		}
	}
	return expansion, nil
}
