package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/semsearch-dev/semsearch/pkg/types"
)

const (
	codeIndexFile    = "code.idx"
	summaryIndexFile = "summary.idx"
)

// IndexChunks adds chunks to the index: metadata rows plus a code-layer
// vector per chunk and a summary-layer vector for chunks that carry a
// summary. Existing chunk IDs are replaced in place. The query cache is
// purged on success.
func (e *Engine) IndexChunks(ctx context.Context, chunks []*types.Chunk) error {
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}
	}

	for _, chunk := range chunks {
		if err := e.meta.UpsertChunk(ctx, chunk); err != nil {
			return err
		}

		vec, err := e.emb.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("embedding chunk %s: %w", chunk.ID, err)
		}
		meta := types.VectorMetadata{
			Layer:      types.LayerCode,
			FilePath:   chunk.FilePath,
			StartLine:  chunk.StartLine,
			EndLine:    chunk.EndLine,
			SymbolName: chunk.SymbolName,
			Language:   chunk.Language,
		}
		if _, err := e.codeStore.Insert(vec, chunk.ID, meta); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}

		if chunk.Summary != "" {
			sumVec, err := e.emb.Embed(ctx, chunk.Summary)
			if err != nil {
				return fmt.Errorf("embedding summary of %s: %w", chunk.ID, err)
			}
			sumMeta := meta
			sumMeta.Layer = types.LayerSummary
			if _, err := e.summaryStore.Insert(sumVec, chunk.ID, sumMeta); err != nil {
				return fmt.Errorf("inserting summary of %s: %w", chunk.ID, err)
			}
		}
	}

	e.cache.purge()
	return e.refreshStatus(ctx, types.StateReady)
}

// RemoveFile drops a file from the index: its chunks, symbols, summary,
// dependency edges, and vectors in both stores. Leftover edges would
// keep feeding context expansion after the file is gone.
func (e *Engine) RemoveFile(ctx context.Context, filePath string) error {
	chunks, err := e.meta.ChunksByFile(ctx, filePath)
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		if slot, ok := e.codeStore.GetSlotID(chunk.ID); ok {
			_ = e.codeStore.Remove(slot)
		}
		if slot, ok := e.summaryStore.GetSlotID(chunk.ID); ok {
			_ = e.summaryStore.Remove(slot)
		}
	}
	if err := e.meta.DeleteChunksByFile(ctx, filePath); err != nil {
		return err
	}
	if err := e.meta.DeleteSymbolsByFile(ctx, filePath); err != nil {
		return err
	}
	if err := e.meta.DeleteFileSummary(ctx, filePath); err != nil {
		return err
	}
	if err := e.meta.DeleteFileDependencies(ctx, filePath); err != nil {
		return err
	}

	e.cache.purge()
	return e.refreshStatus(ctx, types.StateReady)
}

// Save writes both vector indexes under the configured data directory
// and records storage usage in the index status.
func (e *Engine) Save(ctx context.Context) error {
	if e.cfg.DataDir == "" {
		return errors.New("no data directory configured")
	}
	if err := os.MkdirAll(e.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	codePath := filepath.Join(e.cfg.DataDir, codeIndexFile)
	summaryPath := filepath.Join(e.cfg.DataDir, summaryIndexFile)
	if err := e.codeStore.Save(codePath); err != nil {
		return fmt.Errorf("saving code index: %w", err)
	}
	if err := e.summaryStore.Save(summaryPath); err != nil {
		return fmt.Errorf("saving summary index: %w", err)
	}

	return e.refreshStatus(ctx, types.StateReady)
}

// Load restores both vector indexes from the data directory. Missing
// index files are not an error; the corresponding store stays empty.
func (e *Engine) Load(ctx context.Context) error {
	if e.cfg.DataDir == "" {
		return errors.New("no data directory configured")
	}

	codePath := filepath.Join(e.cfg.DataDir, codeIndexFile)
	if err := e.codeStore.Load(codePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading code index: %w", err)
	}
	summaryPath := filepath.Join(e.cfg.DataDir, summaryIndexFile)
	if err := e.summaryStore.Load(summaryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading summary index: %w", err)
	}

	e.cache.purge()
	return nil
}

// ClearIndex empties both vector stores and every metadata table
func (e *Engine) ClearIndex(ctx context.Context) error {
	if err := e.codeStore.Clear(); err != nil {
		return err
	}
	if err := e.summaryStore.Clear(); err != nil {
		return err
	}
	if err := e.meta.ClearAll(ctx); err != nil {
		return err
	}
	e.cache.purge()
	e.logger.Info("index cleared")
	return nil
}

// Status reports the current index status
func (e *Engine) Status(ctx context.Context) (*types.IndexStatus, error) {
	return e.meta.GetIndexStatus(ctx)
}

// refreshStatus updates the live counters on the status row
func (e *Engine) refreshStatus(ctx context.Context, state types.IndexState) error {
	status, err := e.meta.GetIndexStatus(ctx)
	if err != nil {
		return err
	}
	fileCount, err := e.meta.CountFiles(ctx)
	if err != nil {
		return err
	}
	status.State = state
	status.EmbeddingModel = e.emb.Model()
	status.Dimensions = e.codeStore.Dimensions()
	status.FileCount = fileCount
	status.VectorCount = e.codeStore.Size() + e.summaryStore.Size()
	status.ChunkCount = e.codeStore.Size()
	status.StorageBytes = e.storageBytes()
	status.LastIndexedAt = time.Now()
	return e.meta.UpdateIndexStatus(ctx, status)
}

func (e *Engine) storageBytes() int64 {
	if e.cfg.DataDir == "" {
		return 0
	}
	var total int64
	for _, name := range []string{codeIndexFile, summaryIndexFile} {
		if info, err := os.Stat(filepath.Join(e.cfg.DataDir, name)); err == nil {
			total += info.Size()
		}
	}
	return total
}
