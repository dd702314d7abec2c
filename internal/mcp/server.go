package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/semsearch-dev/semsearch/internal/augmenter"
	"github.com/semsearch-dev/semsearch/internal/embedder"
	"github.com/semsearch-dev/semsearch/internal/engine"
	"github.com/semsearch-dev/semsearch/internal/metastore"
)

const (
	// ServerName is the MCP server name
	ServerName = "semsearch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDataDir is the default location for index data
	DefaultDataDir = "~/.semsearch"
)

// Server wraps the MCP server with the search engine
type Server struct {
	mcp    *server.MCPServer
	engine *engine.Engine
	meta   metastore.Store
}

// NewServer creates an MCP server over an engine built from the given
// data directory and environment-selected providers.
func NewServer(dataDir string, cfg engine.Config) (*Server, error) {
	if dataDir == "" || dataDir == DefaultDataDir {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".semsearch")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	meta, err := metastore.NewSQLiteStore(filepath.Join(dataDir, "semsearch.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metadata store: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = meta.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	var aug augmenter.Augmenter = augmenter.NewDisabled()
	if url := os.Getenv("SEMSEARCH_AUGMENTER_URL"); url != "" {
		aug = augmenter.NewOllamaAugmenter(url, os.Getenv("SEMSEARCH_AUGMENTER_MODEL"))
	}

	cfg.DataDir = dataDir
	eng := engine.New(meta, emb, aug, cfg)
	if err := eng.Load(context.Background()); err != nil {
		_ = meta.Close()
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	return NewServerWithEngine(eng, meta), nil
}

// NewServerWithEngine wires the MCP layer around an existing engine
func NewServerWithEngine(eng *engine.Engine, meta metastore.Store) *Server {
	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion),
		engine: eng,
		meta:   meta,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		if s.meta != nil {
			_ = s.meta.Close()
		}
	}()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(semanticSearchTool(), s.handleSemanticSearch)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	s.mcp.AddTool(clearIndexTool(), s.handleClearIndex)
}
