package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/semsearch-dev/semsearch/internal/engine"
	"github.com/semsearch-dev/semsearch/internal/mcp"
	"github.com/semsearch-dev/semsearch/internal/metastore"
	"github.com/semsearch-dev/semsearch/internal/planner"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("semsearch MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", metastore.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", metastore.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	log.Printf("semsearch MCP Server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", metastore.BuildMode, metastore.DriverName)

	dataDir := os.Getenv("SEMSEARCH_DATA_DIR")
	if dataDir == "" {
		dataDir = mcp.DefaultDataDir
	}

	cfg := engine.Config{
		Planner: planner.Config{
			ExpandQueries: envBool("SEMSEARCH_EXPAND_QUERIES"),
			HyDE:          envBool("SEMSEARCH_HYDE"),
			MultiVector:   envBool("SEMSEARCH_MULTI_VECTOR"),
		},
		CacheTTL: envDuration("SEMSEARCH_CACHE_TTL", time.Hour),
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	server, err := mcp.NewServer(dataDir, cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server stopped")
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}
