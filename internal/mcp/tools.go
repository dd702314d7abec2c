package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/semsearch-dev/semsearch/internal/engine"
	"github.com/semsearch-dev/semsearch/internal/metastore"
	"github.com/semsearch-dev/semsearch/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32004 // Query parameter is empty
	ErrorCodeNotConfirmed  = -32005 // Destructive operation not confirmed
)

// handleSemanticSearch handles the semantic_search tool invocation
func (s *Server) handleSemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	req := engine.Request{
		Query:          query,
		Limit:          limit,
		FileTypes:      getStringSlice(args, "file_types"),
		Paths:          getStringSlice(args, "paths"),
		IncludeCode:    getBoolDefault(args, "include_code", false),
		IncludeSummary: getBoolDefault(args, "include_summary", true),
	}

	resp, err := s.engine.Query(ctx, req)
	if errors.Is(err, engine.ErrEmptyQuery) {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query cannot be empty", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"strategy":  resp.Strategy,
		"cache_hit": resp.CacheHit,
		"results":   formatResults(resp.Results),
		"latency_ms": map[string]interface{}{
			"planning":     resp.Latency.PlanningMs,
			"augmentation": resp.Latency.AugmentationMs,
			"search":       resp.Latency.SearchMs,
			"total":        resp.Latency.TotalMs,
		},
	}
	if len(resp.Expanded) > 0 {
		response["expanded_context"] = formatResults(resp.Expanded)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.engine.Status(ctx)
	if errors.Is(err, metastore.ErrNotFound) {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"indexed": false,
			"message": "No index present. Index the project before searching.",
		})), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":         status.State == types.StateReady,
		"state":           string(status.State),
		"project_path":    status.ProjectPath,
		"embedding_model": status.EmbeddingModel,
		"dimensions":      status.Dimensions,
		"statistics": map[string]interface{}{
			"file_count":    status.FileCount,
			"chunk_count":   status.ChunkCount,
			"vector_count":  status.VectorCount,
			"storage_bytes": status.StorageBytes,
		},
	}
	if !status.LastIndexedAt.IsZero() {
		response["last_indexed_at"] = status.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleClearIndex handles the clear_index tool invocation
func (s *Server) handleClearIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	if confirmed, _ := args["confirm"].(bool); !confirmed {
		return nil, newMCPError(ErrorCodeNotConfirmed, "clear_index requires confirm=true", map[string]interface{}{
			"param": "confirm",
		})
	}

	if err := s.engine.ClearIndex(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to clear index", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"cleared": true,
	})), nil
}

// formatResults converts search results to the wire representation
func formatResults(results []types.SearchResult) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		entry := map[string]interface{}{
			"file_path":  r.FilePath,
			"start_line": r.StartLine,
			"end_line":   r.EndLine,
			"snippet":    r.Snippet,
			"score":      r.Score,
		}
		if r.ChunkID != "" {
			entry["chunk_id"] = r.ChunkID
		}
		if r.SymbolName != "" {
			entry["symbol_name"] = r.SymbolName
			entry["symbol_type"] = r.SymbolType
		}
		if r.Language != "" {
			entry["language"] = r.Language
		}
		if r.Summary != "" {
			entry["summary"] = r.Summary
		}
		out = append(out, entry)
	}
	return out
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
