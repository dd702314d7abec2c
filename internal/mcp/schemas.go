package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// semanticSearchTool returns the tool definition for semantic_search
func semanticSearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "semantic_search",
		Description: "Search the indexed codebase with a natural language query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"file_types": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to these file extensions (e.g. '.go', '.ts')",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"paths": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to files under these path prefixes",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"include_code": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, return full chunk content instead of snippets",
					"default":     false,
				},
				"include_summary": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include chunk summaries in results",
					"default":     true,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report index state, size, and embedding configuration",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// clearIndexTool returns the tool definition for clear_index
func clearIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "clear_index",
		Description: "Delete all indexed vectors and metadata",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"confirm": map[string]interface{}{
					"type":        "boolean",
					"description": "Must be true; guards against accidental deletion",
				},
			},
			Required: []string{"confirm"},
		},
	}
}
