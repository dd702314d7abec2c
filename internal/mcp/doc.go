// Package mcp exposes the search engine over the Model Context Protocol.
//
// The server speaks MCP on stdio and registers three tools:
//
//   - semantic_search: run a natural language query against the index.
//     Arguments: query (required), limit, file_types, paths,
//     include_code, include_summary. Returns ranked results with a
//     latency breakdown and, for graph and summary queries, an
//     expanded_context block of structurally related chunks.
//
//   - get_status: report index state, statistics, and the embedding
//     configuration.
//
//   - clear_index: delete all vectors and metadata. Requires
//     confirm=true.
//
// Parameter validation follows JSON-RPC conventions: invalid or missing
// parameters map to -32602, empty queries to -32004, and internal
// failures to -32603.
package mcp
