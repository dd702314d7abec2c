// Package embedder generates dense vector embeddings for text.
//
// Three providers are available:
//
//   - ollama: a local Ollama server, the default for fully offline use
//     with a real model (nomic-embed-text, 768 dimensions)
//   - openai: the OpenAI embeddings API or any compatible endpoint
//     (text-embedding-3-small, 1536 dimensions)
//   - local: deterministic hash-derived vectors with no semantic signal,
//     used as a last-resort fallback and in tests
//
// All providers share an LRU cache keyed by the SHA-256 of the input
// text, and network providers retry transient failures with exponential
// backoff. Provider selection is explicit via Config or environment
// driven via NewFromEnv.
//
// Mixing providers against one index is not supported: the vector store
// locks its dimension on first insert, and a provider switch requires a
// full re-index.
package embedder
