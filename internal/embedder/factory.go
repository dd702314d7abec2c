package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables for embedder selection
const (
	EnvProvider   = "SEMSEARCH_EMBEDDING_PROVIDER"
	EnvOllamaURL  = "SEMSEARCH_OLLAMA_URL"
	EnvOpenAIBase = "SEMSEARCH_OPENAI_BASE_URL"
	EnvModel      = "SEMSEARCH_EMBEDDING_MODEL"
)

// Config holds embedder configuration
type Config struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string
	CacheSize int
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama:
		p := NewOllamaProvider(cfg.BaseURL, cfg.Model, cache)
		return p, nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cache)
	case ProviderLocal:
		return NewLocalProvider(cache), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// NewFromEnv creates an embedder based on environment variables.
// Selection order:
//  1. SEMSEARCH_EMBEDDING_PROVIDER (ollama, openai, local)
//  2. OPENAI_API_KEY present selects openai
//  3. SEMSEARCH_OLLAMA_URL present selects ollama
//  4. local fallback
func NewFromEnv() (Embedder, error) {
	cfg := Config{
		Provider:  DetectProvider(),
		APIKey:    os.Getenv(EnvOpenAIAPIKey),
		Model:     os.Getenv(EnvModel),
		CacheSize: 10000,
	}
	switch cfg.Provider {
	case ProviderOllama:
		cfg.BaseURL = os.Getenv(EnvOllamaURL)
	case ProviderOpenAI:
		cfg.BaseURL = os.Getenv(EnvOpenAIBase)
	}
	return New(cfg)
}

// DetectProvider returns the provider NewFromEnv would select
func DetectProvider() string {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	if os.Getenv(EnvOllamaURL) != "" {
		return ProviderOllama
	}
	return ProviderLocal
}
