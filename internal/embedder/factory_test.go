package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvOllamaURL, "")
}

func TestDetectProviderExplicit(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(EnvProvider, "Ollama")

	assert.Equal(t, ProviderOllama, DetectProvider())
}

func TestDetectProviderFromAPIKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(EnvOpenAIAPIKey, "sk-test")

	assert.Equal(t, ProviderOpenAI, DetectProvider())
}

func TestDetectProviderFallsBackToLocal(t *testing.T) {
	clearProviderEnv(t)

	assert.Equal(t, ProviderLocal, DetectProvider())
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "quantum"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewLocal(t *testing.T) {
	emb, err := New(Config{Provider: ProviderLocal, CacheSize: 10})
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())
	assert.Equal(t, LocalDimension, emb.Dimension())
}

func TestNewFromEnvLocal(t *testing.T) {
	clearProviderEnv(t)

	emb, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())
}
