package embedder

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache(10)
	cache.Set("h1", []float32{1, 2, 3})

	vec, ok := cache.Get("h1")
	require.True(t, ok)
	vec[0] = 99

	again, ok := cache.Get("h1")
	require.True(t, ok)
	assert.Equal(t, float32(1), again[0])
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", []float32{1})
	cache.Set("b", []float32{2})
	cache.Set("c", []float32{3})

	assert.Equal(t, 2, cache.Size())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestLocalProviderDeterministic(t *testing.T) {
	provider := NewLocalProvider(nil)
	ctx := context.Background()

	v1, err := provider.Embed(ctx, "func main() {}")
	require.NoError(t, err)
	v2, err := provider.Embed(ctx, "func main() {}")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)

	v3, err := provider.Embed(ctx, "type Server struct {}")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v3)
}

func TestLocalProviderUnitLength(t *testing.T) {
	provider := NewLocalProvider(nil)

	vec, err := provider.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	require.Len(t, vec, LocalDimension)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestLocalProviderEmptyText(t *testing.T) {
	provider := NewLocalProvider(nil)

	_, err := provider.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = provider.EmbedBatch(context.Background(), []string{"ok", ""})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestLocalProviderBatch(t *testing.T) {
	provider := NewLocalProvider(NewCache(100))

	vectors, err := provider.EmbedBatch(context.Background(), []string{"a", "b", "a"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, vectors[0], vectors[2])
	assert.NotEqual(t, vectors[0], vectors[1])
}

func TestOllamaProviderBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultOllamaModel, req.Model)

		embeddings := make([][]float32, len(req.Input))
		for i := range req.Input {
			embeddings[i] = []float32{float32(i), 1}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": embeddings})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "", nil)
	defer func() { _ = provider.Close() }()

	vectors, err := provider.EmbedBatch(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0, 1}, vectors[0])
	assert.Equal(t, []float32{1, 1}, vectors[1])
}

func TestOllamaProviderUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float32{{1, 2, 3}},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "", NewCache(10))
	defer func() { _ = provider.Close() }()
	ctx := context.Background()

	_, err := provider.Embed(ctx, "cached text")
	require.NoError(t, err)
	_, err = provider.Embed(ctx, "cached text")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestOpenAIProviderReordersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{2}, "index": 1},
				{"embedding": []float32{1}, "index": 0},
			},
		})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider("test-key", server.URL, nil)
	require.NoError(t, err)
	defer func() { _ = provider.Close() }()

	vectors, err := provider.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vectors[0])
	assert.Equal(t, []float32{2}, vectors[1])
}

func TestOpenAIProviderRequiresKey(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "")

	_, err := NewOpenAIProvider("", "", nil)
	assert.ErrorIs(t, err, ErrNoProviderEnabled)
}

func TestBatchTooLarge(t *testing.T) {
	provider := NewOllamaProvider("http://localhost:0", "", nil)

	texts := make([]string, MaxBatchSize+1)
	for i := range texts {
		texts[i] = "x"
	}
	_, err := provider.EmbedBatch(context.Background(), texts)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestRetryWithBackoffEventualSuccess(t *testing.T) {
	attempts := 0
	config := RetryConfig{MaxRetries: 3, BaseDelay: 1, MaxDelay: 10, Multiplier: 2}

	result, err := retryWithBackoff(context.Background(), config, func() (int, error) {
		attempts++
		if attempts < 3 {
			return 0, assert.AnError
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffExhausted(t *testing.T) {
	config := RetryConfig{MaxRetries: 2, BaseDelay: 1, MaxDelay: 10, Multiplier: 2}

	_, err := retryWithBackoff(context.Background(), config, func() (int, error) {
		return 0, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := DefaultRetryConfig()

	attempts := 0
	_, err := retryWithBackoff(ctx, config, func() (int, error) {
		attempts++
		cancel()
		return 0, assert.AnError
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
