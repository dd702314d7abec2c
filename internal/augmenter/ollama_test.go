package augmenter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaStub(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.NotEmpty(t, req.Prompt)

		_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
	}))
}

func TestExpandQueryKeepsOriginal(t *testing.T) {
	server := ollamaStub(t, "jwt token verification middleware")
	defer server.Close()

	aug := NewOllamaAugmenter(server.URL, "")
	expanded, err := aug.ExpandQuery(context.Background(), "auth check")
	require.NoError(t, err)

	// The model response dropped the original wording, so it is prepended.
	assert.Contains(t, expanded, "auth check")
	assert.Contains(t, expanded, "jwt token verification")
}

func TestExpandQueryNoDuplication(t *testing.T) {
	server := ollamaStub(t, "auth check jwt middleware session")
	defer server.Close()

	aug := NewOllamaAugmenter(server.URL, "")
	expanded, err := aug.ExpandQuery(context.Background(), "auth check")
	require.NoError(t, err)
	assert.Equal(t, "auth check jwt middleware session", expanded)
}

func TestGenerateHypotheticalCode(t *testing.T) {
	server := ollamaStub(t, "func VerifyToken(tok string) error { return nil }")
	defer server.Close()

	aug := NewOllamaAugmenter(server.URL, "codellama")
	code, err := aug.GenerateHypotheticalCode(context.Background(), "how are tokens verified")
	require.NoError(t, err)
	assert.Contains(t, code, "VerifyToken")
}

func TestServerErrorMapsToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	aug := NewOllamaAugmenter(server.URL, "")
	_, err := aug.ExpandQuery(context.Background(), "query")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmptyResponseIsUnavailable(t *testing.T) {
	server := ollamaStub(t, "   ")
	defer server.Close()

	aug := NewOllamaAugmenter(server.URL, "")
	_, err := aug.ExpandQuery(context.Background(), "query")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	aug := NewOllamaAugmenter("http://127.0.0.1:1", "")

	_, err := aug.ExpandQuery(context.Background(), "query")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDisabledAlwaysUnavailable(t *testing.T) {
	aug := NewDisabled()

	_, err := aug.ExpandQuery(context.Background(), "query")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = aug.GenerateHypotheticalCode(context.Background(), "query")
	assert.ErrorIs(t, err, ErrUnavailable)
}
