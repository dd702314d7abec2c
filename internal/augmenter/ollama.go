package augmenter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "qwen2.5-coder:3b"

	requestTimeout = 20 * time.Second
)

const expandPrompt = `Rewrite the following code search query by adding related
programming terminology, synonyms, and likely identifier names. Keep the
original wording. Reply with the rewritten query only, no explanation.

Query: %s`

const hydePrompt = `Write a short code snippet (10-20 lines, any mainstream
language) that would be a plausible answer to the following question about a
codebase. Reply with code only, no explanation, no markdown fences.

Question: %s`

// OllamaAugmenter uses a local Ollama model for query rewriting
type OllamaAugmenter struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaAugmenter creates an augmenter backed by an Ollama server.
// Empty baseURL and model fall back to the defaults.
func NewOllamaAugmenter(baseURL, model string) *OllamaAugmenter {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaAugmenter{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (a *OllamaAugmenter) ExpandQuery(ctx context.Context, query string) (string, error) {
	expanded, err := a.generate(ctx, fmt.Sprintf(expandPrompt, query))
	if err != nil {
		return "", err
	}
	// Guard against models that drop the original wording.
	if !strings.Contains(strings.ToLower(expanded), strings.ToLower(query)) {
		expanded = query + " " + expanded
	}
	return expanded, nil
}

func (a *OllamaAugmenter) GenerateHypotheticalCode(ctx context.Context, query string) (string, error) {
	return a.generate(ctx, fmt.Sprintf(hydePrompt, query))
}

func (a *OllamaAugmenter) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":  a.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.2,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := strings.TrimSpace(apiResp.Response)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return text, nil
}
