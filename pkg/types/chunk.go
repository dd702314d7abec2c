package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
	"unicode/utf8"
)

// Chunk represents a contiguous span of source text selected for indexing.
// Chunks are produced by the external chunking pipeline; the core only
// requires that IDs are stable across re-runs for unchanged content.
type Chunk struct {
	// Identification
	ID       string
	FilePath string

	// Location
	StartLine int
	EndLine   int

	// Content
	Content     string
	ContentHash string // SHA-256 hex for change detection and dedup
	TokenCount  int

	// Symbol association (optional)
	SymbolName string
	SymbolType string

	// Metadata
	Language string
	Imports  []string

	// Generated text (optional, supplied by the summarization pipeline)
	Signature string
	Summary   string
	Purpose   string

	CreatedAt time.Time
}

// ComputeContentHash computes the SHA-256 hash of the chunk content
func (c *Chunk) ComputeContentHash() {
	h := sha256.Sum256([]byte(c.Content))
	c.ContentHash = hex.EncodeToString(h[:])
}

// ComputeTokenCount estimates the number of tokens in the chunk
// using the characters/4 heuristic.
func (c *Chunk) ComputeTokenCount() int {
	c.TokenCount = len(c.Content) / 4
	return c.TokenCount
}

// Validate performs comprehensive validation of the chunk
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return errors.New("chunk ID is required")
	}

	if c.FilePath == "" {
		return errors.New("chunk file path is required")
	}

	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}

	if c.StartLine <= 0 || c.EndLine <= 0 {
		return errors.New("line numbers must be positive")
	}

	if c.StartLine > c.EndLine {
		return errors.New("start line must be before or equal to end line")
	}

	if c.ContentHash == "" {
		return errors.New("content hash must be computed")
	}

	return nil
}

// Snippet returns the chunk summary if present, otherwise a prefix of
// the content no longer than 200 bytes, cut on a rune boundary.
func (c *Chunk) Snippet() string {
	if c.Summary != "" {
		return c.Summary
	}
	return truncateContent(c.Content, 200)
}

// truncateContent cuts s to at most n bytes without splitting a rune
func truncateContent(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
