package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	ProviderLocal = "local"

	LocalDimension = 384
)

// LocalProvider produces deterministic pseudo-embeddings derived from the
// text hash. It needs no network and is used as the offline fallback and
// in tests. Identical text always maps to the identical unit vector, so
// exact-duplicate chunks still cluster; it carries no semantic signal.
type LocalProvider struct {
	model string
	cache *Cache
}

// NewLocalProvider creates a local hash-based embedder
func NewLocalProvider(cache *Cache) *LocalProvider {
	return &LocalProvider{
		model: "local-hash-v1",
		cache: cache,
	}
}

func (l *LocalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := ComputeHash(text)
	if l.cache != nil {
		if vec, ok := l.cache.Get(hash); ok {
			return vec, nil
		}
	}

	vec := hashVector(text, LocalDimension)
	if l.cache != nil {
		l.cache.Set(hash, vec)
	}
	return vec, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// hashVector expands the text into dims components by chaining SHA-256
// over the previous block, then normalizes to unit length.
func hashVector(text string, dims int) []float32 {
	vec := make([]float32, dims)
	block := sha256.Sum256([]byte(text))
	i := 0
	counter := uint64(0)
	for i < dims {
		for off := 0; off+4 <= len(block) && i < dims; off += 4 {
			bits := binary.LittleEndian.Uint32(block[off : off+4])
			// Map to [-1, 1)
			vec[i] = float32(int32(bits)) / float32(math.MaxInt32)
			i++
		}
		counter++
		next := make([]byte, len(block)+8)
		copy(next, block[:])
		binary.LittleEndian.PutUint64(next[len(block):], counter)
		block = sha256.Sum256(next)
	}
	return normalize(vec)
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Close() error {
	return nil
}
