package engine

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry is a cached response with its creation time
type cacheEntry struct {
	response *Response
	storedAt time.Time
}

// queryCache is an LRU cache of responses keyed by request hash.
// Entries expire by TTL on read; mutations of the index purge it.
type queryCache struct {
	mu    sync.RWMutex
	cache *lru.Cache[[32]byte, *cacheEntry]
}

func newQueryCache(size int) *queryCache {
	if size <= 0 {
		size = 1000
	}
	cache, err := lru.New[[32]byte, *cacheEntry](size)
	if err != nil {
		cache, _ = lru.New[[32]byte, *cacheEntry](1000)
	}
	return &queryCache{cache: cache}
}

func (c *queryCache) get(hash [32]byte, ttl time.Duration) *Response {
	c.mu.RLock()
	entry, found := c.cache.Get(hash)
	if !found {
		c.mu.RUnlock()
		return nil
	}
	if time.Since(entry.storedAt) > ttl {
		c.mu.RUnlock()
		c.mu.Lock()
		c.cache.Remove(hash)
		c.mu.Unlock()
		return nil
	}
	resp := copyResponse(entry.response)
	c.mu.RUnlock()
	return resp
}

func (c *queryCache) put(hash [32]byte, resp *Response) {
	entry := &cacheEntry{
		response: copyResponse(resp),
		storedAt: time.Now(),
	}
	c.mu.Lock()
	c.cache.Add(hash, entry)
	c.mu.Unlock()
}

func (c *queryCache) purge() {
	c.mu.Lock()
	c.cache.Purge()
	c.mu.Unlock()
}

// requestHash derives the cache key from every request field that
// affects the response.
func requestHash(req Request) [32]byte {
	var b strings.Builder
	b.WriteString(req.Query)
	fmt.Fprintf(&b, "|%d|%t|%t", req.Limit, req.IncludeCode, req.IncludeSummary)
	for _, ft := range req.FileTypes {
		b.WriteString("|ft:")
		b.WriteString(ft)
	}
	for _, p := range req.Paths {
		b.WriteString("|p:")
		b.WriteString(p)
	}
	return sha256.Sum256([]byte(b.String()))
}

// copyResponse deep copies a response so cached values cannot be
// mutated by callers.
func copyResponse(src *Response) *Response {
	if src == nil {
		return nil
	}
	dst := &Response{
		Strategy: src.Strategy,
		CacheHit: src.CacheHit,
		Latency:  src.Latency,
	}
	dst.Results = append(dst.Results, src.Results...)
	dst.Expanded = append(dst.Expanded, src.Expanded...)
	return dst
}
