package vectorstore

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/semsearch-dev/semsearch/pkg/types"
)

var (
	// ErrNotInitialized is returned for any operation before Initialize or Load
	ErrNotInitialized = errors.New("vector store not initialized")
	// ErrDimensionMismatch is returned when a vector length disagrees with the locked dimensionality
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrArityMismatch is returned when batch slice lengths disagree
	ErrArityMismatch = errors.New("batch arity mismatch")
)

// Hit is a single nearest-neighbor result
type Hit struct {
	SlotID     int64
	ChunkID    string
	Similarity float64
	Distance   float64
	Metadata   types.VectorMetadata
}

// Store is an in-memory nearest-neighbor index over embeddings. It owns
// the only mapping between vector slots and chunk identifiers: exactly
// one live vector per chunk ID at any time. Mutations hold an exclusive
// lock; searches may run concurrently with each other.
type Store struct {
	mu sync.RWMutex

	initialized bool
	dims        int
	maxElements int
	nextSlot    int64

	vectors     map[int64][]float32
	slotToChunk map[int64]string
	chunkToSlot map[string]int64
	metadata    map[int64]types.VectorMetadata
}

// New creates an uninitialized store. Initialize or Load must be called
// before any other operation.
func New() *Store {
	return &Store{}
}

// Initialize resets the store with the given dimensionality and capacity
// hint. The dimensionality may still be overridden by the first insert
// into the empty store; it is locked once the store holds a vector.
func (s *Store) Initialize(dimensions, maxCapacityHint int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.dims = dimensions
	s.maxElements = maxCapacityHint
	s.resetLocked()
}

// resetLocked drops all vectors and mappings. Caller must hold the lock.
func (s *Store) resetLocked() {
	s.nextSlot = 0
	s.vectors = make(map[int64][]float32)
	s.slotToChunk = make(map[int64]string)
	s.chunkToSlot = make(map[string]int64)
	s.metadata = make(map[int64]types.VectorMetadata)
}

// Size returns the number of live vectors
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Dimensions returns the current dimensionality
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dims
}

// Insert stores a vector for chunkID and returns its slot ID. If the
// chunk already has a vector, the old entry is deleted first so the
// store never holds two vectors for one chunk. Slot IDs are never
// reused.
func (s *Store) Insert(vector []float32, chunkID string, meta types.VectorMetadata) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(vector, chunkID, meta)
}

func (s *Store) insertLocked(vector []float32, chunkID string, meta types.VectorMetadata) (int64, error) {
	if !s.initialized {
		return 0, ErrNotInitialized
	}

	if len(vector) != s.dims {
		// Dimensionality is only negotiable while the store is empty.
		if len(s.vectors) > 0 {
			return 0, ErrDimensionMismatch
		}
		s.dims = len(vector)
	}

	if oldSlot, ok := s.chunkToSlot[chunkID]; ok {
		s.removeLocked(oldSlot)
	}

	slot := s.nextSlot
	s.nextSlot++

	stored := make([]float32, len(vector))
	copy(stored, vector)

	s.vectors[slot] = stored
	s.slotToChunk[slot] = chunkID
	s.chunkToSlot[chunkID] = slot
	s.metadata[slot] = meta

	return slot, nil
}

// InsertBatch inserts vectors element-wise. Slice length disagreement
// fails with ErrArityMismatch before any write.
func (s *Store) InsertBatch(vectors [][]float32, chunkIDs []string, metas []types.VectorMetadata) ([]int64, error) {
	if len(vectors) != len(chunkIDs) || len(vectors) != len(metas) {
		return nil, ErrArityMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]int64, 0, len(vectors))
	for i := range vectors {
		slot, err := s.insertLocked(vectors[i], chunkIDs[i], metas[i])
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// Search returns the k nearest vectors to query by cosine similarity,
// ranked descending. Distance is 1 - similarity. A store holding fewer
// than k vectors returns all of them; an empty store returns an empty
// slice without error. Ties break by ascending slot ID so results are
// deterministic.
func (s *Store) Search(query []float32, k int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}

	if len(s.vectors) == 0 {
		return []Hit{}, nil
	}

	if len(query) != s.dims {
		return nil, ErrDimensionMismatch
	}

	hits := make([]Hit, 0, len(s.vectors))
	for slot, vec := range s.vectors {
		sim := cosineSimilarity(query, vec)
		hits = append(hits, Hit{
			SlotID:     slot,
			ChunkID:    s.slotToChunk[slot],
			Similarity: sim,
			Distance:   1 - sim,
			Metadata:   s.metadata[slot],
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].SlotID < hits[j].SlotID
	})

	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Remove deletes the vector at slotID and its mappings. Removing an
// unknown slot is a no-op.
func (s *Store) Remove(slotID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.removeLocked(slotID)
	return nil
}

// RemoveBatch deletes multiple slots; unknown slots are skipped
func (s *Store) RemoveBatch(slotIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	for _, slot := range slotIDs {
		s.removeLocked(slot)
	}
	return nil
}

func (s *Store) removeLocked(slotID int64) {
	chunkID, ok := s.slotToChunk[slotID]
	if !ok {
		return
	}
	delete(s.vectors, slotID)
	delete(s.slotToChunk, slotID)
	delete(s.chunkToSlot, chunkID)
	delete(s.metadata, slotID)
}

// GetVector returns a copy of the vector at slotID
func (s *Store) GetVector(slotID int64) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vec, ok := s.vectors[slotID]
	if !ok {
		return nil, false
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true
}

// GetChunkID returns the chunk ID mapped to slotID
func (s *Store) GetChunkID(slotID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunkID, ok := s.slotToChunk[slotID]
	return chunkID, ok
}

// GetSlotID returns the slot ID mapped to chunkID
func (s *Store) GetSlotID(chunkID string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.chunkToSlot[chunkID]
	return slot, ok
}

// Clear drops all vectors and mappings and resets the slot counter
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.resetLocked()
	return nil
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
