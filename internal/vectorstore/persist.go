package vectorstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/semsearch-dev/semsearch/pkg/types"
)

// mappingPair serializes as a two-element [slotId, chunkId] array to
// keep the on-disk mapping table compact.
type mappingPair struct {
	SlotID  int64
	ChunkID string
}

func (p mappingPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.SlotID, p.ChunkID})
}

func (p *mappingPair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.SlotID); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.ChunkID)
}

// mappingFile is the persisted sidecar holding everything except the
// raw vector data.
type mappingFile struct {
	Dimensions  int                             `json:"dimensions"`
	MaxElements int                             `json:"maxElements"`
	NextSlotID  int64                           `json:"nextSlotId"`
	Size        int                             `json:"size"`
	Mappings    []mappingPair                   `json:"mappings"`
	Metadata    map[string]types.VectorMetadata `json:"metadata"`
}

// mappingPath returns the sidecar path for an index file
func mappingPath(path string) string {
	return path + ".map.json"
}

// Save persists the index to path and the slot/chunk mapping table to
// path + ".map.json". Slot IDs remain stable across a Save/Load cycle.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return ErrNotInitialized
	}

	slots := make([]int64, 0, len(s.vectors))
	for slot := range s.vectors {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	// Index file: per slot, an 8-byte little-endian slot ID followed by
	// dims little-endian float32 values.
	blob := make([]byte, 0, len(slots)*(8+s.dims*4))
	var scratch [8]byte
	for _, slot := range slots {
		binary.LittleEndian.PutUint64(scratch[:], uint64(slot))
		blob = append(blob, scratch[:]...)
		blob = append(blob, serializeVector(s.vectors[slot])...)
	}

	if err := os.WriteFile(path, blob, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	mapping := mappingFile{
		Dimensions:  s.dims,
		MaxElements: s.maxElements,
		NextSlotID:  s.nextSlot,
		Size:        len(s.vectors),
		Mappings:    make([]mappingPair, 0, len(slots)),
		Metadata:    make(map[string]types.VectorMetadata, len(slots)),
	}
	for _, slot := range slots {
		mapping.Mappings = append(mapping.Mappings, mappingPair{SlotID: slot, ChunkID: s.slotToChunk[slot]})
		mapping.Metadata[strconv.FormatInt(slot, 10)] = s.metadata[slot]
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to encode mapping file: %w", err)
	}
	if err := os.WriteFile(mappingPath(path), data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file: %w", err)
	}

	return nil
}

// Load restores a previously saved index, replacing any current state.
// The store is initialized after a successful load.
func (s *Store) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapData, err := os.ReadFile(mappingPath(path))
	if err != nil {
		return fmt.Errorf("failed to read mapping file: %w", err)
	}

	var mapping mappingFile
	if err := json.Unmarshal(mapData, &mapping); err != nil {
		return fmt.Errorf("failed to decode mapping file: %w", err)
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read index file: %w", err)
	}

	recordSize := 8 + mapping.Dimensions*4
	if recordSize > 8 && len(blob)%recordSize != 0 {
		return fmt.Errorf("index file corrupt: %d bytes is not a multiple of record size %d", len(blob), recordSize)
	}

	vectors := make(map[int64][]float32, mapping.Size)
	if mapping.Dimensions > 0 {
		for off := 0; off+recordSize <= len(blob); off += recordSize {
			slot := int64(binary.LittleEndian.Uint64(blob[off:]))
			vectors[slot] = deserializeVector(blob[off+8 : off+recordSize])
		}
	}

	if len(vectors) != mapping.Size {
		return fmt.Errorf("index file corrupt: %d vectors on disk, mapping records %d", len(vectors), mapping.Size)
	}

	slotToChunk := make(map[int64]string, mapping.Size)
	chunkToSlot := make(map[string]int64, mapping.Size)
	metadata := make(map[int64]types.VectorMetadata, mapping.Size)
	for _, pair := range mapping.Mappings {
		if _, ok := vectors[pair.SlotID]; !ok {
			return fmt.Errorf("mapping file corrupt: slot %d has no vector", pair.SlotID)
		}
		slotToChunk[pair.SlotID] = pair.ChunkID
		chunkToSlot[pair.ChunkID] = pair.SlotID
		metadata[pair.SlotID] = mapping.Metadata[strconv.FormatInt(pair.SlotID, 10)]
	}

	s.initialized = true
	s.dims = mapping.Dimensions
	s.maxElements = mapping.MaxElements
	s.nextSlot = mapping.NextSlotID
	s.vectors = vectors
	s.slotToChunk = slotToChunk
	s.chunkToSlot = chunkToSlot
	s.metadata = metadata

	return nil
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}
