package types

import "time"

// IndexState is the lifecycle state of the index. The core reads and
// updates this record; the indexing state machine itself is external.
type IndexState string

const (
	StateIdle     IndexState = "idle"
	StateIndexing IndexState = "indexing"
	StateReady    IndexState = "ready"
	StateError    IndexState = "error"
)

// IndexStatus is the singleton record describing the current index
type IndexStatus struct {
	ProjectPath    string
	ProjectHash    string
	EmbeddingModel string
	Dimensions     int
	State          IndexState
	FileCount      int
	ChunkCount     int
	VectorCount    int
	StorageBytes   int64
	LastIndexedAt  time.Time
}
