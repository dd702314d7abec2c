package types

// Layer identifies which parallel index a vector belongs to. Code and
// summary vectors live in separate store instances; the layer tag on
// metadata makes cross-layer leakage detectable even if a caller wires
// the stores wrong.
type Layer string

const (
	LayerCode    Layer = "code"
	LayerSummary Layer = "summary"
	LayerFile    Layer = "file"
)

// VectorMetadata is the closed metadata record attached to every vector.
// Fields beyond Layer and FilePath are optional per layer.
type VectorMetadata struct {
	Layer      Layer
	FilePath   string
	StartLine  int
	EndLine    int
	SymbolName string
	Language   string
}

// SearchResult is the caller-facing shape of one ranked hit
type SearchResult struct {
	ChunkID   string
	FilePath  string
	StartLine int
	EndLine   int

	// Snippet is the raw content when code was requested, otherwise the
	// chunk summary or a content prefix.
	Snippet string

	SymbolName string
	SymbolType string
	Language   string

	// Optional fields, populated per format flags
	Summary string
	Score   float64
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.ChunkID == "" {
		return ErrInvalidChunkID
	}

	if sr.FilePath == "" {
		return ErrMissingFilePath
	}

	if sr.Score < 0 || sr.Score > 1 {
		return ErrInvalidScore
	}

	return nil
}
