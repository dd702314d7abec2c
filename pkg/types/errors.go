package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidChunkID  = errors.New("invalid chunk ID")
	ErrMissingFilePath = errors.New("file path is required")
	ErrInvalidScore    = errors.New("score must be between 0 and 1")
)
