package augmenter

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing language model cannot be
// reached or augmentation is disabled. Callers are expected to degrade
// to the raw query rather than fail the search.
var ErrUnavailable = errors.New("augmenter unavailable")

// Augmenter rewrites queries before embedding to improve recall.
type Augmenter interface {
	// ExpandQuery returns the query rephrased with related terminology.
	// The original query text is always preserved in the result.
	ExpandQuery(ctx context.Context, query string) (string, error)

	// GenerateHypotheticalCode writes a small code sketch that would
	// answer the query. Embedding the sketch instead of the question
	// moves the query vector closer to real code.
	GenerateHypotheticalCode(ctx context.Context, query string) (string, error)
}

// Disabled is an Augmenter that always reports unavailability. It is the
// default when no model endpoint is configured.
type Disabled struct{}

// NewDisabled returns the no-op augmenter
func NewDisabled() Disabled {
	return Disabled{}
}

func (Disabled) ExpandQuery(ctx context.Context, query string) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) GenerateHypotheticalCode(ctx context.Context, query string) (string, error) {
	return "", ErrUnavailable
}
