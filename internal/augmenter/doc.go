// Package augmenter rewrites search queries with a local language model
// before they are embedded.
//
// Two rewrites are supported: query expansion, which enriches the query
// with related terminology, and hypothetical code generation, which
// sketches code answering the query so the embedding lands nearer real
// code. Both are best-effort: any failure yields ErrUnavailable and the
// search proceeds with the raw query.
package augmenter
