// Package ranker fuses per-layer search hits into a single ranked
// result list and formats results for callers.
package ranker
