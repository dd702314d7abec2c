// Package planner turns a natural-language query into an executable
// search plan.
//
// Classification is keyword-driven and intentionally cheap: no model
// call is needed to decide a strategy. Model-based augmentation (query
// expansion and hypothetical code) is opt-in via Config and always
// best-effort; an unreachable model never fails the query.
package planner
