// Package engine implements the branch-dependency classification core:
// fork-point inference (with persisted overrides), squash-merge detection,
// and the parent-edge / remote sync-state classifiers.
//
// Everything here is a pure query over the layout and the git.Querier; the
// engine never moves a ref. Results are cached for the duration of a single
// command invocation and must be dropped via InvalidateCaches after any
// ref-moving operation: stale cached ancestry is a correctness bug, not a
// performance nuisance.
package engine
