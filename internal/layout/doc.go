// Package layout owns the branch dependency forest and its textual form.
//
// It handles:
//   - Parsing and serializing the branch layout file (one branch per line,
//     indentation encodes parent/child nesting, trailing annotations)
//   - The in-memory forest model: ordered roots plus a flat name-to-branch map
//   - Qualifier tokens (rebase=no, push=no, slide-out=no) inside annotations
//   - Forest invariant checking (no cycles, no orphans, no duplicates)
//
// The model stores parents and children as branch names, never as object
// references, so invariant checks are pure functions over the map.
package layout
