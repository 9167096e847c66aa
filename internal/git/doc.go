// Package git provides low-level Git operations.
//
// It wraps git command execution and go-git repository access behind a
// Go-friendly interface:
//   - Read-only queries (ancestry, reflogs, tree hashes, patch ids,
//     remote-tracking state) exposed through the Querier interface
//   - Ref-moving operations (checkout, rebase, merge, push, pull, reset)
//     exposed through the Runner interface
//
// This package should be the only place where direct git commands are
// executed. The engine and actions consume only the interfaces, so tests can
// substitute an in-memory repository.
package git
