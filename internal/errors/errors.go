// Package errors provides sentinel errors and custom error types for the trellis application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist in the repository
	ErrBranchNotFound = errors.New("branch not found")

	// ErrNotManaged indicates that a branch exists but is not part of the branch layout
	ErrNotManaged = errors.New("branch not managed")

	// ErrForkPointNotFound indicates that no fork point could be inferred for a branch
	ErrForkPointNotFound = errors.New("fork point not found")

	// ErrLayoutParse indicates that the branch layout file is malformed
	ErrLayoutParse = errors.New("invalid branch layout")

	// ErrInvariantViolation indicates that a mutation would corrupt the branch forest
	ErrInvariantViolation = errors.New("branch layout invariant violation")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")
)

// LayoutParseError reports a malformed branch layout file. Line is 1-based and
// refers to the physical line in the file, counting blank lines.
type LayoutParseError struct {
	Line   int
	Reason string
}

func (e *LayoutParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Is returns true if the target error is ErrLayoutParse
func (e *LayoutParseError) Is(target error) bool {
	return target == ErrLayoutParse
}

// NewLayoutParseError creates a new LayoutParseError
func NewLayoutParseError(line int, format string, args ...interface{}) *LayoutParseError {
	return &LayoutParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// NotManagedError represents an error when a branch is absent from the layout file
type NotManagedError struct {
	BranchName string
}

func (e *NotManagedError) Error() string {
	return fmt.Sprintf("branch %s is not managed; use 'trellis add %s' or edit the layout file", e.BranchName, e.BranchName)
}

// Is returns true if the target error is ErrNotManaged
func (e *NotManagedError) Is(target error) bool {
	return target == ErrNotManaged
}

// NewNotManagedError creates a new NotManagedError
func NewNotManagedError(branchName string) *NotManagedError {
	return &NotManagedError{BranchName: branchName}
}

// ForkPointNotFoundError represents a branch whose history shares no commit
// with any other branch's reflog-reachable set.
type ForkPointNotFoundError struct {
	BranchName string
}

func (e *ForkPointNotFoundError) Error() string {
	return fmt.Sprintf("fork point not found for branch %s; use 'trellis fork-point %s --override-to=<revision>'", e.BranchName, e.BranchName)
}

// Is returns true if the target error is ErrForkPointNotFound
func (e *ForkPointNotFoundError) Is(target error) bool {
	return target == ErrForkPointNotFound
}

// NewForkPointNotFoundError creates a new ForkPointNotFoundError
func NewForkPointNotFoundError(branchName string) *ForkPointNotFoundError {
	return &ForkPointNotFoundError{BranchName: branchName}
}

// StaleOverrideError reports a fork-point override that no longer points to an
// ancestor of the branch tip. It is surfaced as a warning: inference proceeds
// as if no override existed.
type StaleOverrideError struct {
	BranchName string
	Override   string
}

func (e *StaleOverrideError) Error() string {
	return fmt.Sprintf("fork point override %s for branch %s is no longer an ancestor of the branch tip; ignoring it (consider 'trellis fork-point %s --unset-override')",
		e.Override, e.BranchName, e.BranchName)
}

// NewStaleOverrideError creates a new StaleOverrideError
func NewStaleOverrideError(branchName, override string) *StaleOverrideError {
	return &StaleOverrideError{BranchName: branchName, Override: override}
}

// InvariantViolationError represents a mutation rejected because it would
// break the branch forest (cycle, orphan, duplicate, malformed chain).
// It is always raised before any git command runs.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return e.Reason
}

// Is returns true if the target error is ErrInvariantViolation
func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}

// NewInvariantViolationError creates a new InvariantViolationError
func NewInvariantViolationError(format string, args ...interface{}) *InvariantViolationError {
	return &InvariantViolationError{Reason: fmt.Sprintf(format, args...)}
}

// RebaseConflictError represents an error when a rebase encounters a conflict
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
