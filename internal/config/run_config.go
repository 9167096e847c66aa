package config

import (
	"fmt"
	"path/filepath"
)

// Squash-merge detection modes, from cheapest to most precise
const (
	SquashMergeDetectionNone   = "none"
	SquashMergeDetectionSimple = "simple"
	SquashMergeDetectionExact  = "exact"
)

// Traverse entry points
const (
	StartFromHere      = "here"
	StartFromRoot      = "root"
	StartFromFirstRoot = "first-root"
)

// Traverse return-to policies
const (
	ReturnToHere             = "here"
	ReturnToNearestRemaining = "nearest-remaining"
	ReturnToStay             = "stay"
)

// RunConfig carries every knob the core needs for a single command
// invocation. It is constructed once at process start and never mutated by
// the core.
type RunConfig struct {
	RepoRoot   string
	LayoutPath string

	// Interactive is false when stdin is not a terminal or interactivity is
	// suppressed via TRELLIS_NON_INTERACTIVE
	Interactive bool
	// Yes answers every confirmation affirmatively
	Yes bool
	// ASCII disables box-drawing characters and colors in tree output
	ASCII bool

	// SquashMergeDetection is one of none/simple/exact; both the sync-state
	// classifier and the traversal honor the same mode for a whole run
	SquashMergeDetection string

	// TraverseMerge merges branches onto their parents instead of rebasing
	TraverseMerge bool
	// TraversePush enables the remote check of traverse (on by default)
	TraversePush bool
}

// ValidateSquashMergeDetection checks a squash-merge detection mode name
func ValidateSquashMergeDetection(mode string) error {
	switch mode {
	case SquashMergeDetectionNone, SquashMergeDetectionSimple, SquashMergeDetectionExact:
		return nil
	}
	return fmt.Errorf("invalid squash-merge detection mode %q, expected one of none, simple, exact", mode)
}

// ValidateStartFrom checks a traverse entry point name
func ValidateStartFrom(value string) error {
	switch value {
	case StartFromHere, StartFromRoot, StartFromFirstRoot:
		return nil
	}
	return fmt.Errorf("invalid start-from value %q, expected one of here, root, first-root", value)
}

// ValidateReturnTo checks a traverse return-to policy name
func ValidateReturnTo(value string) error {
	switch value {
	case ReturnToHere, ReturnToNearestRemaining, ReturnToStay:
		return nil
	}
	return fmt.Errorf("invalid return-to value %q, expected one of here, nearest-remaining, stay", value)
}

// LayoutPath returns the branch layout file location inside a git dir
func LayoutPath(gitDir string) string {
	return filepath.Join(gitDir, "trellis")
}
