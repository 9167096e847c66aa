package engine

import (
	"fmt"
	"sync"

	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/git"
	"trellis.dev/trellis/internal/layout"
)

// SquashMergeMode selects how thoroughly merged-to-parent detection looks
// for squash/rebase merges. See IsMergedToParent.
type SquashMergeMode int

const (
	// SquashMergeNone detects only strict (ancestor) merges
	SquashMergeNone SquashMergeMode = iota
	// SquashMergeSimple additionally compares the branch tip's tree hash
	// against the parent's unique commits
	SquashMergeSimple
	// SquashMergeExact additionally compares the patch id of the branch's
	// whole unique diff against the parent's unique commits
	SquashMergeExact
)

func (m SquashMergeMode) String() string {
	switch m {
	case SquashMergeNone:
		return config.SquashMergeDetectionNone
	case SquashMergeSimple:
		return config.SquashMergeDetectionSimple
	case SquashMergeExact:
		return config.SquashMergeDetectionExact
	}
	return fmt.Sprintf("SquashMergeMode(%d)", int(m))
}

// ParseSquashMergeMode converts a mode name (none/simple/exact) to a mode
func ParseSquashMergeMode(name string) (SquashMergeMode, error) {
	switch name {
	case config.SquashMergeDetectionNone:
		return SquashMergeNone, nil
	case config.SquashMergeDetectionSimple:
		return SquashMergeSimple, nil
	case config.SquashMergeDetectionExact:
		return SquashMergeExact, nil
	}
	return SquashMergeNone, fmt.Errorf("invalid squash-merge detection mode %q", name)
}

// WarnFunc receives non-fatal warnings (e.g. stale fork-point overrides)
type WarnFunc func(format string, args ...interface{})

// Engine classifies branches of the layout against the repository state.
// All methods are read-only with respect to git refs; the only mutations it
// performs are fork-point override writes to git config.
type Engine struct {
	lay  *layout.Layout
	git  git.Querier
	run  git.Runner
	mode SquashMergeMode
	warn WarnFunc

	mu     sync.RWMutex
	caches caches
}

// caches hold per-invocation query results. Guarded by Engine.mu so tests
// may run classification concurrently; the core itself never fans out.
type caches struct {
	tips        map[string]string
	ancestry    map[[2]string]bool
	reflogSets  map[string]map[string]bool
	forkPoints  map[string]string
	merged      map[[2]string]bool
	parentEdges map[string]EdgeColor
	remote      map[string]RemoteState
}

func newCaches() caches {
	return caches{
		tips:        make(map[string]string),
		ancestry:    make(map[[2]string]bool),
		reflogSets:  make(map[string]map[string]bool),
		forkPoints:  make(map[string]string),
		merged:      make(map[[2]string]bool),
		parentEdges: make(map[string]EdgeColor),
		remote:      make(map[string]RemoteState),
	}
}

// New creates an engine over a layout and a git facade
func New(lay *layout.Layout, querier git.Querier, runner git.Runner, mode SquashMergeMode) *Engine {
	return &Engine{
		lay:    lay,
		git:    querier,
		run:    runner,
		mode:   mode,
		warn:   func(string, ...interface{}) {},
		caches: newCaches(),
	}
}

// SetWarnFunc routes non-fatal warnings to the given sink
func (e *Engine) SetWarnFunc(warn WarnFunc) {
	if warn != nil {
		e.warn = warn
	}
}

// Layout returns the layout the engine classifies against
func (e *Engine) Layout() *layout.Layout {
	return e.lay
}

// Mode returns the squash-merge detection mode active for this run
func (e *Engine) Mode() SquashMergeMode {
	return e.mode
}

// InvalidateCaches drops every cached query result. Must be called after any
// operation that can move a ref (checkout, rebase, merge, reset, push).
func (e *Engine) InvalidateCaches() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.caches = newCaches()
}

// Tip returns the commit hash a branch points at, cached for the run
func (e *Engine) Tip(branch string) (string, error) {
	e.mu.RLock()
	tip, ok := e.caches.tips[branch]
	e.mu.RUnlock()
	if ok {
		return tip, nil
	}

	tip, err := e.git.Revision(branch)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	e.caches.tips[branch] = tip
	e.mu.Unlock()
	return tip, nil
}

// isAncestor answers ancestor-or-equal, cached for the run
func (e *Engine) isAncestor(ancestor, descendant string) (bool, error) {
	key := [2]string{ancestor, descendant}
	e.mu.RLock()
	result, ok := e.caches.ancestry[key]
	e.mu.RUnlock()
	if ok {
		return result, nil
	}

	result, err := e.git.IsAncestor(ancestor, descendant)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	e.caches.ancestry[key] = result
	e.mu.Unlock()
	return result, nil
}
