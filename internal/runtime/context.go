// Package runtime provides the per-invocation context that holds the git
// facade, the engine and the logger. This avoids threading half a dozen
// parameters through every command.
package runtime

import (
	"fmt"

	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/engine"
	"trellis.dev/trellis/internal/git"
	"trellis.dev/trellis/internal/layout"
	"trellis.dev/trellis/internal/tui"
)

// Context provides access to the repository state for commands
type Context struct {
	Git      *git.Facade
	Engine   *engine.Engine
	Layout   *layout.Layout
	Config   *config.RunConfig
	Splog    *tui.Splog
	RepoRoot string
}

// GetContext discovers the enclosing repository and assembles a context for
// one command invocation. The branch layout is read from the layout file in
// the git dir; a repository without one behaves as if no branches were
// managed.
func GetContext() (*Context, error) {
	repoRoot, err := git.FindRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	facade, err := git.NewFacade(repoRoot)
	if err != nil {
		return nil, err
	}

	cfg := config.Load(repoRoot, config.LayoutPath(facade.Repo().GitDir()), facade)

	lay, err := layout.ReadFile(cfg.LayoutPath)
	if err != nil {
		return nil, err
	}

	mode, err := engine.ParseSquashMergeMode(cfg.SquashMergeDetection)
	if err != nil {
		return nil, err
	}

	splog := tui.NewSplog()
	eng := engine.New(lay, facade, facade, mode)
	eng.SetWarnFunc(splog.Warn)

	return &Context{
		Git:      facade,
		Engine:   eng,
		Layout:   lay,
		Config:   cfg,
		Splog:    splog,
		RepoRoot: repoRoot,
	}, nil
}

// SetSquashMergeDetection switches the detection mode after construction,
// rebuilding the engine so its caches start from the new mode
func (c *Context) SetSquashMergeDetection(mode string) error {
	parsed, err := engine.ParseSquashMergeMode(mode)
	if err != nil {
		return err
	}
	c.Config.SquashMergeDetection = mode
	c.Engine = engine.New(c.Layout, c.Git, c.Git, parsed)
	c.Engine.SetWarnFunc(c.Splog.Warn)
	return nil
}

// SaveLayout writes the (possibly mutated) layout back to the layout file
func (c *Context) SaveLayout() error {
	return layout.WriteFile(c.Config.LayoutPath, c.Layout)
}

// SaveLayoutWithBackup writes the layout, keeping the previous content in a
// backup file. Used by destructive rewrites such as discover.
func (c *Context) SaveLayoutWithBackup() error {
	return layout.WriteFileWithBackup(c.Config.LayoutPath, c.Layout)
}

// RequireManagedBranches returns an error when the layout manages nothing
func (c *Context) RequireManagedBranches() error {
	if len(c.Layout.Roots) == 0 {
		return fmt.Errorf("no branches listed in %s; consider running 'trellis discover' or 'trellis add'", c.Config.LayoutPath)
	}
	return nil
}

// Close releases resources held by the context
func (c *Context) Close() error {
	return c.Splog.Close()
}
