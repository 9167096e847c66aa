package actions

import (
	"context"
	"fmt"
	"strings"

	"trellis.dev/trellis/internal/github"
	"trellis.dev/trellis/internal/layout"
)

// AnnoOptions contains options for the anno command
type AnnoOptions struct {
	// Branch targets a branch other than the current one
	Branch string
	// Words is the new annotation; empty prints the existing one
	Words []string
	// Clear erases the annotation
	Clear bool
}

// Annotate prints, replaces or clears a branch's annotation. Qualifier
// tokens inside the new text keep their suppression semantics because the
// annotation is stored raw and parsed wherever qualifiers matter.
func Annotate(env *Env, opts AnnoOptions) error {
	branch, err := env.requireManaged(opts.Branch)
	if err != nil {
		return err
	}
	node := env.Layout.Get(branch)

	switch {
	case opts.Clear:
		node.Annotation = ""
		return env.SaveLayout()

	case len(opts.Words) > 0:
		node.Annotation = strings.Join(opts.Words, " ")
		return env.SaveLayout()

	default:
		if node.Annotation != "" {
			env.Splog.Info("%s", node.Annotation)
		}
		return nil
	}
}

// PRLister lists the open pull requests of the repository
type PRLister interface {
	ListOpenPRs(ctx context.Context) ([]github.PullRequestInfo, error)
}

// SyncGitHubPRs rewrites the annotation of every managed branch that heads
// an open PR to "PR #<n>", keeping existing qualifiers
func SyncGitHubPRs(ctx context.Context, env *Env, client PRLister) error {
	prs, err := client.ListOpenPRs(ctx)
	if err != nil {
		return err
	}

	byHead := make(map[string]github.PullRequestInfo, len(prs))
	for _, pr := range prs {
		byHead[pr.Head] = pr
	}

	updated := 0
	for _, name := range env.Layout.Names() {
		pr, ok := byHead[name]
		if !ok {
			continue
		}
		node := env.Layout.Get(name)
		_, qualifiers := layout.ParseAnnotation(node.Annotation)
		node.Annotation = layout.ComposeAnnotation(fmt.Sprintf("PR #%d", pr.Number), qualifiers)
		updated++
	}

	if updated == 0 {
		env.Splog.Info("No managed branch heads an open pull request.")
		return nil
	}
	if err := env.SaveLayout(); err != nil {
		return err
	}
	env.Splog.Info("Annotated %d branch(es) with their open pull requests.", updated)
	return nil
}
