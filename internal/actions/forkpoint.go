package actions

// ForkPointOptions contains options for the fork-point command
type ForkPointOptions struct {
	// Branch targets a branch other than the current one
	Branch string
	// OverrideTo pins the fork point to a revision
	OverrideTo string
	// Inferred ignores any override and prints the raw inference
	Inferred bool
	// UnsetOverride removes a pinned fork point
	UnsetOverride bool
}

// ForkPoint prints or overrides a branch's fork point. Without flags the
// effective fork point (override when valid, inferred otherwise) is printed
// as "<sha> (<subject>)".
func ForkPoint(env *Env, opts ForkPointOptions) error {
	branch, err := env.requireManaged(opts.Branch)
	if err != nil {
		return err
	}

	switch {
	case opts.UnsetOverride:
		if err := env.Engine.UnsetForkPointOverride(branch); err != nil {
			return err
		}
		env.Splog.Info("Removed the fork point override of %s.", branch)
		return nil

	case opts.OverrideTo != "":
		commit, err := env.Git.Revision(opts.OverrideTo)
		if err != nil {
			return err
		}
		if err := env.Engine.SetForkPointOverride(branch, commit); err != nil {
			return err
		}
		env.Splog.Info("Fork point of %s overridden to %s.", branch, commit)
		return nil

	case opts.Inferred:
		forkPoint, err := env.Engine.InferForkPoint(branch)
		if err != nil {
			return err
		}
		return env.printCommit(forkPoint)

	default:
		forkPoint, err := env.Engine.EffectiveForkPoint(branch)
		if err != nil {
			return err
		}
		return env.printCommit(forkPoint)
	}
}

func (e *Env) printCommit(commit string) error {
	subject, err := e.Git.CommitSubject(commit)
	if err != nil {
		e.Splog.Info("%s", commit)
		return nil
	}
	e.Splog.Info("%s (%s)", commit, subject)
	return nil
}
