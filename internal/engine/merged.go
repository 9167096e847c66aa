package engine

// IsMergedToParent determines whether a branch's net changes are already
// incorporated into parent, under the engine's squash-merge detection mode:
//
//   - none: true only if the parent's history contains the branch tip
//     (fast-forward merge, or one side of a merge commit)
//   - simple: additionally true if the branch tip's tree hash matches the
//     tree hash of some commit in the parent's unique history; this catches
//     squash merges whose squashed commit reproduced the branch tree exactly
//   - exact: additionally true if the patch id of the branch's whole unique
//     diff matches the patch id of some commit in the parent's unique
//     history; this catches squash merges with unrelated commits in between, at
//     the cost of computing patch ids over the parent's history
func (e *Engine) IsMergedToParent(branch, parent string) (bool, error) {
	key := [2]string{branch, parent}
	e.mu.RLock()
	cached, ok := e.caches.merged[key]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	merged, err := e.isMergedToParent(branch, parent)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	e.caches.merged[key] = merged
	e.mu.Unlock()
	return merged, nil
}

func (e *Engine) isMergedToParent(branch, parent string) (bool, error) {
	branchTip, err := e.Tip(branch)
	if err != nil {
		return false, err
	}
	parentTip, err := e.Tip(parent)
	if err != nil {
		return false, err
	}
	// A fresh branch sitting at its parent's tip has nothing merged; it is
	// in sync, and classification falls through to green.
	if branchTip == parentTip {
		return false, nil
	}

	// Strict containment: the branch tip is in the parent's history
	contained, err := e.isAncestor(branch, parent)
	if err != nil {
		return false, err
	}
	if contained {
		return true, nil
	}
	if e.mode == SquashMergeNone {
		return false, nil
	}

	// The parent's unique history relative to the branch is where a squashed
	// equivalent of the branch would live
	parentUnique, err := e.git.CommitRange(branchTip, parent)
	if err != nil {
		return false, err
	}
	if len(parentUnique) == 0 {
		return false, nil
	}

	// simple: some parent-unique commit reproduces the branch tip's tree
	branchTree, err := e.git.TreeHash(branchTip)
	if err != nil {
		return false, err
	}
	for _, commit := range parentUnique {
		tree, err := e.git.TreeHash(commit)
		if err != nil {
			return false, err
		}
		if tree == branchTree {
			return true, nil
		}
	}
	if e.mode == SquashMergeSimple {
		return false, nil
	}

	// exact: the branch's whole unique diff appears as an equivalent patch
	// among the parent's unique commits
	mergeBase, err := e.git.MergeBase(branch, parent)
	if err != nil {
		return false, err
	}
	branchPatchID, err := e.git.PatchID(mergeBase, branchTip)
	if err != nil {
		return false, err
	}
	if branchPatchID == "" {
		// An empty diff carries no changes to look for
		return false, nil
	}
	for _, commit := range parentUnique {
		patchID, err := e.git.CommitPatchID(commit)
		if err != nil {
			return false, err
		}
		if patchID != "" && patchID == branchPatchID {
			return true, nil
		}
	}

	return false, nil
}
