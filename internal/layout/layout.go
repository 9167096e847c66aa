package layout

import (
	"fmt"
	"regexp"
	"strings"

	trelliserrors "trellis.dev/trellis/internal/errors"
)

// DefaultIndent is the indent unit used when rendering a layout that was not
// read from a file (e.g. built by discover).
const DefaultIndent = "\t"

// branchNameRegex matches the characters accepted in branch names.
// Matches the set git itself is happy with for ref components.
var branchNameRegex = regexp.MustCompile(`^[-_/.a-zA-Z0-9+]+$`)

// ValidBranchName reports whether name is acceptable as a branch name.
func ValidBranchName(name string) bool {
	if name == "" || !branchNameRegex.MatchString(name) {
		return false
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.Contains(name, "..") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".") {
		return false
	}
	return true
}

// Branch is a single node of the dependency forest. Parent and Children hold
// branch names; the Layout map is the only place nodes live.
type Branch struct {
	Name       string
	Annotation string   // raw annotation text, qualifier tokens included
	Parent     string   // empty for roots
	Children   []string // insertion order; defines traversal and next/prev
}

// Qualifiers returns the suppression qualifiers parsed from the annotation.
func (b *Branch) Qualifiers() Qualifiers {
	_, q := ParseAnnotation(b.Annotation)
	return q
}

// AnnotationText returns the annotation with qualifier tokens removed.
func (b *Branch) AnnotationText() string {
	text, _ := ParseAnnotation(b.Annotation)
	return text
}

// Layout is the branch dependency forest: ordered root names plus a flat
// name-to-branch arena.
type Layout struct {
	Roots    []string
	Branches map[string]*Branch

	indent string // indent unit for rendering, preserved from parse
}

// New creates an empty layout rendering with the default indent unit.
func New() *Layout {
	return &Layout{
		Branches: make(map[string]*Branch),
		indent:   DefaultIndent,
	}
}

// Get returns the branch with the given name, or nil.
func (l *Layout) Get(name string) *Branch {
	return l.Branches[name]
}

// Has reports whether the layout manages a branch with the given name.
func (l *Layout) Has(name string) bool {
	_, ok := l.Branches[name]
	return ok
}

// IsRoot reports whether name is one of the layout's roots.
func (l *Layout) IsRoot(name string) bool {
	b := l.Branches[name]
	return b != nil && b.Parent == ""
}

// Names returns every managed branch name in pre-order.
func (l *Layout) Names() []string {
	var result []string
	var walk func(name string)
	walk = func(name string) {
		result = append(result, name)
		for _, child := range l.children(name) {
			walk(child)
		}
	}
	for _, root := range l.Roots {
		walk(root)
	}
	return result
}

func (l *Layout) children(name string) []string {
	if b := l.Branches[name]; b != nil {
		return b.Children
	}
	return nil
}

// Children returns the ordered children of a branch (nil for unknown names).
func (l *Layout) Children(name string) []string {
	return l.children(name)
}

// Parent returns the parent branch name, or empty for roots and unknown names.
func (l *Layout) Parent(name string) string {
	if b := l.Branches[name]; b != nil {
		return b.Parent
	}
	return ""
}

// RootOf returns the root of the tree containing name.
func (l *Layout) RootOf(name string) string {
	current := name
	for {
		b := l.Branches[current]
		if b == nil || b.Parent == "" {
			return current
		}
		current = b.Parent
	}
}

// NextBranch returns the successor of name in the pre-order flattening of the
// whole forest, or empty when name is the last branch.
func (l *Layout) NextBranch(name string) string {
	names := l.Names()
	for i, n := range names {
		if n == name && i+1 < len(names) {
			return names[i+1]
		}
	}
	return ""
}

// PrevBranch returns the predecessor of name in the pre-order flattening of
// the whole forest, or empty when name is the first branch.
func (l *Layout) PrevBranch(name string) string {
	names := l.Names()
	for i, n := range names {
		if n == name && i > 0 {
			return names[i-1]
		}
	}
	return ""
}

// FirstInRootTree returns the first branch (pre-order) of the tree containing
// name, skipping the root itself when the tree has descendants.
func (l *Layout) FirstInRootTree(name string) string {
	root := l.RootOf(name)
	children := l.children(root)
	if len(children) == 0 {
		return root
	}
	return children[0]
}

// LastInRootTree returns the last branch (pre-order) of the tree containing
// name: the deepest last-child path from the root.
func (l *Layout) LastInRootTree(name string) string {
	current := l.RootOf(name)
	for {
		children := l.children(current)
		if len(children) == 0 {
			return current
		}
		current = children[len(children)-1]
	}
}

// AddRoot appends a new root branch.
func (l *Layout) AddRoot(name string) error {
	if err := l.checkInsertable(name); err != nil {
		return err
	}
	l.Branches[name] = &Branch{Name: name}
	l.Roots = append(l.Roots, name)
	return nil
}

// AddUnder appends name as the last child of parent.
func (l *Layout) AddUnder(name, parent string) error {
	if err := l.checkInsertable(name); err != nil {
		return err
	}
	parentBranch := l.Branches[parent]
	if parentBranch == nil {
		return trelliserrors.NewInvariantViolationError("parent branch %s is not managed", parent)
	}
	l.Branches[name] = &Branch{Name: name, Parent: parent}
	parentBranch.Children = append(parentBranch.Children, name)
	return nil
}

func (l *Layout) checkInsertable(name string) error {
	if !ValidBranchName(name) {
		return trelliserrors.NewInvariantViolationError("invalid branch name %q", name)
	}
	if l.Has(name) {
		return trelliserrors.NewInvariantViolationError("branch %s is already managed", name)
	}
	return nil
}

// Remove detaches name from the forest, splicing its children into its former
// position: they keep their relative order and become children of the removed
// branch's parent (or roots when a root is removed).
func (l *Layout) Remove(name string) error {
	b := l.Branches[name]
	if b == nil {
		return trelliserrors.NewNotManagedError(name)
	}

	children := make([]string, len(b.Children))
	copy(children, b.Children)
	for _, child := range children {
		l.Branches[child].Parent = b.Parent
	}

	if b.Parent == "" {
		l.Roots = spliceName(l.Roots, name, children)
	} else {
		parent := l.Branches[b.Parent]
		parent.Children = spliceName(parent.Children, name, children)
	}

	delete(l.Branches, name)
	return nil
}

// spliceName replaces the single occurrence of name in list with replacement.
func spliceName(list []string, name string, replacement []string) []string {
	result := make([]string, 0, len(list)-1+len(replacement))
	for _, n := range list {
		if n == name {
			result = append(result, replacement...)
		} else {
			result = append(result, n)
		}
	}
	return result
}

// CheckInvariants verifies that the layout forms a forest: parent/child links
// agree, every referenced branch exists, names are valid, no branch is
// reachable twice and no parent chain loops.
func (l *Layout) CheckInvariants() error {
	for _, root := range l.Roots {
		b := l.Branches[root]
		if b == nil {
			return trelliserrors.NewInvariantViolationError("root branch %s is missing from the branch map", root)
		}
		if b.Parent != "" {
			return trelliserrors.NewInvariantViolationError("root branch %s has parent %s", root, b.Parent)
		}
	}

	seen := make(map[string]bool, len(l.Branches))
	var walk func(name string) error
	walk = func(name string) error {
		if seen[name] {
			return trelliserrors.NewInvariantViolationError("branch %s is reachable twice", name)
		}
		seen[name] = true
		b := l.Branches[name]
		for _, child := range b.Children {
			childBranch := l.Branches[child]
			if childBranch == nil {
				return trelliserrors.NewInvariantViolationError("branch %s references unknown child %s", name, child)
			}
			if childBranch.Parent != name {
				return trelliserrors.NewInvariantViolationError("branch %s is a child of %s but has parent %q", child, name, childBranch.Parent)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range l.Roots {
		if err := walk(root); err != nil {
			return err
		}
	}

	for name, b := range l.Branches {
		if !ValidBranchName(name) {
			return trelliserrors.NewInvariantViolationError("invalid branch name %q", name)
		}
		if !seen[name] {
			return trelliserrors.NewInvariantViolationError("branch %s is not reachable from any root", name)
		}
		if b.Name != name {
			return trelliserrors.NewInvariantViolationError("branch map key %s does not match branch name %s", name, b.Name)
		}
	}
	return nil
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	clone := &Layout{
		Roots:    append([]string(nil), l.Roots...),
		Branches: make(map[string]*Branch, len(l.Branches)),
		indent:   l.indent,
	}
	for name, b := range l.Branches {
		clone.Branches[name] = &Branch{
			Name:       b.Name,
			Annotation: b.Annotation,
			Parent:     b.Parent,
			Children:   append([]string(nil), b.Children...),
		}
	}
	return clone
}

// Depth returns the nesting level of a branch (0 for roots).
func (l *Layout) Depth(name string) int {
	depth := 0
	current := name
	for {
		b := l.Branches[current]
		if b == nil || b.Parent == "" {
			return depth
		}
		depth++
		current = b.Parent
	}
}

func (l *Layout) String() string {
	return fmt.Sprintf("Layout(%d roots, %d branches)", len(l.Roots), len(l.Branches))
}
