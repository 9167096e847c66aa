package layout

import (
	"strings"

	trelliserrors "trellis.dev/trellis/internal/errors"
)

// Parse reads the branch layout text format: one branch per line, indentation
// encodes nesting. The first indented line establishes the indent unit; every
// later indent must be a whole multiple of it. Text after the branch name is
// the annotation, kept verbatim. Blank lines are ignored. Line numbers in
// errors are physical (1-based, counting blank lines).
func Parse(text string) (*Layout, error) {
	l := New()
	l.indent = "" // established by the first indented line

	// stack[d] is the branch currently open at depth d
	var stack []string

	for i, line := range strings.Split(text, "\n") {
		lineNum := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}

		content := strings.TrimLeft(line, " \t")
		prefix := line[:len(line)-len(content)]

		depth, err := indentDepth(l, prefix, lineNum)
		if err != nil {
			return nil, err
		}

		name := content
		annotation := ""
		if idx := strings.Index(content, " "); idx >= 0 {
			name = content[:idx]
			annotation = content[idx+1:]
		}

		if !ValidBranchName(name) {
			return nil, trelliserrors.NewLayoutParseError(lineNum, "invalid branch name %q", name)
		}
		if l.Has(name) {
			return nil, trelliserrors.NewLayoutParseError(lineNum, "branch %s re-appears in the tree definition", name)
		}
		if depth > len(stack) {
			return nil, trelliserrors.NewLayoutParseError(lineNum,
				"too much indent (level %d, expected at most %d) for branch %s", depth, len(stack), name)
		}

		b := &Branch{Name: name, Annotation: annotation}
		l.Branches[name] = b
		if depth == 0 {
			l.Roots = append(l.Roots, name)
		} else {
			parent := stack[depth-1]
			b.Parent = parent
			parentBranch := l.Branches[parent]
			parentBranch.Children = append(parentBranch.Children, name)
		}

		stack = append(stack[:depth], name)
	}

	if l.indent == "" {
		l.indent = DefaultIndent
	}
	return l, nil
}

// indentDepth validates an indent prefix against the layout's indent unit and
// returns its nesting level. The first non-empty prefix becomes the unit.
func indentDepth(l *Layout, prefix string, lineNum int) (int, error) {
	if prefix == "" {
		return 0, nil
	}
	if l.indent == "" {
		l.indent = prefix
		return 1, nil
	}

	unit := l.indent
	if len(prefix)%len(unit) == 0 {
		depth := len(prefix) / len(unit)
		if prefix == strings.Repeat(unit, depth) {
			return depth, nil
		}
	}
	return 0, trelliserrors.NewLayoutParseError(lineNum, "invalid indent %q, expected a multiple of %q", prefix, unit)
}
