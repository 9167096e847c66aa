package layout

import "strings"

// Render serializes the layout back into its textual form. Parsing a file and
// rendering the unmodified result reproduces the input byte for byte (blank
// lines aside): annotations are stored verbatim and the parsed indent unit is
// reused.
func (l *Layout) Render() string {
	var sb strings.Builder
	var walk func(name string, depth int)
	walk = func(name string, depth int) {
		b := l.Branches[name]
		sb.WriteString(strings.Repeat(l.indent, depth))
		sb.WriteString(b.Name)
		if b.Annotation != "" {
			sb.WriteString(" ")
			sb.WriteString(b.Annotation)
		}
		sb.WriteString("\n")
		for _, child := range b.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range l.Roots {
		walk(root, 0)
	}
	return sb.String()
}
