package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"trellis.dev/trellis/internal/engine"
	"trellis.dev/trellis/internal/layout"
)

// TreeLine holds per-branch display metadata for the forest view.
type TreeLine struct {
	Edge          engine.EdgeColor
	RemoteMarker  string   // e.g. "untracked", "ahead of origin"; empty when in sync
	Annotation    string   // raw annotation text, qualifier tokens included
	IsCurrent     bool
	ForkPointHint string   // extra line under yellow edges naming the inferred fork point
	Commits       []string // unique commit subjects, oldest first
}

// RenderOptions configures forest rendering behavior.
type RenderOptions struct {
	ASCII       bool // letter glyphs instead of colors
	ListCommits bool
}

// SupportsColor reports whether stdout can take ANSI colors.
func SupportsColor() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

var (
	edgeStyles = map[engine.EdgeColor]lipgloss.Style{
		engine.EdgeGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		engine.EdgeYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		engine.EdgeRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		engine.EdgeGrey:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}

	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	remoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ascii-mode edge letters; elsewhere the glyph is "o-" in the edge's color
var asciiGlyphs = map[engine.EdgeColor]string{
	engine.EdgeGreen:  "o-",
	engine.EdgeYellow: "?-",
	engine.EdgeRed:    "x-",
	engine.EdgeGrey:   "m-",
}

// RenderForest renders the managed branch forest in text form. Each branch
// occupies one line at two spaces of indent per nesting level, preceded by a
// vertical connector line; lines holds the classification computed for each
// branch.
func RenderForest(lay *layout.Layout, lines map[string]TreeLine, opts RenderOptions) string {
	var b strings.Builder

	for i, root := range lay.Roots {
		if i > 0 {
			b.WriteString("\n")
		}
		renderBranch(&b, lay, lines, root, 0, opts)
	}

	return b.String()
}

func renderBranch(b *strings.Builder, lay *layout.Layout, lines map[string]TreeLine, name string, depth int, opts RenderOptions) {
	line := lines[name]
	prefix := "  " + strings.Repeat("| ", depthForPrefix(depth))

	isRoot := depth == 0

	if !isRoot {
		if opts.ListCommits {
			b.WriteString(prefix + "|\n")
			for _, subject := range line.Commits {
				b.WriteString(prefix + "| " + dim(subject, opts) + "\n")
			}
			if line.ForkPointHint != "" {
				b.WriteString(prefix + "| " + dim(line.ForkPointHint, opts) + "\n")
			}
		} else {
			b.WriteString(prefix + "|\n")
		}
	}

	b.WriteString(prefix + branchLine(name, line, isRoot, opts) + "\n")

	for _, child := range lay.Children(name) {
		renderBranch(b, lay, lines, child, depth+1, opts)
	}
}

// depthForPrefix: the branch's own edge glyph occupies the last column, so
// only the levels above it contribute vertical bars.
func depthForPrefix(depth int) int {
	if depth == 0 {
		return 0
	}
	return depth - 1
}

func branchLine(name string, line TreeLine, isRoot bool, opts RenderOptions) string {
	var out strings.Builder

	if !isRoot {
		out.WriteString(edgeGlyph(line.Edge, opts))
	}

	displayName := name
	if line.IsCurrent {
		if opts.ASCII {
			displayName += " *"
		} else {
			displayName = currentStyle.Render(displayName + " *")
		}
	} else if line.Edge == engine.EdgeGrey && !opts.ASCII {
		displayName = dimStyle.Render(displayName)
	}
	out.WriteString(displayName)

	if line.Annotation != "" {
		out.WriteString("  " + dim(line.Annotation, opts))
	}

	if line.RemoteMarker != "" {
		marker := "(" + line.RemoteMarker + ")"
		if !opts.ASCII {
			marker = remoteStyle.Render(marker)
		}
		out.WriteString(" " + marker)
	}

	return out.String()
}

func edgeGlyph(edge engine.EdgeColor, opts RenderOptions) string {
	if opts.ASCII {
		if g, ok := asciiGlyphs[edge]; ok {
			return g
		}
		return "o-"
	}
	if style, ok := edgeStyles[edge]; ok {
		return style.Render("o-")
	}
	return "o-"
}

func dim(text string, opts RenderOptions) string {
	if opts.ASCII {
		return text
	}
	return dimStyle.Render(text)
}

// RenderBranchList renders a flat list of branch names with annotations,
// the current one marked.
func RenderBranchList(names []string, lines map[string]TreeLine, opts RenderOptions) string {
	var b strings.Builder
	for _, name := range names {
		line := lines[name]
		b.WriteString("  ")
		b.WriteString(branchLine(name, line, true, opts))
		b.WriteString("\n")
	}
	return b.String()
}
