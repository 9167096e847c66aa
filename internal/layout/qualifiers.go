package layout

import "strings"

// Qualifiers are the per-branch suppression tokens carried in annotations.
// The zero value allows every traversal action.
type Qualifiers struct {
	NoRebase   bool // rebase=no: never rebase/merge this branch onto its parent
	NoPush     bool // push=no: never push this branch
	NoSlideOut bool // slide-out=no: never offer to slide this branch out
}

// String renders the qualifiers back into their token form.
func (q Qualifiers) String() string {
	var tokens []string
	if q.NoRebase {
		tokens = append(tokens, "rebase=no")
	}
	if q.NoPush {
		tokens = append(tokens, "push=no")
	}
	if q.NoSlideOut {
		tokens = append(tokens, "slide-out=no")
	}
	return strings.Join(tokens, " ")
}

// ParseAnnotation splits a raw annotation into its visible text and the
// qualifier tokens it carries. Tokens are whitespace-delimited, may appear
// anywhere and in any order; everything else is kept verbatim (with original
// spacing between surviving words collapsed to single spaces).
func ParseAnnotation(raw string) (text string, q Qualifiers) {
	if raw == "" {
		return "", Qualifiers{}
	}
	var words []string
	for _, token := range strings.Fields(raw) {
		switch token {
		case "rebase=no":
			q.NoRebase = true
		case "push=no":
			q.NoPush = true
		case "slide-out=no":
			q.NoSlideOut = true
		default:
			words = append(words, token)
		}
	}
	return strings.Join(words, " "), q
}

// ComposeAnnotation builds a raw annotation from visible text and qualifiers,
// placing qualifier tokens after the text the way the status output shows them.
func ComposeAnnotation(text string, q Qualifiers) string {
	tokens := q.String()
	switch {
	case text == "":
		return tokens
	case tokens == "":
		return text
	default:
		return text + " " + tokens
	}
}
