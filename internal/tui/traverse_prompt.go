package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TraverseAnswer is the user's response to a single traversal step prompt.
type TraverseAnswer int

const (
	// AnswerNo skips the proposed action and moves on to the next branch.
	AnswerNo TraverseAnswer = iota
	// AnswerYes performs the proposed action.
	AnswerYes
	// AnswerQuit stops the traversal without performing the action.
	AnswerQuit
	// AnswerYesQuit performs the proposed action and then stops.
	AnswerYesQuit
)

func (a TraverseAnswer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerQuit:
		return "quit"
	case AnswerYesQuit:
		return "yes-and-quit"
	default:
		return "no"
	}
}

// traversePromptModel collects a y/N/q/yq answer. "yq" takes two keystrokes,
// so the model buffers a pending "y" until Enter or a second rune arrives.
type traversePromptModel struct {
	prompt  string
	pending string
	answer  TraverseAnswer
	done    bool
	err     error
}

func (m traversePromptModel) Init() tea.Cmd {
	return nil
}

func (m traversePromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		m.answer = answerFromToken(m.pending)
		m.done = true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.err = fmt.Errorf("canceled")
		m.done = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.pending) > 0 {
			m.pending = m.pending[:len(m.pending)-1]
		}
		return m, nil
	case tea.KeyRunes:
		m.pending += strings.ToLower(string(keyMsg.Runes))
		switch m.pending {
		case "n", "q":
			m.answer = answerFromToken(m.pending)
			m.done = true
			return m, tea.Quit
		case "yq":
			m.answer = AnswerYesQuit
			m.done = true
			return m, tea.Quit
		case "y":
			// wait: could become "yq"
			return m, nil
		default:
			m.pending = ""
			return m, nil
		}
	}
	return m, nil
}

func answerFromToken(token string) TraverseAnswer {
	switch token {
	case "y", "yes":
		return AnswerYes
	case "q", "quit":
		return AnswerQuit
	case "yq":
		return AnswerYesQuit
	default:
		return AnswerNo
	}
}

func (m traversePromptModel) View() string {
	if m.done {
		return ""
	}
	styleObj := lipgloss.NewStyle().Margin(1, 0)
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("(y = yes, N = no, q = quit, yq = yes and quit)")
	line := fmt.Sprintf("%s [y/N/q/yq] %s", m.prompt, m.pending)
	return styleObj.Render(line + "\n" + hint)
}

// PromptTraverseStep asks what to do with a single branch during traversal.
// The zero-value answer (plain Enter) is no.
func PromptTraverseStep(prompt string) (TraverseAnswer, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return AnswerNo, err
	}

	m := traversePromptModel{prompt: prompt}

	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return AnswerNo, err
	}

	if finalModel, ok := model.(traversePromptModel); ok {
		if finalModel.err != nil {
			return AnswerNo, finalModel.err
		}
		return finalModel.answer, nil
	}

	return AnswerNo, fmt.Errorf("unexpected model type")
}
