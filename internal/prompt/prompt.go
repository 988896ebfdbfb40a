// Package prompt asks the user for confirmation in an interactive terminal.
package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/conn-castle/quizmodels/internal/messages"
)

var (
	// ErrNotInteractive is returned when a prompt runs without a terminal.
	ErrNotInteractive = errors.New(messages.PromptRequiresTerminal)
	// ErrCancelled is returned when the user aborts a prompt with Esc or Ctrl+C.
	ErrCancelled = errors.New(messages.PromptCancelled)
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(title string, defaultYes bool) (bool, error)
}

// IsInteractive reports whether stdin and stdout are both interactive terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// HuhConfirmer implements Confirmer with charmbracelet/huh.
type HuhConfirmer struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhConfirmer returns a Confirmer that requires an interactive terminal.
func NewHuhConfirmer() *HuhConfirmer {
	return &HuhConfirmer{isTerminal: IsInteractive}
}

// confirmKeyMap maps both Esc and Ctrl+C to abort.
func confirmKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	return km
}

// formFilter converts InterruptMsg (huh's cancel command, or an external SIGINT)
// into QuitMsg so bubbletea shuts down gracefully and clears the form.
func formFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.InterruptMsg); ok {
		return tea.QuitMsg{}
	}
	return msg
}

// Confirm renders a yes/no prompt on stderr. defaultYes preselects the answer.
func (c *HuhConfirmer) Confirm(title string, defaultYes bool) (bool, error) {
	checker := c.isTerminal
	if checker == nil {
		checker = IsInteractive
	}
	if !checker() {
		return false, ErrNotInteractive
	}

	value := defaultYes
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&value),
		),
	)
	form.WithKeyMap(confirmKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(formFilter),
	)

	if err := runFormFunc(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, err
	}
	return value, nil
}
