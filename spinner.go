package main

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type waitDoneMsg struct{}

// waitModel shows a spinner and a label until the wrapped call returns.
type waitModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newWaitModel(label string) waitModel {
	return waitModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(stderrStyles().Spinner),
		),
		label: label,
	}
}

// Init implements tea.Model.
func (m waitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case waitDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "..."
}

// waiter returns the function used to wrap blocking calls, or nil when no
// spinner should be shown.
func waiter(cfg Config) func(label string, fn func() error) error {
	if cfg.Quiet || cfg.All || !isErrTTY() {
		return nil
	}
	return func(label string, fn func() error) error {
		p := tea.NewProgram(
			newWaitModel(label),
			tea.WithOutput(os.Stderr),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		)
		errc := make(chan error, 1)
		go func() {
			errc <- fn()
			p.Send(waitDoneMsg{})
		}()
		_, _ = p.Run()
		return <-errc
	}
}
