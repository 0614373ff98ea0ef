package console

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinnerDone struct{ err error }

// SpinnerModel shows an animated spinner with a text label while a background
// task runs.
type SpinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
	err      error
}

func NewSpinner(text string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return SpinnerModel{spinner: s, text: text}
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case spinnerDone:
		m.quitting = true
		m.err = msg.err
		return m, tea.Quit
	case tea.QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m SpinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

// RunWhile shows a spinner with the given text while fn runs, then returns
// fn's error.
func RunWhile(text string, fn func() error) error {
	p := tea.NewProgram(NewSpinner(text))
	go func() {
		p.Send(spinnerDone{err: fn()})
	}()
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(SpinnerModel); ok {
		return m.err
	}
	return nil
}
