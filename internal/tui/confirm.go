package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	question string
	value    bool
	done     bool
	aborted  bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, confirmKeys.Quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(km, confirmKeys.Yes):
		m.value = true
		m.done = true
		return m, tea.Quit
	case key.Matches(km, confirmKeys.No):
		m.value = false
		m.done = true
		return m, tea.Quit
	case key.Matches(km, confirmKeys.Toggle):
		m.value = !m.value
	case key.Matches(km, confirmKeys.Submit):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	yes, no := "  Yes  ", "  No  "
	if m.value {
		yes = CursorStyle.Render("[ Yes ]")
	} else {
		no = CursorStyle.Render("[ No ]")
	}
	return TitleStyle.Render(m.question) + "\n\n" + yes + " " + no + "\n\n" + help.New().View(confirmKeys) + "\n"
}
