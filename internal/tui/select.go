package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// selectModel is a single-choice menu. Separators are skipped by the cursor.
type selectModel struct {
	title   string
	choices []Choice
	cursor  int
	done    bool
	aborted bool
	help    help.Model
}

func newSelectModel(title string, choices []Choice) (selectModel, error) {
	m := selectModel{title: title, choices: choices, cursor: -1, help: help.New()}
	for i, c := range choices {
		if !c.Separator {
			m.cursor = i
			break
		}
	}
	if m.cursor < 0 {
		return m, errors.New("select needs at least one selectable choice")
	}
	return m, nil
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, selectKeys.Quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(km, selectKeys.Select):
		m.done = true
		return m, tea.Quit
	case key.Matches(km, selectKeys.Up):
		m.cursor = m.step(-1)
	case key.Matches(km, selectKeys.Down):
		m.cursor = m.step(1)
	}
	return m, nil
}

// step moves the cursor by dir, wrapping around and skipping separators.
func (m selectModel) step(dir int) int {
	n := len(m.choices)
	i := m.cursor
	for range n {
		i = (i + dir + n) % n
		if !m.choices[i].Separator {
			return i
		}
	}
	return m.cursor
}

func (m selectModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, c := range m.choices {
		switch {
		case c.Separator:
			b.WriteString(SeparatorStyle.Render(c.Label))
		case i == m.cursor:
			b.WriteString(CursorStyle.Render("> " + c.Label))
		default:
			b.WriteString("  " + c.Label)
		}
		if c.Hint != "" && !c.Separator {
			b.WriteString(" " + SubtitleStyle.Render(c.Hint))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(selectKeys))
	b.WriteString("\n")
	return b.String()
}
