// Package tui renders the interactive screens of scaffkit: single-choice
// menus, yes/no confirmations and a markdown pager.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user leaves a prompt with esc or ctrl+c.
var ErrAborted = errors.New("prompt aborted")

// Choice is one entry of a Select menu. A Choice with Separator set is a
// non-selectable group header.
type Choice struct {
	Label     string
	Hint      string
	Value     any
	Separator bool
}

// Prompter asks the user questions. Screens depend on it rather than on a
// terminal so they can be driven by tests.
type Prompter interface {
	Select(ctx context.Context, title string, choices []Choice) (Choice, error)
	Confirm(ctx context.Context, question string, def bool) (bool, error)
	Show(ctx context.Context, markdown string) error
	Println(a ...any)
}

// Terminal runs each prompt as a short-lived bubbletea program.
type Terminal struct {
	in    io.Reader
	out   io.Writer
	width int
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithInput overrides stdin.
func WithInput(r io.Reader) TerminalOption {
	return func(t *Terminal) { t.in = r }
}

// WithOutput overrides stdout.
func WithOutput(w io.Writer) TerminalOption {
	return func(t *Terminal) { t.out = w }
}

// WithWidth sets the wrap width of rendered markdown.
func WithWidth(n int) TerminalOption {
	return func(t *Terminal) { t.width = n }
}

// NewTerminal returns a Prompter bound to stdin/stdout.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{in: os.Stdin, out: os.Stdout, width: 80}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	return p.Run()
}

// Select shows a menu and returns the picked choice.
func (t *Terminal) Select(ctx context.Context, title string, choices []Choice) (Choice, error) {
	m, err := newSelectModel(title, choices)
	if err != nil {
		return Choice{}, err
	}
	final, err := t.run(ctx, m)
	if err != nil {
		return Choice{}, err
	}
	sm := final.(selectModel)
	if sm.aborted {
		return Choice{}, ErrAborted
	}
	return sm.choices[sm.cursor], nil
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	final, err := t.run(ctx, confirmModel{question: question, value: def})
	if err != nil {
		return false, err
	}
	cm := final.(confirmModel)
	if cm.aborted {
		return false, ErrAborted
	}
	return cm.value, nil
}

// Show renders markdown and waits for a key press.
func (t *Terminal) Show(ctx context.Context, markdown string) error {
	rendered, err := RenderMarkdown(markdown, t.width)
	if err != nil {
		return err
	}
	_, err = t.run(ctx, pagerModel{content: rendered})
	return err
}

// Println writes a line below the last screen.
func (t *Terminal) Println(a ...any) {
	fmt.Fprintln(t.out, a...)
}
