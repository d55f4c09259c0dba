// Package routes holds the interactive screens of scaffkit and registers them
// into a router.
package routes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/catalog"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/router"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/tui"
)

// ArgRefresh asks the home screen to rescan the lookup paths before showing
// the menu.
const ArgRefresh = "refresh"

// Runner launches a generator picked on the run screen.
type Runner interface {
	Run(ctx context.Context, rec *catalog.Record) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, rec *catalog.Record) error

func (f RunnerFunc) Run(ctx context.Context, rec *catalog.Record) error { return f(ctx, rec) }

// PrintRunner reports the hand-off instead of executing anything.
type PrintRunner struct {
	Out io.Writer
}

func (p PrintRunner) Run(_ context.Context, rec *catalog.Record) error {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintf(out, "%s %s (%s)\n  entry: %s\n",
		tui.SuccessStyle.Render("Running"), rec.PrettyName, rec.Namespace, rec.Resolved)
	return err
}

// Looker rescans the lookup paths. FSEnvironment implements it.
type Looker interface {
	Lookup(ctx context.Context) error
}

// Screens renders every route through a Prompter.
type Screens struct {
	prompt tui.Prompter
	runner Runner
}

// New returns the screens. A nil runner prints the hand-off to stdout.
func New(p tui.Prompter, runner Runner) *Screens {
	if runner == nil {
		runner = PrintRunner{}
	}
	return &Screens{prompt: p, runner: runner}
}

// Register installs every screen into r.
func (s *Screens) Register(r *router.Router) *router.Router {
	return r.
		RegisterRoute(router.RouteHome, s.home).
		RegisterRoute(router.RouteRun, s.run).
		RegisterRoute(router.RouteUpdate, s.update).
		RegisterRoute(router.RouteClearConfig, s.clearConfig).
		RegisterRoute(router.RouteHelp, s.help).
		RegisterRoute(router.RouteExit, s.exit)
}

// next is the Value of menu choices that lead to another screen.
type next struct {
	route router.Route
	arg   any
}

// follow navigates to the screen behind choice. Leaving a prompt with esc is
// treated as picking exit.
func follow(ctx context.Context, r *router.Router, choice tui.Choice, err error) error {
	if errors.Is(err, tui.ErrAborted) {
		_, err = r.Navigate(ctx, router.RouteExit, nil)
		return err
	}
	if err != nil {
		return err
	}
	n, ok := choice.Value.(next)
	if !ok {
		return fmt.Errorf("menu choice %q has no destination", choice.Label)
	}
	_, err = r.Navigate(ctx, n.route, n.arg)
	return err
}

func (s *Screens) exit(_ context.Context, _ *router.Router, _ any) error {
	s.prompt.Println("Bye from us! Chat soon.")
	return nil
}
