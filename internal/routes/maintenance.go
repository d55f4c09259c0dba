package routes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/router"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/tui"
)

// InstallCommand is the suggestion printed for an outdated package.
func InstallCommand(pkg string) string {
	return "npm install -g " + pkg + "@latest"
}

func (s *Screens) update(ctx context.Context, r *router.Router, _ any) error {
	outdated := r.Catalog().Outdated()
	if len(outdated) == 0 {
		s.prompt.Println(tui.SuccessStyle.Render("All your generators are up to date."))
		return s.backHome(ctx, r)
	}

	choices := make([]tui.Choice, 0, len(outdated)+2)
	for _, rec := range outdated {
		choices = append(choices, tui.Choice{
			Label: rec.PrettyName,
			Hint:  fmt.Sprintf("%s -> %s", rec.Version, rec.Update.Latest),
			Value: rec.Name,
		})
	}
	choices = append(choices,
		tui.Choice{Label: "──────────────", Separator: true},
		tui.Choice{Label: "Back", Value: next{route: router.RouteHome}},
	)

	choice, err := s.prompt.Select(ctx, "Which generator do you want to update?", choices)
	if err != nil && !errors.Is(err, tui.ErrAborted) {
		return err
	}
	if pkg, ok := choice.Value.(string); ok && err == nil {
		s.prompt.Println(tui.WarningStyle.Render("Run the following to update " + pkg + ":"))
		s.prompt.Println("  " + InstallCommand(pkg))
	}
	return s.backHome(ctx, r)
}

// clearTarget is the Value of clearConfig menu entries. An empty pkg means
// everything.
type clearTarget struct {
	pkg string
}

func (s *Screens) clearConfig(ctx context.Context, r *router.Router, _ any) error {
	store := r.Settings()

	var choices []tui.Choice
	if names := storedGenerators(r); len(names) > 0 {
		choices = append(choices, tui.Choice{Label: "Clear one generator", Separator: true})
		for _, name := range names {
			choices = append(choices, tui.Choice{Label: name, Value: clearTarget{pkg: name}})
		}
		choices = append(choices, tui.Choice{Label: "──────────────", Separator: true})
	}
	choices = append(choices,
		tui.Choice{Label: "Clear all stored settings", Value: clearTarget{}},
		tui.Choice{Label: "Back", Value: next{route: router.RouteHome}},
	)

	choice, err := s.prompt.Select(ctx, "Which stored settings do you want to clear?", choices)
	if errors.Is(err, tui.ErrAborted) {
		return s.backHome(ctx, r)
	}
	if err != nil {
		return err
	}

	target, ok := choice.Value.(clearTarget)
	switch {
	case !ok:
	case target.pkg != "":
		if err := settings.ClearGenerator(store, target.pkg); err != nil {
			return fmt.Errorf("clearing settings of %s: %w", target.pkg, err)
		}
		s.prompt.Println(tui.SuccessStyle.Render("Cleared stored settings of " + target.pkg + "."))
	default:
		sure, err := s.prompt.Confirm(ctx, "Clear every stored setting?", false)
		if err != nil && !errors.Is(err, tui.ErrAborted) {
			return err
		}
		if sure {
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clearing settings: %w", err)
			}
			s.prompt.Println(tui.SuccessStyle.Render("Cleared all stored settings."))
		}
	}
	return s.backHome(ctx, r)
}

// storedGenerators returns the package names the settings store knows about,
// including ones that are no longer installed.
func storedGenerators(r *router.Router) []string {
	seen := make(map[string]bool)
	for _, key := range []string{settings.KeyGeneratorRunCount, settings.KeyUpdateCheck} {
		for name := range settings.Table(r.Settings(), key) {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Screens) help(ctx context.Context, r *router.Router, _ any) error {
	if err := s.prompt.Show(ctx, helpText(r)); err != nil && !errors.Is(err, tui.ErrAborted) {
		return err
	}
	return s.backHome(ctx, r)
}

type lookupPather interface {
	LookupPaths() []string
}

func helpText(r *router.Router) string {
	var b strings.Builder
	b.WriteString("# scaffkit\n\n")
	b.WriteString("Pick a generator from the home menu to start a new project. ")
	b.WriteString("Generators are packages named `generator-<name>` found on the lookup paths.\n\n")

	if lp, ok := r.Env().(lookupPather); ok {
		b.WriteString("## Lookup paths\n\n")
		for _, p := range lp.LookupPaths() {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Installed generators\n\n%d top-level generators, %d with updates.\n\n",
		len(r.Generators()), len(r.Catalog().Outdated()))

	b.WriteString("## Screens\n\n")
	for _, name := range r.Routes() {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	if p := r.Settings().Path(); p != "" {
		fmt.Fprintf(&b, "\nSettings are stored in `%s`.\n", p)
	}
	return b.String()
}

// backHome navigates from inside the current handler: every screen visited
// stays on the call stack until the session reaches exit.
func (s *Screens) backHome(ctx context.Context, r *router.Router) error {
	_, err := r.Navigate(ctx, router.RouteHome, nil)
	return err
}
