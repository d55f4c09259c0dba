package routes

import (
	"context"
	"fmt"
	"sort"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/catalog"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/router"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/tui"
)

const homeTitle = "What would you like to do?"

func (s *Screens) home(ctx context.Context, r *router.Router, arg any) error {
	if arg == ArgRefresh {
		if l, ok := r.Env().(Looker); ok {
			if err := l.Lookup(ctx); err != nil {
				return fmt.Errorf("scanning lookup paths: %w", err)
			}
		}
		if err := r.UpdateAvailableGenerators(ctx); err != nil {
			return err
		}
	}

	choice, err := s.prompt.Select(ctx, homeTitle, homeChoices(r))
	return follow(ctx, r, choice, err)
}

// homeChoices lists the generators most used first, then the other screens.
func homeChoices(r *router.Router) []tui.Choice {
	var choices []tui.Choice

	gens := byRunCount(r.Catalog().Sorted(), settings.RunCounts(r.Settings()))
	if len(gens) > 0 {
		choices = append(choices, tui.Choice{Label: "Run a generator", Separator: true})
		for _, rec := range gens {
			c := tui.Choice{Label: rec.PrettyName, Value: next{route: router.RouteRun, arg: rec}}
			if rec.UpdateAvailable && rec.Update != nil {
				c.Hint = fmt.Sprintf("update available: %s -> %s", rec.Version, rec.Update.Latest)
			}
			choices = append(choices, c)
		}
		choices = append(choices, tui.Choice{Label: "──────────────", Separator: true})
	} else {
		choices = append(choices, tui.Choice{Label: "No generators installed", Separator: true})
	}

	if len(r.Catalog().Outdated()) > 0 {
		choices = append(choices, tui.Choice{Label: "Update your generators", Value: next{route: router.RouteUpdate}})
	}
	return append(choices,
		tui.Choice{Label: "Refresh generator list", Value: next{route: router.RouteHome, arg: ArgRefresh}},
		tui.Choice{Label: "Clear global config", Value: next{route: router.RouteClearConfig}},
		tui.Choice{Label: "Get me out of here!", Value: next{route: router.RouteExit}},
		tui.Choice{Label: "Get some help", Value: next{route: router.RouteHelp}},
	)
}

// byRunCount orders records by descending run count. Ties keep the input order.
func byRunCount(recs []*catalog.Record, counts map[string]int) []*catalog.Record {
	sort.SliceStable(recs, func(i, j int) bool {
		return counts[recs[i].Name] > counts[recs[j].Name]
	})
	return recs
}

func (s *Screens) run(ctx context.Context, r *router.Router, arg any) error {
	rec, ok := arg.(*catalog.Record)
	if !ok {
		return fmt.Errorf("run screen needs a generator record, got %T", arg)
	}
	n, err := settings.IncrementRunCount(r.Settings(), rec.Name)
	if err != nil {
		return fmt.Errorf("recording run of %s: %w", rec.Name, err)
	}
	r.Logger().Debug("running generator", "package", rec.Name, "namespace", rec.Namespace, "runs", n)
	return s.runner.Run(ctx, rec)
}
