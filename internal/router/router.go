// Package router dispatches named screens of the interactive CLI to their
// handlers and holds the state those handlers share: the discovery
// environment, the settings store and the generator catalog.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/log"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/catalog"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/discovery"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
)

// Route names a screen.
type Route string

// Screens registered by the CLI shell.
const (
	RouteHome        Route = "home"
	RouteRun         Route = "run"
	RouteUpdate      Route = "update"
	RouteClearConfig Route = "clearConfig"
	RouteHelp        Route = "help"
	RouteExit        Route = "exit"
)

// Handler runs one screen. It may call r.Navigate to move on to the next
// screen; returning ends the chain.
type Handler func(ctx context.Context, r *Router, arg any) error

// ErrRouteNotFound matches every *RouteNotFoundError.
var ErrRouteNotFound = errors.New("route not found")

// RouteNotFoundError is returned by Navigate for an unregistered route.
type RouteNotFoundError struct {
	Name Route
	// Suggestion is the closest registered route, if any is close enough.
	Suggestion Route
}

func (e *RouteNotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no routes called: %s (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("no routes called: %s", e.Name)
}

func (e *RouteNotFoundError) Is(target error) bool { return target == ErrRouteNotFound }

// maxSuggestDistance bounds the edit distance of route suggestions.
const maxSuggestDistance = 2

// Router owns the route table. It is not safe for concurrent use.
type Router struct {
	routes   map[Route]Handler
	env      discovery.Environment
	settings settings.Store
	catalog  *catalog.Catalog
	logger   *log.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithSettings supplies the settings store instead of the default one.
func WithSettings(s settings.Store) Option {
	return func(r *Router) { r.settings = s }
}

// WithCatalog supplies the generator catalog. It must be built over the same
// environment.
func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Router) { r.catalog = c }
}

// WithLogger sets the logger used for navigation diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New creates a Router over env. Without WithSettings it opens the per-user
// settings store with the default shape.
func New(env discovery.Environment, opts ...Option) (*Router, error) {
	r := &Router{
		routes: make(map[Route]Handler),
		env:    env,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.settings == nil {
		s, err := settings.OpenDefault()
		if err != nil {
			return nil, err
		}
		r.settings = s
	}
	if r.catalog == nil {
		r.catalog = catalog.New(env, catalog.WithLogger(r.logger))
	}
	return r, nil
}

// RegisterRoute stores h under name, replacing any previous handler.
func (r *Router) RegisterRoute(name Route, h Handler) *Router {
	r.routes[name] = h
	return r
}

// Navigate runs the handler registered under name with arg. It returns r once
// the handler (and every screen it navigated to) completed. A handler error is
// returned as is.
func (r *Router) Navigate(ctx context.Context, name Route, arg any) (*Router, error) {
	h := r.routes[name]
	if h == nil {
		return nil, &RouteNotFoundError{Name: name, Suggestion: r.suggest(name)}
	}

	r.logger.Debug("navigate", "route", name)
	if err := h(ctx, r, arg); err != nil {
		return nil, err
	}
	return r, nil
}

// Routes returns the registered route names in sorted order.
func (r *Router) Routes() []Route {
	out := make([]Route, 0, len(r.routes))
	for name, h := range r.routes {
		if h != nil {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UpdateAvailableGenerators rebuilds the generator catalog from the
// environment. On error the previous catalog is kept.
func (r *Router) UpdateAvailableGenerators(ctx context.Context) error {
	return r.catalog.Rebuild(ctx)
}

// Generators returns the current catalog, keyed by package name.
func (r *Router) Generators() map[string]*catalog.Record { return r.catalog.Generators }

func (r *Router) Catalog() *catalog.Catalog { return r.catalog }

func (r *Router) Env() discovery.Environment { return r.env }

func (r *Router) Settings() settings.Store { return r.settings }

func (r *Router) Logger() *log.Logger { return r.logger }

func (r *Router) suggest(name Route) Route {
	best := Route("")
	bestDist := maxSuggestDistance + 1
	for _, candidate := range r.Routes() {
		d := levenshtein.ComputeDistance(string(name), string(candidate))
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
