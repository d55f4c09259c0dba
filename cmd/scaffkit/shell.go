package scaffkit

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/app"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/catalog"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/discovery"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/router"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/update"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/workspace"
	"github.com/tldr-it-stepankutaj/scaffkit/pkg/version"
)

// shell wires the collaborators every command needs.
type shell struct {
	app    app.Context
	store  *settings.FileStore
	env    *discovery.FSEnvironment
	router *router.Router
}

// loadConfig reads the configuration, filling in the default lookup paths of
// the selected state dir when none were given.
func loadConfig() (app.Config, error) {
	cfg := app.ConfigFromViper()
	if len(cfg.LookupPaths) == 0 {
		cfg.LookupPaths = defaultLookupPaths(workspace.Handle{Root: cfg.StateDir})
	}
	return cfg, cfg.Validate()
}

func newShell(ctx context.Context) (*shell, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := app.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Ensure(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	appCtx := app.Context{
		Ctx:       ctx,
		Config:    cfg,
		Workspace: ws,
		Logger:    logger,
	}

	store, err := settings.Open(appCtx.Workspace.SettingsPath(), settings.DefaultValues())
	if err != nil {
		return nil, err
	}
	env := discovery.NewFSEnvironment(cfg.LookupPaths, discovery.WithLogger(logger))
	cat := catalog.New(env,
		catalog.WithChecker(newChecker(cfg, store, logger)),
		catalog.WithLogger(logger),
	)
	r, err := router.New(env,
		router.WithSettings(store),
		router.WithCatalog(cat),
		router.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &shell{
		app:    appCtx,
		store:  store,
		env:    env,
		router: r,
	}, nil
}

func newChecker(cfg app.Config, store settings.Store, logger *log.Logger) update.Checker {
	if cfg.NoUpdateCheck {
		return update.Disabled{}
	}
	client := update.NewRegistryClient(
		update.WithBaseURL(cfg.Registry),
		update.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		update.WithUserAgent(fmt.Sprintf("scaffkit/%s", version.Version)),
	)
	return update.NewRegistryChecker(store,
		update.WithRegistryClient(client),
		update.WithInterval(cfg.UpdateInterval),
		update.WithLogger(logger),
	)
}

// refresh rescans the lookup paths and rebuilds the catalog within the
// configured timeout.
func (s *shell) refresh() error {
	ctx, cancel := context.WithTimeout(s.app.Ctx, s.app.Config.Timeout)
	defer cancel()

	if err := s.env.Lookup(ctx); err != nil {
		return fmt.Errorf("scanning lookup paths: %w", err)
	}
	if err := s.router.UpdateAvailableGenerators(ctx); err != nil {
		return fmt.Errorf("rebuilding generator catalog: %w", err)
	}
	return nil
}
