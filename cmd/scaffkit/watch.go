package scaffkit

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/catalog"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/discovery"
)

// `watch` subcommand: rebuild the catalog whenever generators change on disk.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the generator list every time the lookup paths change",
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := newShell(cmd.Context())
		if err != nil {
			return err
		}
		ctx := sh.app.Ctx
		out := cmd.OutOrStdout()
		logger := sh.app.Logger

		w, err := discovery.NewWatcher(discovery.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Stop()

		rebuild := func() error {
			if err := sh.refresh(); err != nil {
				return err
			}
			dirs := append(sh.env.LookupPaths(), sh.env.PackagePaths()...)
			if err := w.Sync(dirs); err != nil {
				return fmt.Errorf("watching lookup paths: %w", err)
			}
			return printSummary(out, sh.router.Catalog())
		}

		if err := rebuild(); err != nil {
			return err
		}
		w.Start()
		logger.Info("watching for generator changes", "paths", sh.env.LookupPaths())

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-w.Changes:
				if err := rebuild(); err != nil {
					// A half-written package.json during an install fixes itself
					// on the next event.
					logger.Error("rebuild failed", "err", err)
				}
			}
		}
	},
}

func printSummary(w io.Writer, c *catalog.Catalog) error {
	fmt.Fprintf(w, "%d generators, %d with updates\n", len(c.Generators), len(c.Outdated()))
	if err := catalog.Export(w, c.Sorted(), catalog.FormatTable); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
