package scaffkit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/app"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/router"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/routes"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/tui"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/update"
	"github.com/tldr-it-stepankutaj/scaffkit/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "scaffkit",
	Short: "Scaffkit: find and launch project generators",
	Long: "Scaffkit discovers generator packages on your lookup paths, tells you which ones have updates " +
		"and lets you pick one to start a new project.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := newShell(cmd.Context())
		if err != nil {
			return err
		}
		if err := sh.refresh(); err != nil {
			return err
		}

		screens := routes.New(
			tui.NewTerminal(tui.WithOutput(cmd.OutOrStdout())),
			routes.PrintRunner{Out: cmd.OutOrStdout()},
		)
		_, err = screens.Register(sh.router).Navigate(sh.app.Ctx, router.RouteHome, nil)
		return err
	},
}

func init() {
	// Persistent flags (available to all subcommands).
	rootCmd.PersistentFlags().String("state-dir", defaultStateDir(), "Directory holding settings and per-user generators")
	rootCmd.PersistentFlags().StringSlice("lookup-path", nil, "Directory searched for generator packages (repeatable; default ./node_modules and <state-dir>/generators)")
	rootCmd.PersistentFlags().String("registry", update.DefaultRegistryURL, "Package registry queried for updates")
	rootCmd.PersistentFlags().Bool("no-update-check", false, "Do not query the registry for updates")
	rootCmd.PersistentFlags().Duration("update-interval", update.DefaultInterval, "How long a registry answer is reused")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout of a lookup and rebuild pass")

	// Bind flags to Viper.
	_ = viper.BindPFlag("state_dir", rootCmd.PersistentFlags().Lookup("state-dir"))
	_ = viper.BindPFlag("lookup_paths", rootCmd.PersistentFlags().Lookup("lookup-path"))
	_ = viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("no_update_check", rootCmd.PersistentFlags().Lookup("no-update-check"))
	_ = viper.BindPFlag("update_interval", rootCmd.PersistentFlags().Lookup("update-interval"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	// Env support: SCAFFKIT_STATE_DIR, SCAFFKIT_LOOKUP_PATHS, etc.
	viper.SetEnvPrefix("SCAFFKIT")
	viper.AutomaticEnv()

	// Register subcommands.
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultStateDir() string {
	dir, err := settings.DefaultDir()
	if err != nil {
		return "." + settings.AppName
	}
	return dir
}

// defaultLookupPaths searches the project's node_modules before the per-user
// generators directory.
func defaultLookupPaths(ws app.WorkspaceHandle) []string {
	return []string{"node_modules", ws.GeneratorsPath()}
}

// `version` subcommand.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.String()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
