package scaffkit

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
)

// `config` subcommand: inspect and reset stored settings.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or clear stored settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings file location and contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := newShell(cmd.Context())
		if err != nil {
			return err
		}
		raw, err := toml.Marshal(sh.store.All())
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", sh.store.Path())
		_, err = out.Write(raw)
		return err
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear [package]",
	Short: "Clear stored settings of one generator package, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := newShell(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			if err := settings.ClearGenerator(sh.store, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "[+] Cleared stored settings of %s\n", args[0])
			return nil
		}
		if err := sh.store.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(out, "[+] Cleared all stored settings in %s\n", sh.store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configClearCmd)
}
