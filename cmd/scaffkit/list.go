package scaffkit

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/catalog"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/discovery"
)

// `list` subcommand: print the generator catalog.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed generators and available updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := newShell(cmd.Context())
		if err != nil {
			return err
		}
		if err := sh.refresh(); err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		all, _ := cmd.Flags().GetBool("all")
		out := cmd.OutOrStdout()

		records := sh.router.Catalog().Sorted()
		if !all {
			return catalog.Export(out, records, format)
		}
		return exportAll(out, records, namespaces(sh.env.GeneratorsMeta()), format)
	},
}

func init() {
	listCmd.Flags().String("format", catalog.FormatTable, "Output format (table, json, yaml)")
	listCmd.Flags().Bool("all", false, "Also list sub-generators")
}

// listing is the --all document for json and yaml output.
type listing struct {
	Generators []*catalog.Record `json:"generators" yaml:"generators"`
	Namespaces []discovery.Meta  `json:"namespaces" yaml:"namespaces"`
}

func namespaces(meta map[string]discovery.Meta) []discovery.Meta {
	out := make([]discovery.Meta, 0, len(meta))
	for _, m := range meta {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Namespace < out[j].Namespace })
	return out
}

func exportAll(w io.Writer, records []*catalog.Record, metas []discovery.Meta, format string) error {
	switch format {
	case catalog.FormatJSON, catalog.FormatYAML:
		return catalog.Encode(w, listing{Generators: records, Namespaces: metas}, format)
	}

	if err := catalog.Export(w, records, format); err != nil {
		return err
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAMESPACE\tTOP-LEVEL\tENTRY")
	for _, m := range metas {
		top := "no"
		if catalog.IsAppNamespace(m.Namespace) {
			top = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Namespace, top, m.Resolved)
	}
	return tw.Flush()
}
