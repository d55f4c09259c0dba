package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Export.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Export writes records to w in the given format.
func Export(w io.Writer, records []*Record, format string) error {
	if format == FormatTable || format == "" {
		return exportTable(w, records)
	}
	return Encode(w, records, format)
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use %s, %s or %s)", format, FormatTable, FormatJSON, FormatYAML)
	}
}

func exportTable(w io.Writer, records []*Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPACKAGE\tVERSION\tNAMESPACE\tUPDATE")
	for _, r := range records {
		upd := "-"
		if r.UpdateAvailable && r.Update != nil {
			upd = r.Update.Latest + " (" + r.Update.Type + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.PrettyName, r.Name, r.Version, r.Namespace, upd)
	}
	return tw.Flush()
}
