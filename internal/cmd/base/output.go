package base

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Table is implemented by results that render as a table.
type Table interface {
	Header() []string
	Rows() [][]string
}

// Output writes v to the UI in the given format. Values that are not a Table
// are printed as is in table format.
func (c *Command) Output(format string, v any) error {
	var out string

	switch format {
	case "", "table":
		t, ok := v.(Table)
		if !ok {
			out = fmt.Sprint(v)
			break
		}
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, strings.Join(t.Header(), "\t"))
		for _, row := range t.Rows() {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		out = buf.String()

	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding json: %w", err)
		}
		out = string(b)

	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("error encoding yaml: %w", err)
		}
		out = string(b)

	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	c.UI.Output(strings.TrimRight(out, "\n"))
	return nil
}
