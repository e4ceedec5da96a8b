package sandbox

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Format renders a table as aligned plain text for feeding back to a model.
func Format(t Table) string {
	if len(t.Columns) == 0 {
		return "(statement executed, no result set)"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
	if len(t.Rows) == 0 {
		b.WriteString("(0 rows)\n")
	}
	if t.Truncated {
		fmt.Fprintf(&b, "(truncated to %d rows)\n", len(t.Rows))
	}
	return b.String()
}
