package cmd

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/saneql/saneql/compiler"
)

// describeResult prints the output columns of a compiled query as a
// table of name and type.
func describeResult(w io.Writer, result *compiler.Result) error {
	table := tablewriter.NewWriter(w)
	table.SetColWidth(24)
	table.SetRowLine(false)
	table.SetHeader([]string{"name", "type"})
	table.SetAutoFormatHeaders(false)

	if result.IsScalar {
		table.Append([]string{"", result.Scalar.ResultType().Name()})
		table.Render()
		return nil
	}
	for _, c := range result.Columns {
		if strings.HasPrefix(c.Name, " ") {
			continue
		}
		table.Append([]string{c.Name, c.IU.Type.Name()})
	}
	table.Render()
	return nil
}
