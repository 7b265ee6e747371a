package algebra

import (
	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/sql"
)

// InlineTable materializes literal rows. Values holds RowCount * number
// of columns expressions in row-major order. Zero-column rows pad with a
// dummy NULL because values lists cannot hold empty tuples; zero rows
// emit one padding row restricted by limit 0.
type InlineTable struct {
	Columns  []*saneql.IU
	Values   []Expression
	RowCount int
}

func NewInlineTable(columns []*saneql.IU, values []Expression, rowCount int) *InlineTable {
	return &InlineTable{Columns: columns, Values: values, RowCount: rowCount}
}

func (op *InlineTable) Generate(out *sql.Writer) {
	out.Write("(select * from (values")
	if op.RowCount > 0 {
		for row := 0; row < op.RowCount; row++ {
			if row > 0 {
				out.Write(",")
			}
			if len(op.Columns) > 0 {
				out.Write("(")
				for col := range op.Columns {
					if col > 0 {
						out.Write(", ")
					}
					op.Values[row*len(op.Columns)+col].Generate(out)
				}
				out.Write(")")
			} else {
				out.Write("(NULL)")
			}
		}
	} else {
		if len(op.Columns) > 0 {
			out.Write("(")
			for col := range op.Columns {
				if col > 0 {
					out.Write(", ")
				}
				out.Write("NULL")
			}
			out.Write(")")
		} else {
			out.Write("(NULL)")
		}
	}
	out.Write(") s(")
	for i, c := range op.Columns {
		if i > 0 {
			out.Write(", ")
		}
		out.WriteIU(c)
	}
	out.Write(")")
	if op.RowCount == 0 {
		out.Write(" limit 0")
	}
	out.Write(")")
}
