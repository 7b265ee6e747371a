package algebra

import (
	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/sql"
)

// TableScanColumn binds a schema column name to its IU.
type TableScanColumn struct {
	Name string
	IU   *saneql.IU
}

// TableScan reads a base table.
type TableScan struct {
	Name    string
	Columns []TableScanColumn
}

func NewTableScan(name string, columns []TableScanColumn) *TableScan {
	return &TableScan{Name: name, Columns: columns}
}

func (op *TableScan) Generate(out *sql.Writer) {
	out.Write("(select ")
	for i, c := range op.Columns {
		if i > 0 {
			out.Write(", ")
		}
		out.WriteIdentifier(c.Name)
		out.Write(" as ")
		out.WriteIU(c.IU)
	}
	out.Write(" from ")
	out.WriteIdentifier(op.Name)
	out.Write(")")
}
