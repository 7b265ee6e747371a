package algebra

import (
	"github.com/saneql/saneql/sql"
)

// Window computes window functions over partitions of its input.
type Window struct {
	Input       Operator
	Aggregates  []Aggregation
	PartitionBy []Expression
	OrderBy     []SortEntry
}

func NewWindow(input Operator, aggregates []Aggregation, partitionBy []Expression, orderBy []SortEntry) *Window {
	return &Window{Input: input, Aggregates: aggregates, PartitionBy: partitionBy, OrderBy: orderBy}
}

func (op *Window) Generate(out *sql.Writer) {
	out.Write("(select *")
	for i := range op.Aggregates {
		out.Write(", ")
		a := &op.Aggregates[i]
		generateAggregate(out, a)
		out.Write(" over (")
		first := true
		if len(op.PartitionBy) > 0 {
			out.Write("partition by ")
			for j, p := range op.PartitionBy {
				if j > 0 {
					out.Write(", ")
				}
				p.Generate(out)
			}
			first = false
		}
		if len(op.OrderBy) > 0 {
			if !first {
				out.Write(" ")
			}
			out.Write("order by ")
			for j, o := range op.OrderBy {
				if j > 0 {
					out.Write(", ")
				}
				o.Value.Generate(out)
				if o.Descending {
					out.Write(" desc")
				}
			}
		}
		out.Write(") as ")
		out.WriteIU(a.IU)
	}
	out.Write(" from ")
	op.Input.Generate(out)
	out.Write(" s)")
}
