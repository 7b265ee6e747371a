package algebra

import (
	"strconv"

	"github.com/saneql/saneql/sql"
)

// GroupBy aggregates its input. Groups are referenced by position in the
// generated group by clause; an empty group list aggregates everything
// into a single row via "group by true".
type GroupBy struct {
	Input      Operator
	Groups     []Entry
	Aggregates []Aggregation
}

func NewGroupBy(input Operator, groups []Entry, aggregates []Aggregation) *GroupBy {
	return &GroupBy{Input: input, Groups: groups, Aggregates: aggregates}
}

func (op *GroupBy) Generate(out *sql.Writer) {
	out.Write("(select ")
	first := true
	for _, g := range op.Groups {
		if !first {
			out.Write(", ")
		}
		first = false
		g.Value.Generate(out)
		out.Write(" as ")
		out.WriteIU(g.IU)
	}
	for i := range op.Aggregates {
		if !first {
			out.Write(", ")
		}
		first = false
		a := &op.Aggregates[i]
		generateAggregate(out, a)
		out.Write(" as ")
		out.WriteIU(a.IU)
	}
	out.Write(" from ")
	op.Input.Generate(out)
	out.Write(" s group by ")
	if len(op.Groups) == 0 {
		out.Write("true")
	} else {
		for i := range op.Groups {
			if i > 0 {
				out.Write(", ")
			}
			out.Write(strconv.Itoa(i + 1))
		}
	}
	out.Write(")")
}
