package algebra

import (
	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/sql"
)

// Aggregate reduces a table subtree to a single scalar value. The
// computation may combine several aggregates; without any it degenerates
// to a plain scalar subquery.
type Aggregate struct {
	Input       Operator
	Aggregates  []Aggregation
	Computation Expression
}

func NewAggregate(input Operator, aggregates []Aggregation, computation Expression) *Aggregate {
	return &Aggregate{Input: input, Aggregates: aggregates, Computation: computation}
}

func (e *Aggregate) ResultType() saneql.Type { return e.Computation.ResultType() }

func (e *Aggregate) Generate(out *sql.Writer) {
	out.Write("(select ")
	e.Computation.Generate(out)
	if len(e.Aggregates) > 0 {
		out.Write(" from (select ")
		for i := range e.Aggregates {
			if i > 0 {
				out.Write(", ")
			}
			a := &e.Aggregates[i]
			generateAggregate(out, a)
			out.Write(" as ")
			out.WriteIU(a.IU)
		}
		out.Write(" from ")
		e.Input.Generate(out)
		out.Write(" s")
		out.Write(") s")
	}
	out.Write(")")
}
