package algebra

import (
	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/sql"
)

// Collate selects a collation for ordering and comparisons.
type Collate int

const (
	CollateNone Collate = iota
)

// Operator is a relational algebra node. Every operator renders itself as
// a parenthesized SQL table expression, which makes subtrees freely
// composable.
type Operator interface {
	Generate(out *sql.Writer)
}

// Entry is a computed column: an expression and the IU it introduces.
type Entry struct {
	Value Expression
	IU    *saneql.IU
}

// AggregationOp identifies an aggregation or window function. The plain
// aggregates come first; the entries from RowNumber on are only valid in
// a Window operator.
type AggregationOp int

const (
	AggCountStar AggregationOp = iota
	AggCount
	AggCountDistinct
	AggSum
	AggSumDistinct
	AggMin
	AggMax
	AggAvg
	AggAvgDistinct
	AggRowNumber
	AggRank
	AggDenseRank
	AggNTile
	AggLead
	AggLag
	AggFirstValue
	AggLastValue
)

// Aggregation is one aggregate computation. Parameters carries the offset
// and default of lead and lag; ntile keeps its bucket count in Value.
type Aggregation struct {
	Value      Expression
	IU         *saneql.IU
	Op         AggregationOp
	Parameters []Expression
}

// generateAggregate writes a single aggregate call without alias.
func generateAggregate(out *sql.Writer, a *Aggregation) {
	switch a.Op {
	case AggCountStar:
		out.Write("count(*)")
		return
	case AggCount:
		out.Write("count(")
	case AggCountDistinct:
		out.Write("count(distinct ")
	case AggSum:
		out.Write("sum(")
	case AggSumDistinct:
		out.Write("sum(distinct ")
	case AggAvg:
		out.Write("avg(")
	case AggAvgDistinct:
		out.Write("avg(distinct ")
	case AggMin:
		out.Write("min(")
	case AggMax:
		out.Write("max(")
	case AggRowNumber:
		out.Write("row_number()")
		return
	case AggRank:
		out.Write("rank(")
	case AggDenseRank:
		out.Write("dense_rank(")
	case AggNTile:
		out.Write("ntile(")
	case AggLead:
		out.Write("lead(")
	case AggLag:
		out.Write("lag(")
	case AggFirstValue:
		out.Write("first_value(")
	case AggLastValue:
		out.Write("last_value(")
	default:
		panic("unexhaustive aggregation op match")
	}
	if a.Value != nil {
		a.Value.Generate(out)
	}
	for i, p := range a.Parameters {
		if i > 0 || a.Value != nil {
			out.Write(", ")
		}
		p.Generate(out)
	}
	out.Write(")")
}
