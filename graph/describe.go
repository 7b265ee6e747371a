package graph

import (
	"strconv"

	"github.com/saneql/saneql/algebra"
	"github.com/saneql/saneql/sql"
)

// Describe turns an operator tree into a node tree for rendering. All
// expressions are shown as generated SQL, with column names shared
// across the whole plan.
func Describe(op algebra.Operator) *Node {
	d := &describer{out: sql.NewWriter()}
	return d.operator(op)
}

type describer struct {
	out *sql.Writer
}

func (d *describer) expression(e algebra.Expression) string {
	e.Generate(d.out)
	return d.out.Take()
}

func aggregationName(op algebra.AggregationOp) string {
	switch op {
	case algebra.AggCountStar, algebra.AggCount:
		return "count"
	case algebra.AggCountDistinct:
		return "count distinct"
	case algebra.AggSum:
		return "sum"
	case algebra.AggSumDistinct:
		return "sum distinct"
	case algebra.AggMin:
		return "min"
	case algebra.AggMax:
		return "max"
	case algebra.AggAvg:
		return "avg"
	case algebra.AggAvgDistinct:
		return "avg distinct"
	case algebra.AggRowNumber:
		return "row_number"
	case algebra.AggRank:
		return "rank"
	case algebra.AggDenseRank:
		return "dense_rank"
	case algebra.AggNTile:
		return "ntile"
	case algebra.AggLead:
		return "lead"
	case algebra.AggLag:
		return "lag"
	case algebra.AggFirstValue:
		return "first_value"
	case algebra.AggLastValue:
		return "last_value"
	default:
		panic("unexhaustive aggregation op match")
	}
}

func joinTypeName(t algebra.JoinType) string {
	switch t {
	case algebra.JoinInner:
		return "inner"
	case algebra.JoinLeftOuter:
		return "left outer"
	case algebra.JoinRightOuter:
		return "right outer"
	case algebra.JoinFullOuter:
		return "full outer"
	case algebra.JoinLeftSemi:
		return "left semi"
	case algebra.JoinRightSemi:
		return "right semi"
	case algebra.JoinLeftAnti:
		return "left anti"
	case algebra.JoinRightAnti:
		return "right anti"
	default:
		panic("unexhaustive join type match")
	}
}

func setOperationName(op algebra.SetOperationOp) string {
	switch op {
	case algebra.SetUnion:
		return "union"
	case algebra.SetUnionAll:
		return "union all"
	case algebra.SetExcept:
		return "except"
	case algebra.SetExceptAll:
		return "except all"
	case algebra.SetIntersect:
		return "intersect"
	case algebra.SetIntersectAll:
		return "intersect all"
	default:
		panic("unexhaustive set operation match")
	}
}

func (d *describer) operator(op algebra.Operator) *Node {
	switch op := op.(type) {
	case *algebra.TableScan:
		n := NewNode("table scan")
		n.AddField("table", op.Name)
		for _, c := range op.Columns {
			d.out.WriteIU(c.IU)
			n.AddField(c.Name, d.out.Take())
		}
		return n
	case *algebra.Select:
		n := NewNode("select")
		n.AddField("condition", d.expression(op.Condition))
		n.AddChild("source", d.operator(op.Input))
		return n
	case *algebra.Map:
		n := NewNode("map")
		for _, e := range op.Computations {
			d.out.WriteIU(e.IU)
			name := d.out.Take()
			n.AddField(name, d.expression(e.Value))
		}
		n.AddChild("source", d.operator(op.Input))
		return n
	case *algebra.Join:
		n := NewNode("join")
		n.AddField("type", joinTypeName(op.JoinType))
		n.AddField("condition", d.expression(op.Condition))
		n.AddChild("left", d.operator(op.Left))
		n.AddChild("right", d.operator(op.Right))
		return n
	case *algebra.GroupBy:
		n := NewNode("group by")
		for _, g := range op.Groups {
			d.out.WriteIU(g.IU)
			name := d.out.Take()
			n.AddField(name, d.expression(g.Value))
		}
		for i := range op.Aggregates {
			a := &op.Aggregates[i]
			value := aggregationName(a.Op)
			if a.Value != nil {
				value += " " + d.expression(a.Value)
			}
			d.out.WriteIU(a.IU)
			n.AddField(d.out.Take(), value)
		}
		n.AddChild("source", d.operator(op.Input))
		return n
	case *algebra.Sort:
		n := NewNode("sort")
		for i, o := range op.Order {
			value := d.expression(o.Value)
			if o.Descending {
				value += " desc"
			}
			n.AddField("order"+strconv.Itoa(i+1), value)
		}
		if op.Limit != nil {
			n.AddField("limit", strconv.FormatUint(*op.Limit, 10))
		}
		if op.Offset != nil {
			n.AddField("offset", strconv.FormatUint(*op.Offset, 10))
		}
		n.AddChild("source", d.operator(op.Input))
		return n
	case *algebra.SetOperation:
		n := NewNode(setOperationName(op.Op))
		for i, iu := range op.ResultColumns {
			left := d.expression(op.LeftColumns[i])
			right := d.expression(op.RightColumns[i])
			d.out.WriteIU(iu)
			n.AddField(d.out.Take(), left+" / "+right)
		}
		n.AddChild("left", d.operator(op.Left))
		n.AddChild("right", d.operator(op.Right))
		return n
	case *algebra.Window:
		n := NewNode("window")
		for i := range op.Aggregates {
			a := &op.Aggregates[i]
			value := aggregationName(a.Op)
			if a.Value != nil {
				value += " " + d.expression(a.Value)
			}
			d.out.WriteIU(a.IU)
			n.AddField(d.out.Take(), value)
		}
		for i, p := range op.PartitionBy {
			n.AddField("partition"+strconv.Itoa(i+1), d.expression(p))
		}
		for i, o := range op.OrderBy {
			value := d.expression(o.Value)
			if o.Descending {
				value += " desc"
			}
			n.AddField("order"+strconv.Itoa(i+1), value)
		}
		n.AddChild("source", d.operator(op.Input))
		return n
	case *algebra.InlineTable:
		n := NewNode("inline table")
		n.AddField("rows", strconv.Itoa(op.RowCount))
		for _, iu := range op.Columns {
			d.out.WriteIU(iu)
			n.AddField(d.out.Take(), iu.Type.Name())
		}
		return n
	case *algebra.Aggregate:
		n := NewNode("aggregate")
		for i := range op.Aggregates {
			a := &op.Aggregates[i]
			value := aggregationName(a.Op)
			if a.Value != nil {
				value += " " + d.expression(a.Value)
			}
			d.out.WriteIU(a.IU)
			n.AddField(d.out.Take(), value)
		}
		n.AddField("computation", d.expression(op.Computation))
		n.AddChild("source", d.operator(op.Input))
		return n
	default:
		panic("unexhaustive operator match")
	}
}
