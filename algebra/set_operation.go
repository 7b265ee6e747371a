package algebra

import (
	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/sql"
)

type SetOperationOp int

const (
	SetUnion SetOperationOp = iota
	SetUnionAll
	SetExcept
	SetExceptAll
	SetIntersect
	SetIntersectAll
)

// SetOperation combines two inputs with a SQL set operation. Both sides
// are wrapped in explicit projections so the column lists line up by
// position; the result columns take fresh IUs.
type SetOperation struct {
	Left, Right   Operator
	LeftColumns   []Expression
	RightColumns  []Expression
	ResultColumns []*saneql.IU
	Op            SetOperationOp
}

func NewSetOperation(left, right Operator, leftColumns, rightColumns []Expression, resultColumns []*saneql.IU, op SetOperationOp) *SetOperation {
	return &SetOperation{Left: left, Right: right, LeftColumns: leftColumns, RightColumns: rightColumns, ResultColumns: resultColumns, Op: op}
}

func (op *SetOperation) Generate(out *sql.Writer) {
	out.Write("((select ")
	for i, c := range op.LeftColumns {
		if i > 0 {
			out.Write(", ")
		}
		c.Generate(out)
		out.Write(" as ")
		out.WriteIU(op.ResultColumns[i])
	}
	out.Write(" from ")
	op.Left.Generate(out)
	out.Write(" l) ")
	switch op.Op {
	case SetUnion:
		out.Write("union")
	case SetUnionAll:
		out.Write("union all")
	case SetExcept:
		out.Write("except")
	case SetExceptAll:
		out.Write("except all")
	case SetIntersect:
		out.Write("intersect")
	case SetIntersectAll:
		out.Write("intersect all")
	default:
		panic("unexhaustive set operation match")
	}
	out.Write(" (select ")
	for i, c := range op.RightColumns {
		if i > 0 {
			out.Write(", ")
		}
		c.Generate(out)
	}
	out.Write(" from ")
	op.Right.Generate(out)
	out.Write(" r))")
}
